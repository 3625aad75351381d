package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"GO2GETHER_PLANNER/internal/models"
	"GO2GETHER_PLANNER/internal/store"
)

// Limits on stored notifications
const (
	maxTitleLen     = 255
	maxMessageLen   = 10000
	maxActionURLLen = 2048
	maxDataBytes    = 1024 * 1024

	DefaultNotificationLimit = 20
	MaxNotificationLimit     = 100
)

// Notifier validates and stores in-app notifications.
type Notifier struct {
	store  store.NotificationStore
	logger *slog.Logger
}

func NewNotifier(s store.NotificationStore, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{store: s, logger: logger}
}

// Create stores one notification for userID.
func (n *Notifier) Create(
	ctx context.Context,
	userID uuid.UUID,
	nType models.NotificationType,
	title string,
	message *string,
	data map[string]any,
	actionURL *string,
) error {
	if userID == uuid.Nil {
		return errors.New("user_id cannot be nil")
	}
	if strings.TrimSpace(string(nType)) == "" {
		return errors.New("notification type is required")
	}
	if strings.TrimSpace(title) == "" {
		return errors.New("notification title is required")
	}
	if len(title) > maxTitleLen {
		return fmt.Errorf("notification title exceeds maximum length of %d characters", maxTitleLen)
	}
	if message != nil && len(*message) > maxMessageLen {
		return fmt.Errorf("notification message exceeds maximum length of %d characters", maxMessageLen)
	}
	if actionURL != nil && len(*actionURL) > maxActionURLLen {
		return fmt.Errorf("action_url exceeds maximum length of %d characters", maxActionURLLen)
	}
	if !models.ValidNotificationType(string(nType)) {
		// unknown types are stored anyway
		n.logger.WarnContext(ctx, "unknown notification type", "type", nType, "user_id", userID)
	}
	if len(data) > 0 {
		b, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal notification data: %w", err)
		}
		if len(b) > maxDataBytes {
			return errors.New("notification data exceeds maximum size of 1MB")
		}
	}

	return n.store.CreateNotification(ctx, &models.Notification{
		UserID:    userID,
		Type:      nType,
		Title:     title,
		Message:   message,
		Data:      data,
		ActionURL: actionURL,
	})
}

// notifyAll sends the same notification to every recipient except skip.
// Failures are logged and never returned.
func (n *Notifier) notifyAll(ctx context.Context, recipients []uuid.UUID, skip uuid.UUID, nType models.NotificationType, title, message string, data map[string]any) {
	ctx = context.WithoutCancel(ctx)
	for _, uid := range recipients {
		if uid == skip {
			continue
		}
		msg := message
		if err := n.Create(ctx, uid, nType, title, &msg, data, nil); err != nil {
			n.logger.ErrorContext(ctx, "failed to create notification", "user_id", uid, "type", nType, "error", err)
		}
	}
}

// NotificationQuery narrows Notifications. Limit is clamped to
// [1, MaxNotificationLimit] with DefaultNotificationLimit when zero.
type NotificationQuery struct {
	UnreadOnly bool
	Type       string
	Limit      int
	Offset     int
}

// Notifications lists the session user's inbox, newest first.
func (p *Planner) Notifications(ctx context.Context, s Session, q NotificationQuery) (*store.NotificationPage, NotificationQuery, error) {
	if err := s.check(); err != nil {
		return nil, q, err
	}
	if q.Limit <= 0 {
		q.Limit = DefaultNotificationLimit
	}
	if q.Limit > MaxNotificationLimit {
		q.Limit = MaxNotificationLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	q.Type = strings.TrimSpace(q.Type)
	if q.Type != "" && !models.ValidNotificationType(q.Type) {
		return nil, q, invalid("unknown notification type %q", q.Type)
	}

	page, err := p.store.ListNotifications(ctx, s.UserID, store.NotificationFilter{
		UnreadOnly: q.UnreadOnly,
		Type:       q.Type,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return nil, q, fromStore("list notifications", err)
	}
	return page, q, nil
}

// MarkNotificationRead returns ErrNotFound when the notification is not the
// user's or was already read.
func (p *Planner) MarkNotificationRead(ctx context.Context, s Session, id uuid.UUID) error {
	if err := s.check(); err != nil {
		return err
	}
	if err := p.store.MarkRead(ctx, s.UserID, id); err != nil {
		return fromStore("mark notification read", err)
	}
	return nil
}

// MarkAllNotificationsRead returns how many notifications changed.
func (p *Planner) MarkAllNotificationsRead(ctx context.Context, s Session) (int64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	n, err := p.store.MarkAllRead(ctx, s.UserID)
	if err != nil {
		return 0, fromStore("mark all notifications read", err)
	}
	return n, nil
}
