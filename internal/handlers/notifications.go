package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"GO2GETHER_PLANNER/internal/dto"
	"GO2GETHER_PLANNER/internal/planner"
	"GO2GETHER_PLANNER/internal/utils"
)

// NotificationsHandler: HTTP endpoints (list/mark read/mark all read)
type NotificationsHandler struct {
	planner *planner.Planner
	logger  *slog.Logger
}

func NewNotificationsHandler(p *planner.Planner, logger *slog.Logger) *NotificationsHandler {
	return &NotificationsHandler{planner: p, logger: logger}
}

// ListNotifications handles GET /api/notifications
// @Summary List notifications
// @Description List user notifications with filters and pagination.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unread_only query bool false "true|false (default false)"
// @Param type query string false "filter by type"
// @Param limit query int false "default 20 (max 100)"
// @Param offset query int false "default 0"
// @Success 200 {object} dto.NotificationListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/notifications [get]
func (h *NotificationsHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	q := r.URL.Query()
	query := planner.NotificationQuery{
		UnreadOnly: strings.EqualFold(q.Get("unread_only"), "true"),
		Type:       q.Get("type"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid limit", "limit must be a positive integer")
			return
		}
		query.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid offset", "offset must be a non-negative integer")
			return
		}
		query.Offset = n
	}

	page, query, err := h.planner.Notifications(ctx, s, query)
	if err != nil {
		writePlannerError(w, r, h.logger, err)
		return
	}

	items := make([]dto.NotificationItem, 0, len(page.Items))
	for _, n := range page.Items {
		items = append(items, dto.NotificationItem{
			ID:        n.ID.String(),
			Type:      string(n.Type),
			Title:     n.Title,
			Message:   n.Message,
			Data:      n.Data,
			ActionURL: n.ActionURL,
			Read:      n.Read,
			CreatedAt: utils.FormatTimestamp(n.CreatedAt),
		})
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.NotificationListResponse{
		Notifications: items,
		Pagination: dto.NotificationListPagination{
			Total:       page.Total,
			UnreadCount: page.Unread,
			Limit:       query.Limit,
			Offset:      query.Offset,
		},
	})
}

// MarkRead handles POST /api/notifications/{id}/read
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/notifications/{id}/read [post]
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	nID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// only the recipient can mark it; someone else's id is simply not found
	if err := h.planner.MarkNotificationRead(ctx, s, nID); err != nil {
		writePlannerError(w, r, h.logger, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "Notification marked as read"})
}

// MarkAllRead handles POST /api/notifications/read-all
// @Summary Mark all notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MarkAllReadResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/notifications/read-all [post]
func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.planner.MarkAllNotificationsRead(ctx, s)
	if err != nil {
		writePlannerError(w, r, h.logger, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.MarkAllReadResponse{
		Message:      "All notifications marked as read",
		UpdatedCount: updated,
	})
}
