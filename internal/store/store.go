// Package store persists trips, travelers, surveys, itineraries and
// notifications.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"GO2GETHER_PLANNER/internal/models"
)

var (
	ErrNotFound  = errors.New("store: not found")
	ErrConflict  = errors.New("store: version conflict")
	ErrDuplicate = errors.New("store: already exists")
)

// TripStore holds trips and their member rows.
type TripStore interface {
	// CreateTrip inserts the trip and its initial members atomically.
	CreateTrip(ctx context.Context, trip *models.Trip) error
	// GetTrip returns the trip with members in invitation order.
	GetTrip(ctx context.Context, tripID uuid.UUID) (*models.Trip, error)
	// ListTripsForUser returns trips the user has accepted, newest first.
	ListTripsForUser(ctx context.Context, userID uuid.UUID) ([]models.Trip, error)
	// DeleteTrip removes the trip with its members, surveys and any
	// itinerary kept in the same backend.
	DeleteTrip(ctx context.Context, tripID uuid.UUID) error
	AddMember(ctx context.Context, tripID uuid.UUID, member models.TripMember) error
	UpdateMemberStatus(ctx context.Context, tripID, userID uuid.UUID, status string, joinedAt *time.Time) error
	RemoveMember(ctx context.Context, tripID, userID uuid.UUID) error
}

// SurveyStore keeps at most one response per (trip, traveler).
type SurveyStore interface {
	// PutSurvey inserts or overwrites. An overwrite keeps the original
	// SubmittedAt so the response keeps its collection position.
	PutSurvey(ctx context.Context, resp *models.SurveyResponse) error
	// ListSurveys returns responses ordered by first submission, then user id.
	ListSurveys(ctx context.Context, tripID uuid.UUID) ([]models.SurveyResponse, error)
	DeleteSurvey(ctx context.Context, tripID, userID uuid.UUID) error
}

// ItineraryStore persists one itinerary per trip with a version that is
// checked and incremented on every write. Clearing keeps a tombstone so the
// version never goes back while the trip exists.
type ItineraryStore interface {
	// GetItinerary returns ErrNotFound when the trip has no itinerary or it
	// was cleared.
	GetItinerary(ctx context.Context, tripID uuid.UUID) (*models.Itinerary, error)
	// ItineraryVersion returns the current version including a cleared
	// itinerary's tombstone, 0 when nothing was ever stored.
	ItineraryVersion(ctx context.Context, tripID uuid.UUID) (int64, error)
	// SaveItinerary writes it when the stored version equals expectedVersion,
	// or when expectedVersion is 0 and no itinerary is visible (never stored
	// or cleared). it.Version is set to the stored version plus one. A
	// mismatch returns ErrConflict.
	SaveItinerary(ctx context.Context, it *models.Itinerary, expectedVersion int64) error
	// ClearItinerary replaces the itinerary with a tombstone one version
	// higher and returns that version. Clearing an absent itinerary changes
	// nothing and returns the current version.
	ClearItinerary(ctx context.Context, tripID uuid.UUID) (int64, error)
	// DeleteItinerary drops the itinerary and its tombstone. It is only used
	// when the trip itself goes away and is a no-op when nothing is stored.
	DeleteItinerary(ctx context.Context, tripID uuid.UUID) error
}

// NotificationFilter narrows ListNotifications.
type NotificationFilter struct {
	UnreadOnly bool
	Type       string
	Limit      int
	Offset     int
}

// NotificationPage is one page of notifications plus counters.
type NotificationPage struct {
	Items  []models.Notification
	Total  int
	Unread int
}

// NotificationStore is the per-user inbox.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID uuid.UUID, f NotificationFilter) (*NotificationPage, error)
	// MarkRead returns ErrNotFound when the notification is not the user's
	// or is already read.
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Store is the full relational backend.
type Store interface {
	TripStore
	SurveyStore
	ItineraryStore
	NotificationStore
	Ping(ctx context.Context) error
}
