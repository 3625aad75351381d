package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType enumerates what a notification is about
type NotificationType string

const (
	NotifyTripInvitation     NotificationType = "trip_invitation"
	NotifyInvitationAccepted NotificationType = "invitation_accepted"
	NotifyInvitationDeclined NotificationType = "invitation_declined"
	NotifySurveySubmitted    NotificationType = "survey_submitted"
	NotifyItineraryReady     NotificationType = "itinerary_ready"
	NotifyItineraryCleared   NotificationType = "itinerary_cleared"
	NotifyTripDeleted        NotificationType = "trip_deleted"
)

// ValidNotificationType reports whether t is a known type.
func ValidNotificationType(t string) bool {
	switch NotificationType(t) {
	case NotifyTripInvitation, NotifyInvitationAccepted, NotifyInvitationDeclined,
		NotifySurveySubmitted, NotifyItineraryReady, NotifyItineraryCleared, NotifyTripDeleted:
		return true
	}
	return false
}

// Notification is an in-app message for one user
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   *string          `json:"message,omitempty"`
	Data      map[string]any   `json:"data,omitempty"`
	ActionURL *string          `json:"action_url,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
