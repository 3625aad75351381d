package models

import (
	"time"

	"github.com/google/uuid"
)

// Member roles
const (
	RoleCreator = "creator"
	RoleMember  = "member"
)

// Member statuses
const (
	MemberPending  = "pending"
	MemberAccepted = "accepted"
	MemberDeclined = "declined"
)

// Trip represents a group journey created by its owner
type Trip struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	Destination string       `json:"destination" db:"destination"`
	StartDate   time.Time    `json:"start_date" db:"start_date"`
	EndDate     time.Time    `json:"end_date" db:"end_date"`
	OwnerID     uuid.UUID    `json:"owner_id" db:"owner_id"`
	Members     []TripMember `json:"members" db:"-"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// TripMember is one row of trip_members. Only accepted members are travelers.
type TripMember struct {
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Role      string     `json:"role" db:"role"`
	Status    string     `json:"status" db:"status"`
	InvitedAt time.Time  `json:"invited_at" db:"invited_at"`
	JoinedAt  *time.Time `json:"joined_at,omitempty" db:"joined_at"`
}

// Travelers returns the ids of accepted members in member order.
func (t *Trip) Travelers() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(t.Members))
	for _, m := range t.Members {
		if m.Status == MemberAccepted {
			out = append(out, m.UserID)
		}
	}
	return out
}

// IsTraveler reports whether userID is an accepted member.
func (t *Trip) IsTraveler(userID uuid.UUID) bool {
	for _, m := range t.Members {
		if m.UserID == userID && m.Status == MemberAccepted {
			return true
		}
	}
	return false
}

// Member returns the membership row for userID, if any.
func (t *Trip) Member(userID uuid.UUID) (TripMember, bool) {
	for _, m := range t.Members {
		if m.UserID == userID {
			return m, true
		}
	}
	return TripMember{}, false
}

// IsOwner reports whether userID owns the trip.
func (t *Trip) IsOwner(userID uuid.UUID) bool {
	return userID != uuid.Nil && userID == t.OwnerID
}
