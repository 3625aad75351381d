package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"GO2GETHER_PLANNER/internal/models"
	"GO2GETHER_PLANNER/internal/realtime"
	"GO2GETHER_PLANNER/internal/store"
)

const maxTripNameLen = 200

// TripInput is the owner-supplied part of a new trip.
type TripInput struct {
	Name        string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
}

// Permissions tell a client which controls to enable for the session.
type Permissions struct {
	CanGenerate bool `json:"can_generate"`
	CanDelete   bool `json:"can_delete"`
	CanInvite   bool `json:"can_invite"`
}

// TripView is a trip as seen by one member.
type TripView struct {
	Trip        *models.Trip
	Permissions Permissions
	Readiness   Readiness
}

// CreateTrip makes the session user the owner and first traveler.
func (p *Planner) CreateTrip(ctx context.Context, s Session, in TripInput) (*models.Trip, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Destination = strings.TrimSpace(in.Destination)
	switch {
	case in.Name == "" || in.Destination == "":
		return nil, invalid("name and destination are required")
	case len(in.Name) > maxTripNameLen:
		return nil, invalid("name exceeds %d characters", maxTripNameLen)
	case in.StartDate.IsZero() || in.EndDate.IsZero():
		return nil, invalid("start_date and end_date are required")
	case in.EndDate.Before(in.StartDate):
		return nil, invalid("end_date cannot be before start_date")
	}

	now := p.now().UTC()
	trip := &models.Trip{
		ID:          uuid.New(),
		Name:        in.Name,
		Destination: in.Destination,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		OwnerID:     s.UserID,
		Members: []models.TripMember{{
			UserID:    s.UserID,
			Role:      models.RoleCreator,
			Status:    models.MemberAccepted,
			InvitedAt: now,
			JoinedAt:  &now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.store.CreateTrip(ctx, trip); err != nil {
		return nil, fromStore("create trip", err)
	}
	p.logger.InfoContext(ctx, "trip created", "trip_id", trip.ID, "user_id", s.UserID)
	return trip, nil
}

// ListTrips returns the trips the session user travels on, newest first.
func (p *Planner) ListTrips(ctx context.Context, s Session) ([]models.Trip, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	trips, err := p.store.ListTripsForUser(ctx, s.UserID)
	if err != nil {
		return nil, fromStore("list trips", err)
	}
	return trips, nil
}

// GetTrip is visible to travelers and pending invitees.
func (p *Planner) GetTrip(ctx context.Context, s Session, tripID uuid.UUID) (*TripView, error) {
	trip, err := p.loadTrip(ctx, s, tripID)
	if err != nil {
		return nil, err
	}
	rd, _, err := p.readiness(ctx, s, trip)
	if err != nil {
		return nil, err
	}
	owner := trip.IsOwner(s.UserID)
	return &TripView{
		Trip: trip,
		Permissions: Permissions{
			CanGenerate: rd.CanGenerate,
			CanDelete:   owner,
			CanInvite:   owner,
		},
		Readiness: rd,
	}, nil
}

// DeleteTrip removes the trip and everything under it. Observers receive an
// absent update and the other travelers are notified.
func (p *Planner) DeleteTrip(ctx context.Context, s Session, tripID uuid.UUID) error {
	trip, err := p.loadTripAsOwner(ctx, s, tripID)
	if err != nil {
		return err
	}

	if err := p.store.DeleteTrip(ctx, tripID); err != nil {
		return fromStore("delete trip", err)
	}
	p.logger.InfoContext(ctx, "trip deleted", "trip_id", tripID, "user_id", s.UserID)
	// the itinerary may live in another backend than the trip
	if err := p.store.DeleteItinerary(ctx, tripID); err != nil {
		p.logger.ErrorContext(ctx, "orphaned itinerary", "trip_id", tripID, "error", err)
	}

	p.publish(ctx, realtime.Update{TripID: tripID, TripDeleted: true})
	recipients := make([]uuid.UUID, 0, len(trip.Members))
	for _, m := range trip.Members {
		recipients = append(recipients, m.UserID)
	}
	p.notifier.notifyAll(ctx, recipients, s.UserID, models.NotifyTripDeleted,
		"Trip deleted", fmt.Sprintf("%s was deleted by its owner.", trip.Name),
		map[string]any{"trip_id": tripID.String()})
	return nil
}

// Invite adds userID as a pending member. Owner only.
func (p *Planner) Invite(ctx context.Context, s Session, tripID, userID uuid.UUID) error {
	trip, err := p.loadTripAsOwner(ctx, s, tripID)
	if err != nil {
		return err
	}
	if userID == uuid.Nil {
		return invalid("user_id is required")
	}

	member := models.TripMember{
		UserID:    userID,
		Role:      models.RoleMember,
		Status:    models.MemberPending,
		InvitedAt: p.now().UTC(),
	}
	if existing, ok := trip.Member(userID); ok {
		if existing.Status != models.MemberDeclined {
			return fmt.Errorf("%w: user is already invited", ErrConflict)
		}
		// a declined row is only left behind by older data; re-invite
		if err := p.store.UpdateMemberStatus(ctx, tripID, userID, models.MemberPending, nil); err != nil {
			return fromStore("re-invite", err)
		}
	} else if err := p.store.AddMember(ctx, tripID, member); err != nil {
		return fromStore("invite", err)
	}

	msg := fmt.Sprintf("You were invited to %s in %s.", trip.Name, trip.Destination)
	if err := p.notifier.Create(context.WithoutCancel(ctx), userID, models.NotifyTripInvitation,
		"Trip invitation", &msg, map[string]any{"trip_id": tripID.String()}, nil); err != nil {
		p.logger.ErrorContext(ctx, "failed to create notification", "user_id", userID, "error", err)
	}
	return nil
}

// Accept joins the session user to the traveler set. The trip becomes
// waiting again until the new traveler submits a survey.
func (p *Planner) Accept(ctx context.Context, s Session, tripID uuid.UUID) error {
	trip, err := p.loadTrip(ctx, s, tripID)
	if err != nil {
		return err
	}
	m, _ := trip.Member(s.UserID)
	if m.Status == models.MemberAccepted {
		return nil
	}
	now := p.now().UTC()
	if err := p.store.UpdateMemberStatus(ctx, tripID, s.UserID, models.MemberAccepted, &now); err != nil {
		return fromStore("accept invitation", err)
	}
	p.notifier.notifyAll(ctx, []uuid.UUID{trip.OwnerID}, s.UserID, models.NotifyInvitationAccepted,
		"Invitation accepted", fmt.Sprintf("A traveler joined %s.", trip.Name),
		map[string]any{"trip_id": tripID.String(), "user_id": s.UserID.String()})
	return nil
}

// Decline removes the session user from the trip, together with any survey
// they submitted. The owner cannot decline their own trip.
func (p *Planner) Decline(ctx context.Context, s Session, tripID uuid.UUID) error {
	trip, err := p.loadTrip(ctx, s, tripID)
	if err != nil {
		return err
	}
	if trip.IsOwner(s.UserID) {
		return invalid("the owner cannot leave their own trip")
	}
	if err := p.store.RemoveMember(ctx, tripID, s.UserID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fromStore("decline invitation", err)
	}
	if err := p.store.DeleteSurvey(ctx, tripID, s.UserID); err != nil {
		return fromStore("delete survey", err)
	}
	p.notifier.notifyAll(ctx, []uuid.UUID{trip.OwnerID}, s.UserID, models.NotifyInvitationDeclined,
		"Invitation declined", fmt.Sprintf("A traveler left %s.", trip.Name),
		map[string]any{"trip_id": tripID.String(), "user_id": s.UserID.String()})
	return nil
}
