package store

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"GO2GETHER_PLANNER/internal/models"
)

type surveyKey struct {
	trip, user uuid.UUID
}

// Memory is an in-process Store for development and tests. Values are
// copied on the way in and out.
type Memory struct {
	mu            sync.RWMutex
	trips         map[uuid.UUID]*models.Trip
	surveys       map[surveyKey]*models.SurveyResponse
	itineraries   map[uuid.UUID]*models.Itinerary
	cleared       map[uuid.UUID]int64
	notifications []models.Notification
	now           func() time.Time
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		trips:       make(map[uuid.UUID]*models.Trip),
		surveys:     make(map[surveyKey]*models.SurveyResponse),
		itineraries: make(map[uuid.UUID]*models.Itinerary),
		cleared:     make(map[uuid.UUID]int64),
		now:         time.Now,
	}
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) CreateTrip(_ context.Context, trip *models.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[trip.ID]; ok {
		return ErrDuplicate
	}
	m.trips[trip.ID] = copyTrip(trip)
	return nil
}

func (m *Memory) GetTrip(_ context.Context, tripID uuid.UUID) (*models.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.trips[tripID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyTrip(t), nil
}

func (m *Memory) ListTripsForUser(_ context.Context, userID uuid.UUID) ([]models.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Trip, 0)
	for _, t := range m.trips {
		if t.IsTraveler(userID) {
			out = append(out, *copyTrip(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) DeleteTrip(_ context.Context, tripID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[tripID]; !ok {
		return ErrNotFound
	}
	delete(m.trips, tripID)
	delete(m.itineraries, tripID)
	delete(m.cleared, tripID)
	for k := range m.surveys {
		if k.trip == tripID {
			delete(m.surveys, k)
		}
	}
	return nil
}

func (m *Memory) AddMember(_ context.Context, tripID uuid.UUID, member models.TripMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[tripID]
	if !ok {
		return ErrNotFound
	}
	if _, exists := t.Member(member.UserID); exists {
		return ErrDuplicate
	}
	t.Members = append(t.Members, member)
	t.UpdatedAt = m.now()
	return nil
}

func (m *Memory) UpdateMemberStatus(_ context.Context, tripID, userID uuid.UUID, status string, joinedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[tripID]
	if !ok {
		return ErrNotFound
	}
	for i := range t.Members {
		if t.Members[i].UserID == userID {
			t.Members[i].Status = status
			t.Members[i].JoinedAt = copyTime(joinedAt)
			t.UpdatedAt = m.now()
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) RemoveMember(_ context.Context, tripID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[tripID]
	if !ok {
		return ErrNotFound
	}
	for i := range t.Members {
		if t.Members[i].UserID == userID {
			t.Members = append(t.Members[:i], t.Members[i+1:]...)
			t.UpdatedAt = m.now()
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) PutSurvey(_ context.Context, resp *models.SurveyResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[resp.TripID]; !ok {
		return ErrNotFound
	}
	key := surveyKey{resp.TripID, resp.UserID}
	c := copySurvey(resp)
	if prev, ok := m.surveys[key]; ok {
		c.SubmittedAt = prev.SubmittedAt
		resp.SubmittedAt = prev.SubmittedAt
	}
	m.surveys[key] = c
	return nil
}

func (m *Memory) ListSurveys(_ context.Context, tripID uuid.UUID) ([]models.SurveyResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.SurveyResponse, 0)
	for k, s := range m.surveys {
		if k.trip == tripID {
			out = append(out, *copySurvey(s))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].UserID.String() < out[j].UserID.String()
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out, nil
}

func (m *Memory) DeleteSurvey(_ context.Context, tripID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.surveys, surveyKey{tripID, userID})
	return nil
}

func (m *Memory) GetItinerary(_ context.Context, tripID uuid.UUID) (*models.Itinerary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.itineraries[tripID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyItinerary(it), nil
}

func (m *Memory) ItineraryVersion(_ context.Context, tripID uuid.UUID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.versionLocked(tripID), nil
}

func (m *Memory) versionLocked(tripID uuid.UUID) int64 {
	if it, ok := m.itineraries[tripID]; ok {
		return it.Version
	}
	return m.cleared[tripID]
}

func (m *Memory) SaveItinerary(_ context.Context, it *models.Itinerary, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current := m.versionLocked(it.TripID)
	_, visible := m.itineraries[it.TripID]
	if current != expectedVersion && (expectedVersion != 0 || visible) {
		return ErrConflict
	}
	it.Version = current + 1
	m.itineraries[it.TripID] = copyItinerary(it)
	delete(m.cleared, it.TripID)
	return nil
}

func (m *Memory) ClearItinerary(_ context.Context, tripID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.itineraries[tripID]
	if !ok {
		return m.cleared[tripID], nil
	}
	delete(m.itineraries, tripID)
	m.cleared[tripID] = it.Version + 1
	return it.Version + 1, nil
}

func (m *Memory) DeleteItinerary(_ context.Context, tripID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.itineraries, tripID)
	delete(m.cleared, tripID)
	return nil
}

func (m *Memory) CreateNotification(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = m.now()
	}
	m.notifications = append(m.notifications, *n)
	return nil
}

func (m *Memory) ListNotifications(_ context.Context, userID uuid.UUID, f NotificationFilter) (*NotificationPage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	page := &NotificationPage{Items: make([]models.Notification, 0)}
	var matched []models.Notification
	// newest first
	for i := len(m.notifications) - 1; i >= 0; i-- {
		n := m.notifications[i]
		if n.UserID != userID {
			continue
		}
		if !n.Read {
			page.Unread++
		}
		if f.UnreadOnly && n.Read {
			continue
		}
		if f.Type != "" && string(n.Type) != f.Type {
			continue
		}
		matched = append(matched, n)
	}
	page.Total = len(matched)
	if f.Offset < len(matched) {
		end := len(matched)
		if f.Limit > 0 && f.Offset+f.Limit < end {
			end = f.Offset + f.Limit
		}
		page.Items = append(page.Items, matched[f.Offset:end]...)
	}
	return page, nil
}

func (m *Memory) MarkRead(_ context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		n := &m.notifications[i]
		if n.ID == id && n.UserID == userID && !n.Read {
			n.Read = true
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.notifications {
		if m.notifications[i].UserID == userID && !m.notifications[i].Read {
			m.notifications[i].Read = true
			n++
		}
	}
	return n, nil
}

func copyTrip(t *models.Trip) *models.Trip {
	c := *t
	c.Members = slices.Clone(t.Members)
	for i := range c.Members {
		c.Members[i].JoinedAt = copyTime(c.Members[i].JoinedAt)
	}
	return &c
}

func copySurvey(s *models.SurveyResponse) *models.SurveyResponse {
	c := *s
	c.Experiences = slices.Clone(s.Experiences)
	c.Cuisines = slices.Clone(s.Cuisines)
	c.FoodExperiences = slices.Clone(s.FoodExperiences)
	c.Blocked = slices.Clone(s.Blocked)
	if s.PreferredStart != nil {
		c.PreferredStart = s.PreferredStart.Ptr()
	}
	if s.PreferredEnd != nil {
		c.PreferredEnd = s.PreferredEnd.Ptr()
	}
	return &c
}

func copyItinerary(it *models.Itinerary) *models.Itinerary {
	c := *it
	c.Document.Runs = slices.Clone(it.Document.Runs)
	return &c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
