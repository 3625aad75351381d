// Package realtime pushes itinerary changes to everyone observing a trip.
package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"GO2GETHER_PLANNER/internal/models"
)

const defaultSubscriberCapacity = 8

// Update is one observed state of a trip's itinerary. A nil Itinerary means
// the trip has no itinerary (never generated, cleared or trip deleted).
// Version is set on a cleared state so observers can order it.
type Update struct {
	TripID      uuid.UUID         `json:"trip_id"`
	Itinerary   *models.Itinerary `json:"itinerary"`
	Version     int64             `json:"version,omitempty"`
	TripDeleted bool              `json:"trip_deleted,omitempty"`
}

// Absent reports whether the update carries no itinerary.
func (u Update) Absent() bool { return u.Itinerary == nil }

// StateVersion is the itinerary version this update describes.
func (u Update) StateVersion() int64 {
	if u.Itinerary != nil {
		return u.Itinerary.Version
	}
	return u.Version
}

// Publisher announces a new itinerary state.
type Publisher interface {
	Publish(ctx context.Context, u Update) error
}

// Subscription is a live feed for one trip.
type Subscription struct {
	Updates <-chan Update
	cancel  func()
}

// Close stops delivery and closes Updates.
func (s Subscription) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Hub fans updates out to in-process subscribers. It is also the local
// Publisher when no broker is configured.
type Hub struct {
	mu       sync.RWMutex
	subs     map[uuid.UUID]map[*subscriber]struct{}
	capacity int
	logger   *slog.Logger
}

// HubOption customizes a Hub.
type HubOption func(*Hub)

// WithSubscriberCapacity overrides the per-subscriber buffer.
func WithSubscriberCapacity(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.capacity = n
		}
	}
}

// WithLogger sets the logger used for drop diagnostics.
func WithLogger(l *slog.Logger) HubOption {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		subs:     make(map[uuid.UUID]map[*subscriber]struct{}),
		capacity: defaultSubscriberCapacity,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers for updates of tripID.
func (h *Hub) Subscribe(tripID uuid.UUID) Subscription {
	sub := &subscriber{ch: make(chan Update, h.capacity)}
	h.mu.Lock()
	if h.subs[tripID] == nil {
		h.subs[tripID] = make(map[*subscriber]struct{})
	}
	h.subs[tripID][sub] = struct{}{}
	h.mu.Unlock()

	return Subscription{
		Updates: sub.ch,
		cancel:  func() { h.remove(tripID, sub) },
	}
}

// Publish delivers u to local subscribers.
func (h *Hub) Publish(_ context.Context, u Update) error {
	h.Deliver(u)
	return nil
}

// Deliver hands u to every subscriber of its trip. A full subscriber loses
// its oldest pending update so the newest state always arrives.
func (h *Hub) Deliver(u Update) {
	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.subs[u.TripID]))
	for s := range h.subs[u.TripID] {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	for _, s := range subs {
		if s.deliver(u) {
			h.logger.Debug("dropped stale itinerary update", "trip_id", u.TripID)
		}
	}
}

// Subscribers returns how many observers tripID has.
func (h *Hub) Subscribers(tripID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[tripID])
}

func (h *Hub) remove(tripID uuid.UUID, sub *subscriber) {
	h.mu.Lock()
	if subs := h.subs[tripID]; subs != nil {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subs, tripID)
		}
	}
	h.mu.Unlock()
	sub.close()
}

type subscriber struct {
	mu     sync.Mutex
	ch     chan Update
	closed bool
}

// deliver reports whether an older update was dropped to make room.
func (s *subscriber) deliver(u Update) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- u:
		return false
	default:
	}
	select {
	case <-s.ch:
	default:
	}
	s.ch <- u
	return true
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
