// Package planner orchestrates the group itinerary workflow: trips and
// invitations, survey collection, readiness, generation and the owner-only
// itinerary mutations.
package planner

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"GO2GETHER_PLANNER/internal/catalog"
	"GO2GETHER_PLANNER/internal/generator"
	"GO2GETHER_PLANNER/internal/locks"
	"GO2GETHER_PLANNER/internal/models"
	"GO2GETHER_PLANNER/internal/prompt"
	"GO2GETHER_PLANNER/internal/realtime"
	"GO2GETHER_PLANNER/internal/store"
)

const defaultLockTTL = 2 * time.Minute

// Deps are the collaborators of a Planner. Only Store is required.
type Deps struct {
	Store     store.Store
	Generator generator.Client
	Locker    locks.Locker
	// Hub feeds Observe. Publisher defaults to the Hub itself; set it to a
	// Redis broker to fan out across instances.
	Hub       *realtime.Hub
	Publisher realtime.Publisher
	Catalog   *catalog.Catalog
	Logger    *slog.Logger
}

// Options tune the workflow.
type Options struct {
	PromptMaxBytes   int
	StructuredOutput bool
	LockTTL          time.Duration
	// PublicBaseURL is used to build share links printed on PDF exports.
	PublicBaseURL string
}

// Planner is safe for concurrent use by many sessions.
type Planner struct {
	store     store.Store
	generator generator.Client
	locks     locks.Locker
	hub       *realtime.Hub
	publisher realtime.Publisher
	catalog   *catalog.Catalog
	notifier  *Notifier
	logger    *slog.Logger
	opts      Options
	tracer    trace.Tracer
	metrics   instruments
	now       func() time.Time
}

// New wires a Planner, filling in in-process defaults for anything missing.
func New(deps Deps, opts Options) *Planner {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "planner")

	if deps.Generator == nil {
		deps.Generator = generator.Unconfigured()
	}
	if deps.Locker == nil {
		deps.Locker = locks.NewMemory()
	}
	if deps.Hub == nil {
		deps.Hub = realtime.NewHub(realtime.WithLogger(logger))
	}
	if deps.Publisher == nil {
		deps.Publisher = deps.Hub
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.Default()
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = defaultLockTTL
	}
	if opts.PromptMaxBytes <= 0 {
		opts.PromptMaxBytes = prompt.DefaultMaxBytes
	}
	opts.PublicBaseURL = strings.TrimRight(opts.PublicBaseURL, "/")

	return &Planner{
		store:     deps.Store,
		generator: deps.Generator,
		locks:     deps.Locker,
		hub:       deps.Hub,
		publisher: deps.Publisher,
		catalog:   deps.Catalog,
		notifier:  NewNotifier(deps.Store, logger),
		logger:    logger,
		opts:      opts,
		tracer:    otel.Tracer("GO2GETHER_PLANNER/planner"),
		metrics:   newInstruments(logger),
		now:       time.Now,
	}
}

// Catalog returns the survey option catalog in use.
func (p *Planner) Catalog() *catalog.Catalog { return p.catalog }

// ShareURL is the public link to a trip's itinerary.
func (p *Planner) ShareURL(tripID uuid.UUID) string {
	if p.opts.PublicBaseURL == "" {
		return ""
	}
	return p.opts.PublicBaseURL + "/trips/" + tripID.String() + "/itinerary"
}

// loadTrip fetches the trip for any session that belongs to it: accepted
// travelers and pending invitees.
func (p *Planner) loadTrip(ctx context.Context, s Session, tripID uuid.UUID) (*models.Trip, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	trip, err := p.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, fromStore("load trip", err)
	}
	m, ok := trip.Member(s.UserID)
	if !ok || m.Status == models.MemberDeclined {
		return nil, unauthorized("not a member of this trip")
	}
	return trip, nil
}

// loadTripAsTraveler additionally requires an accepted membership.
func (p *Planner) loadTripAsTraveler(ctx context.Context, s Session, tripID uuid.UUID) (*models.Trip, error) {
	trip, err := p.loadTrip(ctx, s, tripID)
	if err != nil {
		return nil, err
	}
	if !trip.IsTraveler(s.UserID) {
		return nil, unauthorized("invitation has not been accepted")
	}
	return trip, nil
}

// loadTripAsOwner rejects everyone but the owner.
func (p *Planner) loadTripAsOwner(ctx context.Context, s Session, tripID uuid.UUID) (*models.Trip, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	trip, err := p.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, fromStore("load trip", err)
	}
	if !trip.IsOwner(s.UserID) {
		return nil, unauthorized("only the trip owner can do this")
	}
	return trip, nil
}

func (p *Planner) publish(ctx context.Context, u realtime.Update) {
	if err := p.publisher.Publish(context.WithoutCancel(ctx), u); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish itinerary update", "trip_id", u.TripID, "error", err)
	}
}

// currentVersion returns the stored itinerary version, counting a cleared
// itinerary, 0 when none was ever stored.
func (p *Planner) currentVersion(ctx context.Context, tripID uuid.UUID) (int64, error) {
	v, err := p.store.ItineraryVersion(ctx, tripID)
	if err != nil {
		return 0, fromStore("load itinerary version", err)
	}
	return v, nil
}
