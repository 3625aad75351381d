package planner

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"GO2GETHER_PLANNER/internal/generator"
	"GO2GETHER_PLANNER/internal/itinerary"
	"GO2GETHER_PLANNER/internal/locks"
	"GO2GETHER_PLANNER/internal/models"
	"GO2GETHER_PLANNER/internal/preferences"
	"GO2GETHER_PLANNER/internal/prompt"
	"GO2GETHER_PLANNER/internal/realtime"
	"GO2GETHER_PLANNER/internal/store"
)

// Readiness states
const (
	StateReady   = "ready"
	StateWaiting = "waiting"
)

// Readiness reports whether every current traveler has answered the survey
// and which owner controls are enabled for the session.
type Readiness struct {
	State          string      `json:"state"`
	Expected       int         `json:"expected"`
	Submitted      int         `json:"submitted"`
	Missing        []uuid.UUID `json:"missing"`
	HasDailyWindow bool        `json:"has_daily_window"`
	CanGenerate    bool        `json:"can_generate"`
	CanSave        bool        `json:"can_save"`
	CanClear       bool        `json:"can_clear"`
}

// Ready reports State == StateReady.
func (r Readiness) Ready() bool { return r.State == StateReady }

// readiness counts only responses of the current traveler set. It returns
// those responses in collection order.
func (p *Planner) readiness(ctx context.Context, s Session, trip *models.Trip) (Readiness, []models.SurveyResponse, error) {
	all, err := p.store.ListSurveys(ctx, trip.ID)
	if err != nil {
		return Readiness{}, nil, fromStore("list surveys", err)
	}

	travelers := trip.Travelers()
	current := make(map[uuid.UUID]bool, len(travelers))
	for _, id := range travelers {
		current[id] = true
	}
	responses := make([]models.SurveyResponse, 0, len(all))
	answered := make(map[uuid.UUID]bool, len(all))
	for _, r := range all {
		if current[r.UserID] {
			responses = append(responses, r)
			answered[r.UserID] = true
		}
	}

	rd := Readiness{
		State:     StateWaiting,
		Expected:  len(travelers),
		Submitted: len(responses),
		Missing:   make([]uuid.UUID, 0),
	}
	for _, id := range travelers {
		if !answered[id] {
			rd.Missing = append(rd.Missing, id)
		}
	}
	if rd.Expected > 0 && len(rd.Missing) == 0 {
		rd.State = StateReady
	}
	rd.HasDailyWindow = preferences.Aggregate(responses).HasDailyWindow()

	owner := trip.IsOwner(s.UserID)
	rd.CanGenerate = owner && rd.Ready() && rd.HasDailyWindow
	rd.CanSave = owner && rd.Ready()
	rd.CanClear = owner && rd.Ready()
	return rd, responses, nil
}

// Readiness is visible to every member.
func (p *Planner) Readiness(ctx context.Context, s Session, tripID uuid.UUID) (Readiness, error) {
	trip, err := p.loadTrip(ctx, s, tripID)
	if err != nil {
		return Readiness{}, err
	}
	rd, _, err := p.readiness(ctx, s, trip)
	return rd, err
}

// ownerReady loads the trip for an owner-only mutation and fails with a
// *WaitingError until every traveler has answered.
func (p *Planner) ownerReady(ctx context.Context, s Session, tripID uuid.UUID) (*models.Trip, Readiness, []models.SurveyResponse, error) {
	trip, err := p.loadTripAsOwner(ctx, s, tripID)
	if err != nil {
		return nil, Readiness{}, nil, err
	}
	rd, responses, err := p.readiness(ctx, s, trip)
	if err != nil {
		return nil, Readiness{}, nil, err
	}
	if !rd.Ready() {
		return nil, rd, nil, &WaitingError{Reason: ReasonWaitingOnTravelers, Readiness: rd}
	}
	return trip, rd, responses, nil
}

// Generate runs the full pipeline for tripID: aggregate, build the prompt,
// call the generator, format and persist. The previous itinerary is left
// untouched on any failure, including cancellation of ctx.
func (p *Planner) Generate(ctx context.Context, s Session, tripID uuid.UUID) (it *models.Itinerary, err error) {
	ctx, span := p.tracer.Start(ctx, "planner.Generate",
		trace.WithAttributes(attribute.String("trip.id", tripID.String())))
	outcome := outcomeFailed
	defer func() {
		p.metrics.generation(ctx, outcome)
		span.SetAttributes(attribute.String("outcome", outcome))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	trip, rd, responses, err := p.ownerReady(ctx, s, tripID)
	if err != nil {
		outcome = outcomeForError(err)
		return nil, err
	}

	agg := preferences.Aggregate(responses)
	if !agg.HasDailyWindow() {
		outcome = outcomeWaiting
		return nil, &WaitingError{Reason: ReasonMissingDailyWindow, Readiness: rd}
	}

	release, err := p.locks.Acquire(ctx, "itinerary:"+tripID.String(), p.opts.LockTTL)
	if errors.Is(err, locks.ErrLocked) {
		outcome = outcomeInProgress
		return nil, ErrGenerationInProgress
	}
	if err != nil {
		if ctx.Err() != nil {
			outcome = outcomeCancelled
			return nil, ctx.Err()
		}
		outcome = outcomePersistence
		return nil, fmt.Errorf("%w: acquire generation lock: %w", ErrPersistence, err)
	}
	defer release()

	version, err := p.currentVersion(ctx, tripID)
	if err != nil {
		outcome = outcomePersistence
		return nil, err
	}

	pr, err := prompt.Build(agg, prompt.TripInfo{
		Destination: trip.Destination,
		Start:       trip.StartDate,
		End:         trip.EndDate,
	}, prompt.Options{MaxBytes: p.opts.PromptMaxBytes, Structured: p.opts.StructuredOutput})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if pr.Truncated {
		p.metrics.truncations.Add(ctx, 1)
		p.logger.WarnContext(ctx, "prompt truncated to size cap",
			"trip_id", tripID, "omitted_blocked", pr.OmittedBlocked, "bytes", len(pr.Text))
	}
	span.SetAttributes(attribute.Int("prompt.days", pr.DayCount), attribute.Bool("prompt.truncated", pr.Truncated))

	raw, err := p.generator.Generate(ctx, generator.Request{
		System: prompt.SystemMessage,
		Prompt: pr.Text,
		JSON:   p.opts.StructuredOutput,
	})
	if ctx.Err() != nil {
		outcome = outcomeCancelled
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, ctx.Err())
	}
	if err != nil {
		p.logger.WarnContext(ctx, "itinerary generation failed", "trip_id", tripID, "user_id", s.UserID, "error", err)
		if !errors.Is(err, ErrGenerationFailed) {
			err = fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		}
		return nil, err
	}

	var doc models.Document
	if p.opts.StructuredOutput {
		var structured bool
		doc, structured = itinerary.ParseStructured(raw)
		if !structured {
			p.logger.WarnContext(ctx, "structured reply did not match schema, using text formatter", "trip_id", tripID)
		}
	} else {
		doc = itinerary.Format(raw)
	}
	if doc.Empty() {
		return nil, fmt.Errorf("%w: generator returned no itinerary text", ErrGenerationFailed)
	}

	it = &models.Itinerary{
		TripID:    tripID,
		OwnerID:   trip.OwnerID,
		Document:  doc,
		Truncated: pr.Truncated,
		UpdatedAt: p.now().UTC(),
	}
	if err := p.store.SaveItinerary(ctx, it, version); err != nil {
		err = fromStore("save itinerary", err)
		outcome = outcomeForError(err)
		return nil, err
	}
	outcome = outcomeSuccess
	p.logger.InfoContext(ctx, "itinerary generated",
		"trip_id", tripID, "user_id", s.UserID, "version", it.Version, "runs", len(doc.Runs))

	p.publish(ctx, realtime.Update{TripID: tripID, Itinerary: it})
	p.notifier.notifyAll(ctx, trip.Travelers(), s.UserID, models.NotifyItineraryReady,
		"Itinerary ready", fmt.Sprintf("The itinerary for %s is ready.", trip.Name),
		map[string]any{"trip_id": tripID.String(), "version": it.Version})
	return it, nil
}

func outcomeForError(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, ErrUnauthorized):
		return outcomeUnauthorized
	case errors.Is(err, ErrMissingPrerequisite):
		return outcomeWaiting
	case errors.Is(err, ErrConflict):
		return outcomeConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcomeCancelled
	case errors.Is(err, ErrPersistence):
		return outcomePersistence
	default:
		return outcomeFailed
	}
}

// Save replaces the itinerary with an owner-edited document. expectedVersion
// is the version the owner last saw, 0 when there was none.
func (p *Planner) Save(ctx context.Context, s Session, tripID uuid.UUID, doc models.Document, expectedVersion int64) (*models.Itinerary, error) {
	trip, _, _, err := p.ownerReady(ctx, s, tripID)
	if err != nil {
		return nil, err
	}
	if expectedVersion < 0 {
		return nil, invalid("version cannot be negative")
	}
	if err := itinerary.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	it := &models.Itinerary{
		TripID:    tripID,
		OwnerID:   trip.OwnerID,
		Document:  itinerary.Normalize(doc),
		UpdatedAt: p.now().UTC(),
	}
	if err := p.store.SaveItinerary(ctx, it, expectedVersion); err != nil {
		return nil, fromStore("save itinerary", err)
	}
	p.logger.InfoContext(ctx, "itinerary saved", "trip_id", tripID, "user_id", s.UserID, "version", it.Version)
	p.publish(ctx, realtime.Update{TripID: tripID, Itinerary: it})
	return it, nil
}

// Clear deletes the itinerary. Clearing an absent itinerary succeeds.
func (p *Planner) Clear(ctx context.Context, s Session, tripID uuid.UUID) error {
	trip, _, _, err := p.ownerReady(ctx, s, tripID)
	if err != nil {
		return err
	}
	version, err := p.store.ClearItinerary(ctx, tripID)
	if err != nil {
		return fromStore("clear itinerary", err)
	}
	p.logger.InfoContext(ctx, "itinerary cleared", "trip_id", tripID, "user_id", s.UserID, "version", version)
	p.publish(ctx, realtime.Update{TripID: tripID, Version: version})
	p.notifier.notifyAll(ctx, trip.Travelers(), s.UserID, models.NotifyItineraryCleared,
		"Itinerary cleared", fmt.Sprintf("The itinerary for %s was cleared.", trip.Name),
		map[string]any{"trip_id": tripID.String()})
	return nil
}

// Get returns the stored itinerary, or nil when there is none yet.
func (p *Planner) Get(ctx context.Context, s Session, tripID uuid.UUID) (*models.Itinerary, error) {
	if _, err := p.loadTrip(ctx, s, tripID); err != nil {
		return nil, err
	}
	it, err := p.store.GetItinerary(ctx, tripID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fromStore("load itinerary", err)
	}
	return it, nil
}

// Observe streams the current itinerary state followed by every change
// until ctx is done. Updates older than one already delivered are skipped.
// The channel is closed when ctx ends or the trip is deleted.
func (p *Planner) Observe(ctx context.Context, s Session, tripID uuid.UUID) (<-chan realtime.Update, error) {
	if _, err := p.loadTrip(ctx, s, tripID); err != nil {
		return nil, err
	}
	// subscribe before the snapshot so no change falls in between
	sub := p.hub.Subscribe(tripID)
	floor, err := p.currentVersion(ctx, tripID)
	if err != nil {
		sub.Close()
		return nil, err
	}
	current, err := p.store.GetItinerary(ctx, tripID)
	if errors.Is(err, store.ErrNotFound) {
		current, err = nil, nil
	}
	if err != nil {
		sub.Close()
		return nil, fromStore("load itinerary", err)
	}

	out := make(chan realtime.Update, 1)
	go func() {
		defer close(out)
		defer sub.Close()

		lastVersion := floor
		send := func(u realtime.Update) bool {
			select {
			case out <- u:
				return true
			case <-ctx.Done():
				return false
			}
		}
		if current != nil {
			lastVersion = current.Version
		}
		snapshot := realtime.Update{TripID: tripID, Itinerary: current, Version: floor}
		if current != nil {
			snapshot.Version = 0
		}
		if !send(snapshot) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case u, ok := <-sub.Updates:
				if !ok {
					return
				}
				if !u.TripDeleted {
					if u.StateVersion() <= lastVersion {
						continue
					}
					lastVersion = u.StateVersion()
				}
				if !send(u) || u.TripDeleted {
					return
				}
			}
		}
	}()
	return out, nil
}

// ExportPDF writes the itinerary as a PDF with a QR code linking to the
// trip's share URL. It fails with ErrNotFound when nothing was generated.
func (p *Planner) ExportPDF(ctx context.Context, s Session, tripID uuid.UUID, w io.Writer) error {
	trip, err := p.loadTrip(ctx, s, tripID)
	if err != nil {
		return err
	}
	it, err := p.store.GetItinerary(ctx, tripID)
	if err != nil {
		return fromStore("load itinerary", err)
	}
	return itinerary.WritePDF(w, it.Document, itinerary.PDFOptions{
		Title: trip.Name,
		Subtitle: fmt.Sprintf("%s, %s to %s", trip.Destination,
			trip.StartDate.Format("Jan 2, 2006"), trip.EndDate.Format("Jan 2, 2006")),
		ShareURL: p.ShareURL(tripID),
	})
}
