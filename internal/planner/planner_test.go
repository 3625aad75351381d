package planner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GO2GETHER_PLANNER/internal/generator"
	"GO2GETHER_PLANNER/internal/models"
	"GO2GETHER_PLANNER/internal/realtime"
	"GO2GETHER_PLANNER/internal/store"
)

const generatedText = `**Day 1: Old Town**
- Breakfast at Cafe Lisboa
- Address: 1 Rua Augusta, Lisbon
- Visit the Castle
A relaxed first day.`

type fixture struct {
	p     *Planner
	store *store.Memory
	owner Session
	guest Session
	trip  *models.Trip
	calls atomic.Int32
}

func newFixture(t *testing.T, gen generator.Func) *fixture {
	t.Helper()
	f := &fixture{
		store: store.NewMemory(),
		owner: Session{UserID: uuid.New()},
		guest: Session{UserID: uuid.New()},
	}
	wrapped := generator.Func(func(ctx context.Context, req generator.Request) (string, error) {
		f.calls.Add(1)
		if gen == nil {
			return generatedText, nil
		}
		return gen(ctx, req)
	})
	f.p = New(Deps{
		Store:     f.store,
		Generator: wrapped,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, Options{PublicBaseURL: "https://go2gether.example/"})
	f.p.now = tickingClock()

	ctx := context.Background()
	trip, err := f.p.CreateTrip(ctx, f.owner, TripInput{
		Name:        "Lisbon long weekend",
		Destination: "Lisbon, Portugal",
		StartDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, f.p.Invite(ctx, f.owner, trip.ID, f.guest.UserID))
	require.NoError(t, f.p.Accept(ctx, f.guest, trip.ID))
	f.trip = trip
	return f
}

func ownerSurvey() SurveyInput {
	return SurveyInput{
		Experiences:     []string{"Museums", "Sightseeing"},
		Cuisines:        []string{"Mediterranean"},
		FoodExperiences: []string{"Local Markets"},
		PreferredStart:  models.MustTimeOfDay("09:00").Ptr(),
		PreferredEnd:    models.MustTimeOfDay("18:00").Ptr(),
		Blocked: []models.TimeRange{{
			Start: time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 3, 2, 14, 0, 0, 0, time.UTC),
		}},
	}
}

func guestSurvey() SurveyInput {
	return SurveyInput{
		Experiences: []string{"Museums", "Nightlife"},
		Cuisines:    []string{"Thai"},
	}
}

func (f *fixture) surveyAll(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := f.p.SubmitSurvey(ctx, f.owner, f.trip.ID, ownerSurvey())
	require.NoError(t, err)
	_, err = f.p.SubmitSurvey(ctx, f.guest, f.trip.ID, guestSurvey())
	require.NoError(t, err)
}

func sampleDoc(text string) models.Document {
	return models.Document{Version: 1, Runs: []models.Run{
		{Text: "Day 1", Style: models.StyleHeading},
		{Text: text, Style: models.StyleBullet},
	}}
}

func TestCreateTripOwnerIsTraveler(t *testing.T) {
	f := newFixture(t, nil)
	view, err := f.p.GetTrip(context.Background(), f.owner, f.trip.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.owner.UserID, f.guest.UserID}, view.Trip.Travelers())
	assert.True(t, view.Permissions.CanDelete)
	assert.True(t, view.Permissions.CanInvite)
	assert.False(t, view.Permissions.CanGenerate)

	guestView, err := f.p.GetTrip(context.Background(), f.guest, f.trip.ID)
	require.NoError(t, err)
	assert.False(t, guestView.Permissions.CanDelete)
}

func TestCreateTripValidation(t *testing.T) {
	p := New(Deps{Store: store.NewMemory()}, Options{})
	s := Session{UserID: uuid.New()}
	start := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)

	_, err := p.CreateTrip(context.Background(), s, TripInput{Name: " ", Destination: "Rome", StartDate: start, EndDate: start})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = p.CreateTrip(context.Background(), s, TripInput{Name: "x", Destination: "Rome", StartDate: start, EndDate: start.AddDate(0, 0, -1)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = p.CreateTrip(context.Background(), Session{}, TripInput{Name: "x", Destination: "Rome", StartDate: start, EndDate: start})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestWaitingOnTravelers(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.p.SubmitSurvey(ctx, f.owner, f.trip.ID, ownerSurvey())
	require.NoError(t, err)

	rd, err := f.p.Readiness(ctx, f.owner, f.trip.ID)
	require.NoError(t, err)
	assert.Equal(t, StateWaiting, rd.State)
	assert.Equal(t, 2, rd.Expected)
	assert.Equal(t, 1, rd.Submitted)
	assert.Equal(t, []uuid.UUID{f.guest.UserID}, rd.Missing)
	assert.False(t, rd.CanGenerate)
	assert.False(t, rd.CanSave)
	assert.False(t, rd.CanClear)

	_, err = f.p.Generate(ctx, f.owner, f.trip.ID)
	assert.ErrorIs(t, err, ErrMissingPrerequisite)
	var waiting *WaitingError
	require.True(t, errors.As(err, &waiting))
	assert.Equal(t, ReasonWaitingOnTravelers, waiting.Reason)
	assert.Equal(t, int32(0), f.calls.Load())

	_, err = f.p.Save(ctx, f.owner, f.trip.ID, sampleDoc("x"), 0)
	assert.ErrorIs(t, err, ErrMissingPrerequisite)
	assert.ErrorIs(t, f.p.Clear(ctx, f.owner, f.trip.ID), ErrMissingPrerequisite)
}

func TestReadyEnablesOwnerControlsOnly(t *testing.T) {
	f := newFixture(t, nil)
	f.surveyAll(t)

	rd, err := f.p.Readiness(context.Background(), f.owner, f.trip.ID)
	require.NoError(t, err)
	assert.True(t, rd.Ready())
	assert.True(t, rd.CanGenerate)
	assert.True(t, rd.CanSave)
	assert.True(t, rd.CanClear)

	rd, err = f.p.Readiness(context.Background(), f.guest, f.trip.ID)
	require.NoError(t, err)
	assert.True(t, rd.Ready())
	assert.False(t, rd.CanGenerate)
	assert.False(t, rd.CanSave)
}

func TestNewTravelerMakesTripWaitAgain(t *testing.T) {
	f := newFixture(t, nil)
	f.surveyAll(t)
	late := Session{UserID: uuid.New()}
	require.NoError(t, f.p.Invite(context.Background(), f.owner, f.trip.ID, late.UserID))

	// a pending invitee is not a traveler yet
	rd, err := f.p.Readiness(context.Background(), f.owner, f.trip.ID)
	require.NoError(t, err)
	assert.True(t, rd.Ready())

	require.NoError(t, f.p.Accept(context.Background(), late, f.trip.ID))
	rd, err = f.p.Readiness(context.Background(), f.owner, f.trip.ID)
	require.NoError(t, err)
	assert.Equal(t, StateWaiting, rd.State)
	assert.Equal(t, []uuid.UUID{late.UserID}, rd.Missing)
}

func TestMissingDailyWindowBlocksGeneration(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	noWindow := ownerSurvey()
	noWindow.PreferredEnd = nil
	_, err := f.p.SubmitSurvey(ctx, f.owner, f.trip.ID, noWindow)
	require.NoError(t, err)
	_, err = f.p.SubmitSurvey(ctx, f.guest, f.trip.ID, guestSurvey())
	require.NoError(t, err)

	_, err = f.p.Generate(ctx, f.owner, f.trip.ID)
	var waiting *WaitingError
	require.True(t, errors.As(err, &waiting))
	assert.Equal(t, ReasonMissingDailyWindow, waiting.Reason)
	assert.Equal(t, int32(0), f.calls.Load())
}

func TestGenerateStoresFormattedItinerary(t *testing.T) {
	var got generator.Request
	f := newFixture(t, func(_ context.Context, req generator.Request) (string, error) {
		got = req
		return generatedText, nil
	})
	f.surveyAll(t)

	it, err := f.p.Generate(context.Background(), f.owner, f.trip.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), it.Version)
	assert.Equal(t, f.owner.UserID, it.OwnerID)
	require.Len(t, it.Document.Runs, 5)
	assert.Equal(t, models.StyleHeading, it.Document.Runs[0].Style)
	assert.Equal(t, models.StyleAddress, it.Document.Runs[2].Style)
	assert.Equal(t, models.StyleNarrative, it.Document.Runs[4].Style)

	assert.Contains(t, got.Prompt, "3-day itinerary")
	assert.Contains(t, got.Prompt, "Lisbon, Portugal")
	assert.Contains(t, got.Prompt, "Museums")
	assert.False(t, got.JSON)

	stored, err := f.p.Get(context.Background(), f.guest, f.trip.ID)
	require.NoError(t, err)
	assert.Equal(t, it, stored)

	// the guest hears about it, the owner does not
	page, _, err := f.p.Notifications(context.Background(), f.guest, NotificationQuery{Type: string(models.NotifyItineraryReady)})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	page, _, err = f.p.Notifications(context.Background(), f.owner, NotificationQuery{Type: string(models.NotifyItineraryReady)})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)

	// regenerating bumps the version
	again, err := f.p.Generate(context.Background(), f.owner, f.trip.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), again.Version)
}

func TestGenerateStructuredOutput(t *testing.T) {
	f := newFixture(t, nil)
	f.p.opts.StructuredOutput = true
	f.p.generator = generator.Func(func(_ context.Context, req generator.Request) (string, error) {
		assert.True(t, req.JSON)
		return `{"days":[{"title":"Old Town","items":[{"kind":"breakfast","time":"9:00 AM","name":"Cafe Lisboa","address":"1 Rua Augusta"}]}]}`, nil
	})
	f.surveyAll(t)

	it, err := f.p.Generate(context.Background(), f.owner, f.trip.ID)
	require.NoError(t, err)
	require.NotEmpty(t, it.Document.Runs)
	assert.Equal(t, models.StyleHeading, it.Document.Runs[0].Style)
}

func TestNonOwnerCannotMutate(t *testing.T) {
	f := newFixture(t, nil)
	f.surveyAll(t)
	ctx := context.Background()

	_, err := f.p.Save(ctx, f.guest, f.trip.ID, sampleDoc("guest edit"), 0)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, f.p.Clear(ctx, f.guest, f.trip.ID), ErrUnauthorized)
	_, err = f.p.Generate(ctx, f.guest, f.trip.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, f.p.DeleteTrip(ctx, f.guest, f.trip.ID), ErrUnauthorized)
	assert.ErrorIs(t, f.p.Invite(ctx, f.guest, f.trip.ID, uuid.New()), ErrUnauthorized)

	assert.Equal(t, int32(0), f.calls.Load())
	_, err = f.store.GetItinerary(ctx, f.trip.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	stranger := Session{UserID: uuid.New()}
	_, err = f.p.Get(ctx, stranger, f.trip.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.p.Observe(ctx, stranger, f.trip.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGenerationFailureKeepsPreviousItinerary(t *testing.T) {
	f := newFixture(t, func(context.Context, generator.Request) (string, error) {
		return "", &generator.Error{Attempts: 3, Retryable: true, Err: errors.New("connection refused")}
	})
	f.surveyAll(t)
	ctx := context.Background()

	saved, err := f.p.Save(ctx, f.owner, f.trip.ID, sampleDoc("hand written"), 0)
	require.NoError(t, err)

	_, err = f.p.Generate(ctx, f.owner, f.trip.ID)
	assert.ErrorIs(t, err, ErrGenerationFailed)

	current, err := f.p.Get(ctx, f.owner, f.trip.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, current)
}

func TestPlainGeneratorErrorIsWrapped(t *testing.T) {
	f := newFixture(t, func(context.Context, generator.Request) (string, error) {
		return "", errors.New("boom")
	})
	f.surveyAll(t)
	_, err := f.p.Generate(context.Background(), f.owner, f.trip.ID)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestConcurrentGenerateIsRejected(t *testing.T) {
	entered := make(chan struct{})
	unblock := make(chan struct{})
	f := newFixture(t, func(ctx context.Context, _ generator.Request) (string, error) {
		close(entered)
		<-unblock
		return generatedText, nil
	})
	f.surveyAll(t)

	done := make(chan error, 1)
	go func() {
		_, err := f.p.Generate(context.Background(), f.owner, f.trip.ID)
		done <- err
	}()
	<-entered

	_, err := f.p.Generate(context.Background(), f.owner, f.trip.ID)
	assert.ErrorIs(t, err, ErrGenerationInProgress)

	close(unblock)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestClearAndSaveDuringGenerationKeepsOwnerEdit(t *testing.T) {
	entered := make(chan struct{})
	unblock := make(chan struct{})
	f := newFixture(t, func(ctx context.Context, _ generator.Request) (string, error) {
		close(entered)
		<-unblock
		return generatedText, nil
	})
	f.surveyAll(t)
	ctx := context.Background()

	first, err := f.p.Save(ctx, f.owner, f.trip.ID, sampleDoc("first draft"), 0)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := f.p.Generate(ctx, f.owner, f.trip.ID)
		done <- err
	}()
	<-entered

	require.NoError(t, f.p.Clear(ctx, f.owner, f.trip.ID))
	edit, err := f.p.Save(ctx, f.owner, f.trip.ID, sampleDoc("OWNER EDIT"), 0)
	require.NoError(t, err)
	assert.Greater(t, edit.Version, first.Version)

	close(unblock)
	assert.ErrorIs(t, <-done, ErrConflict)

	current, err := f.p.Get(ctx, f.owner, f.trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "OWNER EDIT", current.Document.Runs[1].Text)
	assert.Equal(t, edit.Version, current.Version)
}

func TestCancelledGenerationPersistsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := newFixture(t, func(ctx context.Context, _ generator.Request) (string, error) {
		cancel()
		<-ctx.Done()
		return generatedText, nil
	})
	f.surveyAll(t)

	_, err := f.p.Generate(ctx, f.owner, f.trip.ID)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrGenerationFailed)

	_, err = f.store.GetItinerary(context.Background(), f.trip.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// the lock was released
	_, err = f.p.Generate(context.Background(), f.owner, f.trip.ID)
	require.NoError(t, err)
}

func TestStaleSaveConflicts(t *testing.T) {
	f := newFixture(t, nil)
	f.surveyAll(t)
	ctx := context.Background()

	first, err := f.p.Save(ctx, f.owner, f.trip.ID, sampleDoc("v1"), 0)
	require.NoError(t, err)
	_, err = f.p.Save(ctx, f.owner, f.trip.ID, sampleDoc("v2"), first.Version)
	require.NoError(t, err)

	_, err = f.p.Save(ctx, f.owner, f.trip.ID, sampleDoc("stale"), first.Version)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.p.Save(ctx, f.owner, f.trip.ID, models.Document{Version: 1, Runs: []models.Run{{Style: models.StyleBullet}}}, 2)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSaveThenObserveRoundTrip(t *testing.T) {
	f := newFixture(t, nil)
	f.surveyAll(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := f.p.Observe(ctx, f.guest, f.trip.ID)
	require.NoError(t, err)
	initial := next(t, updates)
	assert.True(t, initial.Absent())

	saved, err := f.p.Save(ctx, f.owner, f.trip.ID, sampleDoc("Museum"), 0)
	require.NoError(t, err)
	got := next(t, updates)
	require.NotNil(t, got.Itinerary)
	assert.Equal(t, *saved, *got.Itinerary)

	require.NoError(t, f.p.Clear(ctx, f.owner, f.trip.ID))
	cleared := next(t, updates)
	assert.True(t, cleared.Absent())

	// a fresh observer starts from the stored snapshot
	_, err = f.p.Save(ctx, f.owner, f.trip.ID, sampleDoc("Castle"), 0)
	require.NoError(t, err)
	late, err := f.p.Observe(ctx, f.owner, f.trip.ID)
	require.NoError(t, err)
	snap := next(t, late)
	require.NotNil(t, snap.Itinerary)
	assert.Equal(t, "Castle", snap.Itinerary.Document.Runs[1].Text)

	cancel()
	for range updates {
	}
}

func TestObserveSkipsStaleUpdates(t *testing.T) {
	f := newFixture(t, nil)
	f.surveyAll(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := f.p.Save(ctx, f.owner, f.trip.ID, sampleDoc("v1"), 0)
	require.NoError(t, err)
	updates, err := f.p.Observe(ctx, f.owner, f.trip.ID)
	require.NoError(t, err)
	next(t, updates)

	f.p.hub.Deliver(realtime.Update{TripID: f.trip.ID, Itinerary: &models.Itinerary{TripID: f.trip.ID, Version: 1}})
	f.p.hub.Deliver(realtime.Update{TripID: f.trip.ID, Itinerary: &models.Itinerary{TripID: f.trip.ID, Version: 2}})
	got := next(t, updates)
	assert.Equal(t, int64(2), got.Itinerary.Version)
}

func TestObserveOrdersClearedState(t *testing.T) {
	f := newFixture(t, nil)
	f.surveyAll(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := f.p.Save(ctx, f.owner, f.trip.ID, sampleDoc("v1"), 0)
	require.NoError(t, err)
	require.NoError(t, f.p.Clear(ctx, f.owner, f.trip.ID))

	updates, err := f.p.Observe(ctx, f.guest, f.trip.ID)
	require.NoError(t, err)
	snap := next(t, updates)
	assert.True(t, snap.Absent())
	assert.Equal(t, int64(2), snap.Version)

	// a late copy of the pre-clear state must not resurrect it
	f.p.hub.Deliver(realtime.Update{TripID: f.trip.ID, Itinerary: &models.Itinerary{TripID: f.trip.ID, Version: 1}})
	saved, err := f.p.Save(ctx, f.owner, f.trip.ID, sampleDoc("v3"), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), saved.Version)
	got := next(t, updates)
	require.NotNil(t, got.Itinerary)
	assert.Equal(t, int64(3), got.Itinerary.Version)

	require.NoError(t, f.p.Clear(ctx, f.owner, f.trip.ID))
	cleared := next(t, updates)
	assert.True(t, cleared.Absent())
	assert.Equal(t, int64(4), cleared.Version)
}

// failingStore makes selected trip mutations fail on top of a memory store.
type failingStore struct {
	*store.Memory
	deleteTripErr   error
	removeMemberErr error
}

func (s *failingStore) DeleteTrip(ctx context.Context, tripID uuid.UUID) error {
	if s.deleteTripErr != nil {
		return s.deleteTripErr
	}
	return s.Memory.DeleteTrip(ctx, tripID)
}

func (s *failingStore) RemoveMember(ctx context.Context, tripID, userID uuid.UUID) error {
	if s.removeMemberErr != nil {
		return s.removeMemberErr
	}
	return s.Memory.RemoveMember(ctx, tripID, userID)
}

func plannerOver(st store.Store) *Planner {
	p := New(Deps{
		Store:  st,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, Options{})
	p.now = tickingClock()
	return p
}

func TestDeleteTripFailureKeepsItinerary(t *testing.T) {
	f := newFixture(t, nil)
	f.surveyAll(t)
	ctx := context.Background()
	saved, err := f.p.Save(ctx, f.owner, f.trip.ID, sampleDoc("keep me"), 0)
	require.NoError(t, err)

	p := plannerOver(&failingStore{Memory: f.store, deleteTripErr: errors.New("connection reset")})
	err = p.DeleteTrip(ctx, f.owner, f.trip.ID)
	assert.ErrorIs(t, err, ErrPersistence)

	_, err = f.p.GetTrip(ctx, f.owner, f.trip.ID)
	require.NoError(t, err)
	current, err := f.p.Get(ctx, f.owner, f.trip.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Version, current.Version)
}

func TestDeclineFailureKeepsSurvey(t *testing.T) {
	f := newFixture(t, nil)
	f.surveyAll(t)
	ctx := context.Background()

	p := plannerOver(&failingStore{Memory: f.store, removeMemberErr: errors.New("connection reset")})
	assert.ErrorIs(t, p.Decline(ctx, f.guest, f.trip.ID), ErrPersistence)

	surveys, err := f.store.ListSurveys(ctx, f.trip.ID)
	require.NoError(t, err)
	assert.Len(t, surveys, 2)
	rd, err := f.p.Readiness(ctx, f.owner, f.trip.ID)
	require.NoError(t, err)
	assert.True(t, rd.Ready())
	assert.Equal(t, 2, rd.Expected)
}

func TestDeleteTripCascadesAndEndsObservers(t *testing.T) {
	f := newFixture(t, nil)
	f.surveyAll(t)
	ctx := context.Background()
	_, err := f.p.Generate(ctx, f.owner, f.trip.ID)
	require.NoError(t, err)

	updates, err := f.p.Observe(ctx, f.guest, f.trip.ID)
	require.NoError(t, err)
	next(t, updates)

	require.NoError(t, f.p.DeleteTrip(ctx, f.owner, f.trip.ID))
	last := next(t, updates)
	assert.True(t, last.TripDeleted)
	assert.True(t, last.Absent())
	_, open := <-updates
	assert.False(t, open)

	_, err = f.store.GetItinerary(ctx, f.trip.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	surveys, err := f.store.ListSurveys(ctx, f.trip.ID)
	require.NoError(t, err)
	assert.Empty(t, surveys)
	_, err = f.p.GetTrip(ctx, f.owner, f.trip.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	page, _, err := f.p.Notifications(ctx, f.guest, NotificationQuery{Type: string(models.NotifyTripDeleted)})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestDeclineRemovesTravelerAndSurvey(t *testing.T) {
	f := newFixture(t, nil)
	f.surveyAll(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.p.Decline(ctx, f.owner, f.trip.ID), ErrInvalidInput)
	require.NoError(t, f.p.Decline(ctx, f.guest, f.trip.ID))

	surveys, err := f.store.ListSurveys(ctx, f.trip.ID)
	require.NoError(t, err)
	require.Len(t, surveys, 1)
	assert.Equal(t, f.owner.UserID, surveys[0].UserID)

	_, err = f.p.GetTrip(ctx, f.guest, f.trip.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	rd, err := f.p.Readiness(ctx, f.owner, f.trip.ID)
	require.NoError(t, err)
	assert.True(t, rd.Ready())
	assert.Equal(t, 1, rd.Expected)
}

func TestInviteTwiceConflicts(t *testing.T) {
	f := newFixture(t, nil)
	err := f.p.Invite(context.Background(), f.owner, f.trip.ID, f.guest.UserID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestPendingInviteeCannotSubmitSurvey(t *testing.T) {
	f := newFixture(t, nil)
	invitee := Session{UserID: uuid.New()}
	require.NoError(t, f.p.Invite(context.Background(), f.owner, f.trip.ID, invitee.UserID))

	_, err := f.p.SubmitSurvey(context.Background(), invitee, f.trip.ID, guestSurvey())
	assert.ErrorIs(t, err, ErrUnauthorized)

	page, _, err := f.p.Notifications(context.Background(), invitee, NotificationQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, models.NotifyTripInvitation, page.Items[0].Type)
}

func TestSurveyValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	bad := guestSurvey()
	bad.Cuisines = []string{"Martian"}
	_, err := f.p.SubmitSurvey(ctx, f.guest, f.trip.ID, bad)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "Martian")

	bad = guestSurvey()
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	bad.Blocked = []models.TimeRange{{Start: at, End: at}}
	_, err = f.p.SubmitSurvey(ctx, f.guest, f.trip.ID, bad)
	assert.ErrorIs(t, err, ErrInvalidInput)

	bad = guestSurvey()
	bad.PreferredStart = models.MustTimeOfDay("18:00").Ptr()
	bad.PreferredEnd = models.MustTimeOfDay("09:00").Ptr()
	_, err = f.p.SubmitSurvey(ctx, f.guest, f.trip.ID, bad)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestResubmissionOverwrites(t *testing.T) {
	f := newFixture(t, nil)
	f.surveyAll(t)
	ctx := context.Background()

	changed := guestSurvey()
	changed.Experiences = []string{"Beaches"}
	_, err := f.p.SubmitSurvey(ctx, f.guest, f.trip.ID, changed)
	require.NoError(t, err)

	surveys, err := f.p.ListSurveys(ctx, f.owner, f.trip.ID)
	require.NoError(t, err)
	require.Len(t, surveys, 2)
	assert.Equal(t, f.owner.UserID, surveys[0].UserID)
	assert.Equal(t, []string{"Beaches"}, surveys[1].Experiences)

	summary, err := f.p.Preferences(ctx, f.guest, f.trip.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Museums", "Sightseeing", "Beaches"}, summary.Aggregated.Experiences)
}

func TestExportPDF(t *testing.T) {
	f := newFixture(t, nil)
	f.surveyAll(t)
	ctx := context.Background()

	var buf bytes.Buffer
	assert.ErrorIs(t, f.p.ExportPDF(ctx, f.guest, f.trip.ID, &buf), ErrNotFound)

	_, err := f.p.Generate(ctx, f.owner, f.trip.ID)
	require.NoError(t, err)
	require.NoError(t, f.p.ExportPDF(ctx, f.guest, f.trip.ID, &buf))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))
	assert.Equal(t, "https://go2gether.example/trips/"+f.trip.ID.String()+"/itinerary", f.p.ShareURL(f.trip.ID))
}

// tickingClock advances one second per call so submission order is stable.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	at := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		at = at.Add(time.Second)
		return at
	}
}

func next(t *testing.T, ch <-chan realtime.Update) realtime.Update {
	t.Helper()
	select {
	case u, ok := <-ch:
		require.True(t, ok, "observer closed")
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for itinerary update")
	}
	return realtime.Update{}
}
