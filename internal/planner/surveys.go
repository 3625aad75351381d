package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"GO2GETHER_PLANNER/internal/catalog"
	"GO2GETHER_PLANNER/internal/models"
	"GO2GETHER_PLANNER/internal/preferences"
)

const maxBlockedPerSurvey = 200

// SurveyInput is one traveler's answers.
type SurveyInput struct {
	Experiences     []string
	Cuisines        []string
	FoodExperiences []string
	PreferredStart  *models.TimeOfDay
	PreferredEnd    *models.TimeOfDay
	Blocked         []models.TimeRange
}

func (in *SurveyInput) normalize() {
	in.Experiences = trimAll(in.Experiences)
	in.Cuisines = trimAll(in.Cuisines)
	in.FoodExperiences = trimAll(in.FoodExperiences)
	if in.Blocked == nil {
		in.Blocked = []models.TimeRange{}
	}
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (p *Planner) validateSurvey(in SurveyInput) error {
	for _, c := range []struct {
		category string
		values   []string
	}{
		{catalog.CategoryExperiences, in.Experiences},
		{catalog.CategoryCuisines, in.Cuisines},
		{catalog.CategoryFoodExperiences, in.FoodExperiences},
	} {
		if unknown := p.catalog.Unknown(c.category, c.values); len(unknown) > 0 {
			return invalid("unknown %s: %s", c.category, strings.Join(unknown, ", "))
		}
	}
	if in.PreferredStart != nil && in.PreferredEnd != nil && *in.PreferredEnd <= *in.PreferredStart {
		return invalid("preferred_end must be after preferred_start")
	}
	if len(in.Blocked) > maxBlockedPerSurvey {
		return invalid("at most %d blocked intervals", maxBlockedPerSurvey)
	}
	for i, b := range in.Blocked {
		if b.Start.IsZero() || b.End.IsZero() || !b.End.After(b.Start) {
			return invalid("blocked[%d]: end must be after start", i)
		}
	}
	return nil
}

// SubmitSurvey stores or overwrites the session user's response.
func (p *Planner) SubmitSurvey(ctx context.Context, s Session, tripID uuid.UUID, in SurveyInput) (*models.SurveyResponse, error) {
	trip, err := p.loadTripAsTraveler(ctx, s, tripID)
	if err != nil {
		return nil, err
	}
	in.normalize()
	if err := p.validateSurvey(in); err != nil {
		return nil, err
	}

	now := p.now().UTC()
	resp := &models.SurveyResponse{
		TripID:          tripID,
		UserID:          s.UserID,
		Experiences:     in.Experiences,
		Cuisines:        in.Cuisines,
		FoodExperiences: in.FoodExperiences,
		PreferredStart:  in.PreferredStart,
		PreferredEnd:    in.PreferredEnd,
		Blocked:         in.Blocked,
		SubmittedAt:     now,
		UpdatedAt:       now,
	}
	if err := p.store.PutSurvey(ctx, resp); err != nil {
		return nil, fromStore("save survey", err)
	}
	p.logger.InfoContext(ctx, "survey submitted", "trip_id", tripID, "user_id", s.UserID)

	p.notifier.notifyAll(ctx, []uuid.UUID{trip.OwnerID}, s.UserID, models.NotifySurveySubmitted,
		"Survey submitted", fmt.Sprintf("A traveler answered the survey for %s.", trip.Name),
		map[string]any{"trip_id": tripID.String(), "user_id": s.UserID.String()})
	return resp, nil
}

// ListSurveys returns the current travelers' responses in collection order.
func (p *Planner) ListSurveys(ctx context.Context, s Session, tripID uuid.UUID) ([]models.SurveyResponse, error) {
	trip, err := p.loadTripAsTraveler(ctx, s, tripID)
	if err != nil {
		return nil, err
	}
	_, responses, err := p.readiness(ctx, s, trip)
	return responses, err
}

// Preferences returns the full tallies and the aggregate the prompt would use.
func (p *Planner) Preferences(ctx context.Context, s Session, tripID uuid.UUID) (preferences.Summary, error) {
	responses, err := p.ListSurveys(ctx, s, tripID)
	if err != nil {
		return preferences.Summary{}, err
	}
	return preferences.Summarize(responses), nil
}
