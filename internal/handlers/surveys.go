package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"GO2GETHER_PLANNER/internal/dto"
	"GO2GETHER_PLANNER/internal/models"
	"GO2GETHER_PLANNER/internal/planner"
	"GO2GETHER_PLANNER/internal/preferences"
	"GO2GETHER_PLANNER/internal/utils"
)

// SurveysHandler serves preference surveys and the option catalog
type SurveysHandler struct {
	planner *planner.Planner
	logger  *slog.Logger
}

func NewSurveysHandler(p *planner.Planner, logger *slog.Logger) *SurveysHandler {
	return &SurveysHandler{planner: p, logger: logger}
}

// SurveyOptions handles GET /api/survey/options
// @Summary Survey option catalog
// @Tags surveys
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SurveyOptionsResponse
// @Router /api/survey/options [get]
func (h *SurveysHandler) SurveyOptions(w http.ResponseWriter, r *http.Request) {
	c := h.planner.Catalog()
	utils.WriteJSONResponse(w, http.StatusOK, dto.SurveyOptionsResponse{
		Experiences:     c.Experiences,
		Cuisines:        c.Cuisines,
		FoodExperiences: c.FoodExperiences,
	})
}

// SubmitSurvey handles PUT /api/trips/{trip_id}/survey
// @Summary Submit or replace my survey
// @Description Accepted travelers only. Resubmitting overwrites the previous answers.
// @Tags surveys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param payload body dto.SurveyRequest true "Survey answers"
// @Success 200 {object} dto.SurveyResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/survey [put]
func (h *SurveysHandler) SubmitSurvey(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathID(w, r, "trip_id")
	if !ok {
		return
	}

	var req dto.SurveyRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}
	in, err := surveyInput(req)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", err.Error())
		return
	}

	resp, err := h.planner.SubmitSurvey(r.Context(), s, tripID, in)
	if err != nil {
		writePlannerError(w, r, h.logger, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, toSurveyResponse(*resp))
}

// ListSurveys handles GET /api/trips/{trip_id}/surveys
// @Summary List the travelers' surveys
// @Tags surveys
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} dto.SurveyListResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/surveys [get]
func (h *SurveysHandler) ListSurveys(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathID(w, r, "trip_id")
	if !ok {
		return
	}

	responses, err := h.planner.ListSurveys(r.Context(), s, tripID)
	if err != nil {
		writePlannerError(w, r, h.logger, err)
		return
	}
	out := make([]dto.SurveyResponse, 0, len(responses))
	for _, resp := range responses {
		out = append(out, toSurveyResponse(resp))
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.SurveyListResponse{Surveys: out})
}

// Preferences handles GET /api/trips/{trip_id}/preferences
// @Summary Aggregated group preferences
// @Tags surveys
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} dto.PreferencesResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/preferences [get]
func (h *SurveysHandler) Preferences(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathID(w, r, "trip_id")
	if !ok {
		return
	}

	summary, err := h.planner.Preferences(r.Context(), s, tripID)
	if err != nil {
		writePlannerError(w, r, h.logger, err)
		return
	}

	agg := summary.Aggregated
	utils.WriteJSONResponse(w, http.StatusOK, dto.PreferencesResponse{
		Experiences:     toOptionCounts(summary.Experiences),
		Cuisines:        toOptionCounts(summary.Cuisines),
		FoodExperiences: toOptionCounts(summary.FoodExperiences),
		Aggregated: dto.AggregatedPreferences{
			Experiences:     agg.Experiences,
			Cuisines:        agg.Cuisines,
			FoodExperiences: agg.FoodExperiences,
			PreferredStart:  timeOfDay(agg.PreferredStart),
			PreferredEnd:    timeOfDay(agg.PreferredEnd),
			Blocked:         toTimeRanges(agg.Blocked),
			Responses:       agg.Responses,
		},
	})
}

func surveyInput(req dto.SurveyRequest) (planner.SurveyInput, error) {
	in := planner.SurveyInput{
		Experiences:     req.Experiences,
		Cuisines:        req.Cuisines,
		FoodExperiences: req.FoodExperiences,
		Blocked:         make([]models.TimeRange, 0, len(req.Blocked)),
	}
	if req.PreferredStart != "" {
		t, err := models.ParseTimeOfDay(req.PreferredStart)
		if err != nil {
			return in, fmt.Errorf("preferred_start: %w", err)
		}
		in.PreferredStart = &t
	}
	if req.PreferredEnd != "" {
		t, err := models.ParseTimeOfDay(req.PreferredEnd)
		if err != nil {
			return in, fmt.Errorf("preferred_end: %w", err)
		}
		in.PreferredEnd = &t
	}
	for i, b := range req.Blocked {
		start, err := utils.ParseTimestamp(b.Start)
		if err != nil {
			return in, fmt.Errorf("blocked[%d].start: %w", i, err)
		}
		end, err := utils.ParseTimestamp(b.End)
		if err != nil {
			return in, fmt.Errorf("blocked[%d].end: %w", i, err)
		}
		in.Blocked = append(in.Blocked, models.TimeRange{Start: start, End: end})
	}
	return in, nil
}

func toSurveyResponse(r models.SurveyResponse) dto.SurveyResponse {
	return dto.SurveyResponse{
		TripID:          r.TripID.String(),
		UserID:          r.UserID.String(),
		Experiences:     nonNil(r.Experiences),
		Cuisines:        nonNil(r.Cuisines),
		FoodExperiences: nonNil(r.FoodExperiences),
		PreferredStart:  timeOfDay(r.PreferredStart),
		PreferredEnd:    timeOfDay(r.PreferredEnd),
		Blocked:         toTimeRanges(r.Blocked),
		SubmittedAt:     utils.FormatTimestamp(r.SubmittedAt),
		UpdatedAt:       utils.FormatTimestamp(r.UpdatedAt),
	}
}

func toOptionCounts(in []preferences.OptionCount) []dto.OptionCount {
	out := make([]dto.OptionCount, len(in))
	for i, c := range in {
		out[i] = dto.OptionCount{Option: c.Option, Count: c.Count}
	}
	return out
}

func toTimeRanges(in []models.TimeRange) []dto.TimeRange {
	out := make([]dto.TimeRange, len(in))
	for i, b := range in {
		out[i] = dto.TimeRange{Start: utils.FormatTimestamp(b.Start), End: utils.FormatTimestamp(b.End)}
	}
	return out
}

func timeOfDay(t *models.TimeOfDay) string {
	if t == nil {
		return ""
	}
	return t.String()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
