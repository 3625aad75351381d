package handlers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"GO2GETHER_PLANNER/internal/dto"
	"GO2GETHER_PLANNER/internal/models"
	"GO2GETHER_PLANNER/internal/planner"
	"GO2GETHER_PLANNER/internal/realtime"
	"GO2GETHER_PLANNER/internal/utils"
)

// ItineraryHandler serves readiness, generation and the owner's itinerary
// controls, plus live observation over a websocket
type ItineraryHandler struct {
	planner *planner.Planner
	logger  *slog.Logger
}

func NewItineraryHandler(p *planner.Planner, logger *slog.Logger) *ItineraryHandler {
	return &ItineraryHandler{planner: p, logger: logger}
}

// Readiness handles GET /api/trips/{trip_id}/readiness
// @Summary Survey readiness and enabled controls
// @Tags itinerary
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} dto.ReadinessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/readiness [get]
func (h *ItineraryHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathID(w, r, "trip_id")
	if !ok {
		return
	}

	rd, err := h.planner.Readiness(r.Context(), s, tripID)
	if err != nil {
		writePlannerError(w, r, h.logger, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, toReadinessResponse(rd))
}

// Generate handles POST /api/trips/{trip_id}/itinerary/generate
// @Summary Generate the itinerary
// @Description Owner only, once every traveler has answered the survey. Replaces the stored itinerary on success and keeps it on failure.
// @Tags itinerary
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} dto.ItineraryResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/itinerary/generate [post]
func (h *ItineraryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathID(w, r, "trip_id")
	if !ok {
		return
	}

	it, err := h.planner.Generate(r.Context(), s, tripID)
	if err != nil {
		writePlannerError(w, r, h.logger, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, h.itineraryResponse(tripID, it))
}

// Get handles GET /api/trips/{trip_id}/itinerary
// @Summary Current itinerary
// @Description itinerary is null until one is generated or saved.
// @Tags itinerary
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} dto.ItineraryResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/itinerary [get]
func (h *ItineraryHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathID(w, r, "trip_id")
	if !ok {
		return
	}

	it, err := h.planner.Get(r.Context(), s, tripID)
	if err != nil {
		writePlannerError(w, r, h.logger, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, h.itineraryResponse(tripID, it))
}

// Save handles PUT /api/trips/{trip_id}/itinerary
// @Summary Save an edited itinerary
// @Description Owner only. version must equal the stored version (0 when no itinerary is shown) or the save is rejected with 409.
// @Tags itinerary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param payload body dto.SaveItineraryRequest true "Document and expected version"
// @Success 200 {object} dto.ItineraryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/itinerary [put]
func (h *ItineraryHandler) Save(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathID(w, r, "trip_id")
	if !ok {
		return
	}

	var req dto.SaveItineraryRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	it, err := h.planner.Save(r.Context(), s, tripID, req.Document, req.Version)
	if err != nil {
		writePlannerError(w, r, h.logger, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, h.itineraryResponse(tripID, it))
}

// Clear handles DELETE /api/trips/{trip_id}/itinerary
// @Summary Clear the itinerary
// @Tags itinerary
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/itinerary [delete]
func (h *ItineraryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathID(w, r, "trip_id")
	if !ok {
		return
	}

	if err := h.planner.Clear(r.Context(), s, tripID); err != nil {
		writePlannerError(w, r, h.logger, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "Itinerary cleared"})
}

// Observe handles GET /api/trips/{trip_id}/itinerary/ws
// @Summary Observe the itinerary
// @Description Websocket. Sends the current state, then every change, as {"trip_id","itinerary","version","trip_deleted"} frames. Browsers may pass the token as access_token.
// @Tags itinerary
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param access_token query string false "JWT when headers cannot be set"
// @Success 101
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/itinerary/ws [get]
func (h *ItineraryHandler) Observe(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathID(w, r, "trip_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	updates, err := h.planner.Observe(ctx, s, tripID)
	if err != nil {
		writePlannerError(w, r, h.logger, err)
		return
	}
	h.logger.DebugContext(ctx, "observer connected", "trip_id", tripID, "user_id", s.UserID)
	realtime.ServeWS(w, r, updates, h.logger)
}

// ExportPDF handles GET /api/trips/{trip_id}/itinerary/pdf
// @Summary Download the itinerary as PDF
// @Tags itinerary
// @Produce application/pdf
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {file} binary
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/itinerary/pdf [get]
func (h *ItineraryHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathID(w, r, "trip_id")
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.planner.ExportPDF(r.Context(), s, tripID, &buf); err != nil {
		writePlannerError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="itinerary-%s.pdf"`, tripID))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "pdf write failed", "trip_id", tripID, "error", err)
	}
}

func (h *ItineraryHandler) itineraryResponse(tripID uuid.UUID, it *models.Itinerary) dto.ItineraryResponse {
	resp := dto.ItineraryResponse{TripID: tripID.String(), ShareURL: h.planner.ShareURL(tripID)}
	if it != nil {
		resp.Itinerary = &dto.Itinerary{
			OwnerID:         it.OwnerID.String(),
			Document:        it.Document,
			Version:         it.Version,
			PromptTruncated: it.Truncated,
			UpdatedAt:       utils.FormatTimestamp(it.UpdatedAt),
		}
	}
	return resp
}
