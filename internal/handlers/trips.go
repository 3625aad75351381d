package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"GO2GETHER_PLANNER/internal/dto"
	"GO2GETHER_PLANNER/internal/models"
	"GO2GETHER_PLANNER/internal/planner"
	"GO2GETHER_PLANNER/internal/utils"
)

// TripsHandler manages trip and invitation endpoints
type TripsHandler struct {
	planner *planner.Planner
	logger  *slog.Logger
}

// NewTripsHandler creates a new TripsHandler
func NewTripsHandler(p *planner.Planner, logger *slog.Logger) *TripsHandler {
	return &TripsHandler{planner: p, logger: logger}
}

// CreateTrip handles POST /api/trips
// @Summary Create a new trip
// @Description The caller becomes the owner and first traveler.
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateTripRequest true "Trip payload"
// @Success 201 {object} dto.CreateTripResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/trips [post]
func (h *TripsHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	var req dto.CreateTripRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return // Error already handled by DecodeJSONRequest
	}

	startAt, err := utils.ParseDate(req.StartDate)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "start_date must be ISO 8601 format (YYYY-MM-DD or RFC3339)")
		return
	}
	endAt, err := utils.ParseDate(req.EndDate)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "end_date must be ISO 8601 format (YYYY-MM-DD or RFC3339)")
		return
	}

	trip, err := h.planner.CreateTrip(r.Context(), s, planner.TripInput{
		Name:        req.Name,
		Destination: req.Destination,
		StartDate:   startAt,
		EndDate:     endAt,
	})
	if err != nil {
		writePlannerError(w, r, h.logger, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, dto.CreateTripResponse{Trip: toTripResponse(trip)})
}

// ListTrips handles GET /api/trips
// @Summary List my trips
// @Description Trips the caller travels on, newest first.
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param limit query int false "items per page (default 20, max 100)"
// @Param offset query int false "offset"
// @Success 200 {object} dto.TripListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/trips [get]
func (h *TripsHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	limit := 20
	offset := 0
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			if n > 100 {
				n = 100
			}
			limit = n
		}
	}
	if v := strings.TrimSpace(q.Get("offset")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	trips, err := h.planner.ListTrips(r.Context(), s)
	if err != nil {
		writePlannerError(w, r, h.logger, err)
		return
	}

	items := make([]dto.TripListItem, 0, limit)
	for i := offset; i < len(trips) && len(items) < limit; i++ {
		t := trips[i]
		items = append(items, dto.TripListItem{
			ID:          t.ID.String(),
			Name:        t.Name,
			Destination: t.Destination,
			StartDate:   utils.FormatDate(t.StartDate),
			EndDate:     utils.FormatDate(t.EndDate),
			OwnerID:     t.OwnerID.String(),
			MemberCount: len(t.Members),
			CreatedAt:   utils.FormatTimestamp(t.CreatedAt),
		})
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.TripListResponse{
		Trips: items,
		Pagination: dto.Pagination{
			Total:  len(trips),
			Limit:  limit,
			Offset: offset,
		},
	})
}

// TripDetail handles GET /api/trips/{trip_id}
// @Summary Get trip detail
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} dto.TripDetailResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id} [get]
func (h *TripsHandler) TripDetail(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathID(w, r, "trip_id")
	if !ok {
		return
	}

	view, err := h.planner.GetTrip(r.Context(), s, tripID)
	if err != nil {
		writePlannerError(w, r, h.logger, err)
		return
	}

	missing := make(map[uuid.UUID]bool, len(view.Readiness.Missing))
	for _, id := range view.Readiness.Missing {
		missing[id] = true
	}

	members := make([]dto.TripMember, 0, len(view.Trip.Members))
	var stats dto.TripStats
	for _, m := range view.Trip.Members {
		submitted := m.Status == models.MemberAccepted && !missing[m.UserID]
		item := dto.TripMember{
			UserID:          m.UserID.String(),
			Role:            m.Role,
			Status:          m.Status,
			SurveySubmitted: submitted,
			InvitedAt:       utils.FormatTimestamp(m.InvitedAt),
		}
		if m.JoinedAt != nil {
			item.JoinedAt = utils.FormatTimestamp(*m.JoinedAt)
		}
		members = append(members, item)

		stats.TotalMembers++
		switch m.Status {
		case models.MemberAccepted:
			stats.AcceptedMembers++
		case models.MemberPending:
			stats.PendingInvitations++
		}
		if submitted {
			stats.SurveysSubmitted++
		}
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.TripDetailResponse{
		Trip:    toTripResponse(view.Trip),
		Members: members,
		Permissions: dto.TripPermissions{
			CanGenerate: view.Permissions.CanGenerate,
			CanDelete:   view.Permissions.CanDelete,
			CanInvite:   view.Permissions.CanInvite,
		},
		Stats:     stats,
		Readiness: toReadinessResponse(view.Readiness),
	})
}

// DeleteTrip handles DELETE /api/trips/{trip_id}
// @Summary Delete a trip
// @Description Owner only. Removes members, surveys and the itinerary.
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id} [delete]
func (h *TripsHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathID(w, r, "trip_id")
	if !ok {
		return
	}

	if err := h.planner.DeleteTrip(r.Context(), s, tripID); err != nil {
		writePlannerError(w, r, h.logger, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "Trip deleted successfully"})
}

// Invite handles POST /api/trips/{trip_id}/invitations
// @Summary Invite a user
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param payload body dto.InviteRequest true "Invitee"
// @Success 201 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/invitations [post]
func (h *TripsHandler) Invite(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathID(w, r, "trip_id")
	if !ok {
		return
	}

	var req dto.InviteRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}
	invitee, err := uuid.Parse(req.UserID)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", "user_id must be UUID")
		return
	}

	if err := h.planner.Invite(r.Context(), s, tripID, invitee); err != nil {
		writePlannerError(w, r, h.logger, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, dto.MessageResponse{Message: "Invitation sent"})
}

// Accept handles POST /api/trips/{trip_id}/accept
// @Summary Accept an invitation
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/accept [post]
func (h *TripsHandler) Accept(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathID(w, r, "trip_id")
	if !ok {
		return
	}

	if err := h.planner.Accept(r.Context(), s, tripID); err != nil {
		writePlannerError(w, r, h.logger, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "Invitation accepted"})
}

// Decline handles POST /api/trips/{trip_id}/decline
// @Summary Decline an invitation or leave a trip
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/decline [post]
func (h *TripsHandler) Decline(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathID(w, r, "trip_id")
	if !ok {
		return
	}

	if err := h.planner.Decline(r.Context(), s, tripID); err != nil {
		writePlannerError(w, r, h.logger, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "Invitation declined"})
}

func toTripResponse(t *models.Trip) dto.TripResponse {
	return dto.TripResponse{
		ID:          t.ID.String(),
		Name:        t.Name,
		Destination: t.Destination,
		StartDate:   utils.FormatDate(t.StartDate),
		EndDate:     utils.FormatDate(t.EndDate),
		OwnerID:     t.OwnerID.String(),
		CreatedAt:   utils.FormatTimestamp(t.CreatedAt),
		UpdatedAt:   utils.FormatTimestamp(t.UpdatedAt),
	}
}
