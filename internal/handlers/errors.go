package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"GO2GETHER_PLANNER/internal/dto"
	"GO2GETHER_PLANNER/internal/planner"
	"GO2GETHER_PLANNER/internal/utils"
)

// writePlannerError maps the planner error taxonomy onto HTTP statuses.
func writePlannerError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var waiting *planner.WaitingError
	switch {
	case errors.As(err, &waiting):
		utils.WriteJSONResponse(w, http.StatusConflict, dto.ErrorResponse{
			Error:   "Not ready",
			Message: err.Error(),
			Details: map[string]any{
				"reason":    waiting.Reason,
				"readiness": toReadinessResponse(waiting.Readiness),
			},
		})
	case errors.Is(err, planner.ErrUnauthorized):
		utils.WriteErrorResponse(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, planner.ErrGenerationInProgress):
		utils.WriteJSONResponse(w, http.StatusConflict, dto.ErrorResponse{
			Error:     "Generation in progress",
			Message:   "an itinerary is already being generated for this trip",
			Retryable: true,
		})
	case errors.Is(err, context.Canceled) && r.Context().Err() != nil:
		// the client went away; nobody reads this
		logger.InfoContext(r.Context(), "request cancelled", "path", r.URL.Path)
		w.WriteHeader(http.StatusServiceUnavailable)
	case errors.Is(err, planner.ErrGenerationFailed):
		logger.WarnContext(r.Context(), "generation failed", "path", r.URL.Path, "error", err)
		utils.WriteJSONResponse(w, http.StatusBadGateway, dto.ErrorResponse{
			Error:     "Generation failed",
			Message:   "the itinerary could not be generated, the previous itinerary was kept",
			Retryable: true,
		})
	case errors.Is(err, planner.ErrNotFound):
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, planner.ErrConflict):
		utils.WriteErrorResponse(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, planner.ErrInvalidInput):
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", "the request could not be completed")
	}
}

// session reads the authenticated user set by the auth middleware.
func session(w http.ResponseWriter, r *http.Request) (planner.Session, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return planner.Session{}, false
	}
	return planner.Session{UserID: userID}, true
}

// pathID parses a UUID path wildcard.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid "+name, name+" must be UUID")
		return uuid.Nil, false
	}
	return id, true
}

func toReadinessResponse(rd planner.Readiness) dto.ReadinessResponse {
	missing := make([]string, len(rd.Missing))
	for i, id := range rd.Missing {
		missing[i] = id.String()
	}
	return dto.ReadinessResponse{
		State:          rd.State,
		Expected:       rd.Expected,
		Submitted:      rd.Submitted,
		Missing:        missing,
		HasDailyWindow: rd.HasDailyWindow,
		CanGenerate:    rd.CanGenerate,
		CanSave:        rd.CanSave,
		CanClear:       rd.CanClear,
	}
}
