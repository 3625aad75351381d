package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"GO2GETHER_PLANNER/internal/config"
	"GO2GETHER_PLANNER/internal/handlers"
	"GO2GETHER_PLANNER/internal/middleware"
)

// Handlers groups everything SetupRoutes mounts
type Handlers struct {
	Health        *handlers.HealthHandler
	Trips         *handlers.TripsHandler
	Surveys       *handlers.SurveysHandler
	Itinerary     *handlers.ItineraryHandler
	Notifications *handlers.NotificationsHandler
}

// SetupRoutes configures all application routes on mux
func SetupRoutes(mux *http.ServeMux, h Handlers, jwtCfg *config.JWTConfig, limiter *middleware.RateLimiter) {
	auth := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.AuthMiddleware(next, jwtCfg)
	}

	// Health check routes
	mux.HandleFunc("GET /healthz", h.Health.HealthCheck)
	mux.HandleFunc("GET /livez", h.Health.LivenessCheck)
	mux.HandleFunc("GET /readyz", h.Health.ReadinessCheck)

	// API docs
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Survey catalog
	mux.HandleFunc("GET /api/survey/options", auth(h.Surveys.SurveyOptions))

	// Trips and invitations
	mux.HandleFunc("POST /api/trips", auth(h.Trips.CreateTrip))
	mux.HandleFunc("GET /api/trips", auth(h.Trips.ListTrips))
	mux.HandleFunc("GET /api/trips/{trip_id}", auth(h.Trips.TripDetail))
	mux.HandleFunc("DELETE /api/trips/{trip_id}", auth(h.Trips.DeleteTrip))
	mux.HandleFunc("POST /api/trips/{trip_id}/invitations", auth(h.Trips.Invite))
	mux.HandleFunc("POST /api/trips/{trip_id}/accept", auth(h.Trips.Accept))
	mux.HandleFunc("POST /api/trips/{trip_id}/decline", auth(h.Trips.Decline))

	// Surveys
	mux.HandleFunc("PUT /api/trips/{trip_id}/survey", auth(h.Surveys.SubmitSurvey))
	mux.HandleFunc("GET /api/trips/{trip_id}/surveys", auth(h.Surveys.ListSurveys))
	mux.HandleFunc("GET /api/trips/{trip_id}/preferences", auth(h.Surveys.Preferences))

	// Itinerary
	mux.HandleFunc("GET /api/trips/{trip_id}/readiness", auth(h.Itinerary.Readiness))
	mux.HandleFunc("POST /api/trips/{trip_id}/itinerary/generate", auth(limiter.Limit(h.Itinerary.Generate)))
	mux.HandleFunc("GET /api/trips/{trip_id}/itinerary", auth(h.Itinerary.Get))
	mux.HandleFunc("PUT /api/trips/{trip_id}/itinerary", auth(h.Itinerary.Save))
	mux.HandleFunc("DELETE /api/trips/{trip_id}/itinerary", auth(h.Itinerary.Clear))
	mux.HandleFunc("GET /api/trips/{trip_id}/itinerary/ws", auth(h.Itinerary.Observe))
	mux.HandleFunc("GET /api/trips/{trip_id}/itinerary/pdf", auth(h.Itinerary.ExportPDF))

	// Notifications
	mux.HandleFunc("GET /api/notifications", auth(h.Notifications.ListNotifications))
	mux.HandleFunc("POST /api/notifications/{id}/read", auth(h.Notifications.MarkRead))
	mux.HandleFunc("POST /api/notifications/read-all", auth(h.Notifications.MarkAllRead))

	// Root route
	mux.HandleFunc("GET /{$}", rootHandler)
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Go2gether itinerary planner is running."))
}
