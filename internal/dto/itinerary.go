package dto

import "GO2GETHER_PLANNER/internal/models"

// ReadinessResponse tells clients whether generation can start
type ReadinessResponse struct {
	State          string   `json:"state"`
	Expected       int      `json:"expected"`
	Submitted      int      `json:"submitted"`
	Missing        []string `json:"missing"`
	HasDailyWindow bool     `json:"has_daily_window"`
	CanGenerate    bool     `json:"can_generate"`
	CanSave        bool     `json:"can_save"`
	CanClear       bool     `json:"can_clear"`
}

// Itinerary is a stored itinerary
type Itinerary struct {
	OwnerID         string          `json:"owner_id"`
	Document        models.Document `json:"document"`
	Version         int64           `json:"version"`
	PromptTruncated bool            `json:"prompt_truncated"`
	UpdatedAt       string          `json:"updated_at"`
}

// ItineraryResponse carries a null itinerary when none exists
type ItineraryResponse struct {
	TripID    string     `json:"trip_id"`
	Itinerary *Itinerary `json:"itinerary"`
	ShareURL  string     `json:"share_url,omitempty"`
}

// SaveItineraryRequest replaces the document. Version is the one the
// client last saw, 0 for none.
type SaveItineraryRequest struct {
	Document models.Document `json:"document"`
	Version  int64           `json:"version" validate:"gte=0"`
}
