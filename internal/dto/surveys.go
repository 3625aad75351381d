package dto

// TimeRange is a blocked interval, RFC3339 on both ends
type TimeRange struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// SurveyRequest is one traveler's answers. Times of day are HH:MM.
type SurveyRequest struct {
	Experiences     []string    `json:"experiences" validate:"max=20,dive,required,max=80"`
	Cuisines        []string    `json:"cuisines" validate:"max=20,dive,required,max=80"`
	FoodExperiences []string    `json:"food_experiences" validate:"max=20,dive,required,max=80"`
	PreferredStart  string      `json:"preferred_start,omitempty" validate:"omitempty,len=5"`
	PreferredEnd    string      `json:"preferred_end,omitempty" validate:"omitempty,len=5"`
	Blocked         []TimeRange `json:"blocked" validate:"max=200,dive"`
}

// SurveyResponse is a stored survey
type SurveyResponse struct {
	TripID          string      `json:"trip_id"`
	UserID          string      `json:"user_id"`
	Experiences     []string    `json:"experiences"`
	Cuisines        []string    `json:"cuisines"`
	FoodExperiences []string    `json:"food_experiences"`
	PreferredStart  string      `json:"preferred_start,omitempty"`
	PreferredEnd    string      `json:"preferred_end,omitempty"`
	Blocked         []TimeRange `json:"blocked"`
	SubmittedAt     string      `json:"submitted_at"`
	UpdatedAt       string      `json:"updated_at"`
}

// SurveyListResponse envelope
type SurveyListResponse struct {
	Surveys []SurveyResponse `json:"surveys"`
}

// OptionCount is one option and how often it was picked
type OptionCount struct {
	Option string `json:"option"`
	Count  int    `json:"count"`
}

// AggregatedPreferences is what the prompt is built from
type AggregatedPreferences struct {
	Experiences     []string    `json:"experiences"`
	Cuisines        []string    `json:"cuisines"`
	FoodExperiences []string    `json:"food_experiences"`
	PreferredStart  string      `json:"preferred_start,omitempty"`
	PreferredEnd    string      `json:"preferred_end,omitempty"`
	Blocked         []TimeRange `json:"blocked"`
	Responses       int         `json:"responses"`
}

// PreferencesResponse shows the group's tallies before generation
type PreferencesResponse struct {
	Experiences     []OptionCount         `json:"experiences"`
	Cuisines        []OptionCount         `json:"cuisines"`
	FoodExperiences []OptionCount         `json:"food_experiences"`
	Aggregated      AggregatedPreferences `json:"aggregated"`
}

// SurveyOptionsResponse lists selectable survey options
type SurveyOptionsResponse struct {
	Experiences     []string `json:"experiences"`
	Cuisines        []string `json:"cuisines"`
	FoodExperiences []string `json:"food_experiences"`
}
