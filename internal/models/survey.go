package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SurveyResponse is one traveler's preferences for a trip. There is at most
// one per (trip, traveler); resubmitting overwrites it.
type SurveyResponse struct {
	TripID          uuid.UUID   `json:"trip_id" db:"trip_id"`
	UserID          uuid.UUID   `json:"user_id" db:"user_id"`
	Experiences     []string    `json:"experiences" db:"experiences"`
	Cuisines        []string    `json:"cuisines" db:"cuisines"`
	FoodExperiences []string    `json:"food_experiences" db:"food_experiences"`
	PreferredStart  *TimeOfDay  `json:"preferred_start,omitempty" db:"preferred_start"`
	PreferredEnd    *TimeOfDay  `json:"preferred_end,omitempty" db:"preferred_end"`
	Blocked         []TimeRange `json:"blocked" db:"blocked"`
	SubmittedAt     time.Time   `json:"submitted_at" db:"submitted_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}

// TimeRange is a blocked interval during which nothing should be scheduled.
type TimeRange struct {
	Start time.Time `json:"start" bson:"start"`
	End   time.Time `json:"end" bson:"end"`
}

// TimeOfDay is a wall-clock time stored as minutes after midnight.
type TimeOfDay int

// ParseTimeOfDay accepts "HH:MM" in 24h form.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("time of day %q must be HH:MM", s)
	}
	hh, err := strconv.Atoi(h)
	if err != nil || hh < 0 || hh > 23 {
		return 0, fmt.Errorf("time of day %q has invalid hour", s)
	}
	mm, err := strconv.Atoi(m)
	if err != nil || len(m) != 2 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("time of day %q has invalid minute", s)
	}
	return TimeOfDay(hh*60 + mm), nil
}

// MustTimeOfDay is ParseTimeOfDay for literals.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Ptr returns a pointer to a copy of t.
func (t TimeOfDay) Ptr() *TimeOfDay { return &t }

// Hour returns the hour component.
func (t TimeOfDay) Hour() int { return int(t) / 60 }

// Minute returns the minute component.
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// String renders the 24h "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Kitchen renders "9:00 AM" style.
func (t TimeOfDay) Kitchen() string {
	return time.Date(2000, 1, 1, t.Hour(), t.Minute(), 0, 0, time.UTC).Format("3:04 PM")
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t TimeOfDay) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
