// Package preferences reduces a trip's survey responses into the group's
// ranked preferences, shared daily window and blocked intervals.
package preferences

import (
	"sort"

	"GO2GETHER_PLANNER/internal/models"
)

// How many options of each category survive aggregation.
const (
	TopExperiences     = 3
	TopCuisines        = 3
	TopFoodExperiences = 2
)

// OptionCount is one option with the number of times it was selected.
type OptionCount struct {
	Option string `json:"option"`
	Count  int    `json:"count"`
}

// Aggregated is derived from the responses and never persisted.
type Aggregated struct {
	Experiences     []string           `json:"experiences"`
	Cuisines        []string           `json:"cuisines"`
	FoodExperiences []string           `json:"food_experiences"`
	PreferredStart  *models.TimeOfDay  `json:"preferred_start,omitempty"`
	PreferredEnd    *models.TimeOfDay  `json:"preferred_end,omitempty"`
	Blocked         []models.TimeRange `json:"blocked"`
	Responses       int                `json:"responses"`
}

// HasDailyWindow reports whether both a start and an end time were found.
func (a Aggregated) HasDailyWindow() bool {
	return a.PreferredStart != nil && a.PreferredEnd != nil
}

// Aggregate is deterministic for a fixed input order. Empty input yields
// empty lists and nil start/end.
func Aggregate(responses []models.SurveyResponse) Aggregated {
	var experiences, cuisines, food []string
	agg := Aggregated{
		Blocked:   []models.TimeRange{},
		Responses: len(responses),
	}

	for _, r := range responses {
		experiences = append(experiences, r.Experiences...)
		cuisines = append(cuisines, r.Cuisines...)
		food = append(food, r.FoodExperiences...)

		// first wins; differing preferences are not reconciled
		if agg.PreferredStart == nil && r.PreferredStart != nil {
			v := *r.PreferredStart
			agg.PreferredStart = &v
		}
		if agg.PreferredEnd == nil && r.PreferredEnd != nil {
			v := *r.PreferredEnd
			agg.PreferredEnd = &v
		}

		// concatenated, overlaps are kept as-is
		agg.Blocked = append(agg.Blocked, r.Blocked...)
	}

	agg.Experiences = Options(Top(experiences, TopExperiences))
	agg.Cuisines = Options(Top(cuisines, TopCuisines))
	agg.FoodExperiences = Options(Top(food, TopFoodExperiences))
	return agg
}

// Tally counts every selection, duplicates included, and orders the result
// by descending count. Ties keep first-seen order.
func Tally(values []string) []OptionCount {
	index := make(map[string]int, len(values))
	counts := make([]OptionCount, 0, len(values))
	for _, v := range values {
		if i, ok := index[v]; ok {
			counts[i].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, OptionCount{Option: v, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// Top is Tally truncated to k entries.
func Top(values []string, k int) []OptionCount {
	counts := Tally(values)
	if k >= 0 && len(counts) > k {
		counts = counts[:k]
	}
	return counts
}

// Options drops the counts.
func Options(counts []OptionCount) []string {
	out := make([]string, len(counts))
	for i, c := range counts {
		out[i] = c.Option
	}
	return out
}

// Summary is the full tally per category, shown to travelers before generation.
type Summary struct {
	Experiences     []OptionCount `json:"experiences"`
	Cuisines        []OptionCount `json:"cuisines"`
	FoodExperiences []OptionCount `json:"food_experiences"`
	Aggregated      Aggregated    `json:"aggregated"`
}

// Summarize returns untruncated tallies next to the aggregate.
func Summarize(responses []models.SurveyResponse) Summary {
	var experiences, cuisines, food []string
	for _, r := range responses {
		experiences = append(experiences, r.Experiences...)
		cuisines = append(cuisines, r.Cuisines...)
		food = append(food, r.FoodExperiences...)
	}
	return Summary{
		Experiences:     Tally(experiences),
		Cuisines:        Tally(cuisines),
		FoodExperiences: Tally(food),
		Aggregated:      Aggregate(responses),
	}
}
