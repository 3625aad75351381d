// Package prompt renders aggregated preferences and trip metadata into the
// instruction text sent to the itinerary generator.
package prompt

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"GO2GETHER_PLANNER/internal/itinerary"
	"GO2GETHER_PLANNER/internal/models"
	"GO2GETHER_PLANNER/internal/preferences"
)

const (
	// MaxDays caps the number of planned days regardless of the trip length.
	MaxDays = 7
	// DefaultMaxBytes is used when Options.MaxBytes is zero.
	DefaultMaxBytes = 12000
	// MaxOptionRunes clips each interpolated option or destination string.
	MaxOptionRunes = 80

	noneMarker   = "None"
	noPreference = "No preference"

	dateLayout = "January 2, 2006"
	slotLayout = "Jan 2, 2006 3:04 PM"
)

// ErrMissingWindow is returned when the aggregate has no daily start or end.
var ErrMissingWindow = errors.New("prompt: no preferred daily start and end time")

// SystemMessage primes the generator as a travel planner.
const SystemMessage = "You are an expert travel planner who builds realistic, well-paced group itineraries using real, currently operating venues."

// TripInfo is the trip metadata interpolated into the prompt.
type TripInfo struct {
	Destination string
	Start       time.Time
	End         time.Time
}

// Options tune rendering.
type Options struct {
	// MaxBytes bounds len(Prompt.Text). Zero means DefaultMaxBytes.
	MaxBytes int
	// Structured asks for JSON matching itinerary.GeneratorSchema instead of
	// the line-marker text format.
	Structured bool
}

// Prompt is the rendered instruction.
type Prompt struct {
	Text           string
	DayCount       int
	Truncated      bool
	OmittedBlocked int
}

// DayCount is the inclusive calendar-day span between start and end,
// clamped to [1, MaxDays].
func DayCount(start, end time.Time) int {
	days := span(start, end)
	if days < 1 {
		return 1
	}
	if days > MaxDays {
		return MaxDays
	}
	return days
}

func span(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}

// Build renders the prompt. It is a pure function of its inputs. Blocked
// intervals that do not fit in the byte budget are summarised in one line
// and the result is marked Truncated.
func Build(agg preferences.Aggregated, trip TripInfo, opts Options) (Prompt, error) {
	if !agg.HasDailyWindow() {
		return Prompt{}, ErrMissingWindow
	}
	limit := opts.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}

	p := Prompt{DayCount: DayCount(trip.Start, trip.End)}
	clipped := false
	clip := func(s string) string {
		c, cut := clipRunes(s, MaxOptionRunes)
		clipped = clipped || cut
		return c
	}
	join := func(values []string) string {
		if len(values) == 0 {
			return noPreference
		}
		out := make([]string, len(values))
		for i, v := range values {
			out[i] = clip(v)
		}
		return strings.Join(out, ", ")
	}

	var head strings.Builder
	fmt.Fprintf(&head, "Create a %d-day itinerary for a group trip to %s, from %s to %s.\n",
		p.DayCount, clip(trip.Destination), trip.Start.Format(dateLayout), trip.End.Format(dateLayout))
	if span(trip.Start, trip.End) > MaxDays {
		fmt.Fprintf(&head, "The trip is longer than %d days; plan the first %d days only.\n", MaxDays, MaxDays)
	}
	head.WriteString("\nGroup preferences, most popular first:\n")
	fmt.Fprintf(&head, "- Experiences: %s\n", join(agg.Experiences))
	fmt.Fprintf(&head, "- Cuisines: %s\n", join(agg.Cuisines))
	fmt.Fprintf(&head, "- Food experiences: %s\n", join(agg.FoodExperiences))
	fmt.Fprintf(&head, "\nEach day starts at %s and ends by %s.\n",
		agg.PreferredStart.Kitchen(), agg.PreferredEnd.Kitchen())
	head.WriteString("\nBlocked times (schedule nothing during these windows):\n")

	tail := instructions(p.DayCount, opts.Structured)

	var blocked strings.Builder
	if len(agg.Blocked) == 0 {
		blocked.WriteString(noneMarker + "\n")
	} else {
		budget := limit - head.Len() - len(tail)
		for i, r := range agg.Blocked {
			line := fmt.Sprintf("- %s to %s\n", r.Start.Format(slotLayout), r.End.Format(slotLayout))
			remaining := len(agg.Blocked) - i - 1
			reserve := 0
			if remaining > 0 {
				reserve = len(omittedLine(remaining))
			}
			if blocked.Len()+len(line)+reserve > budget {
				p.OmittedBlocked = len(agg.Blocked) - i
				blocked.WriteString(omittedLine(p.OmittedBlocked))
				break
			}
			blocked.WriteString(line)
		}
	}

	p.Text = head.String() + blocked.String() + tail
	p.Truncated = clipped || p.OmittedBlocked > 0 || len(p.Text) > limit
	return p, nil
}

func omittedLine(n int) string {
	if n == 1 {
		return "- 1 more blocked window omitted\n"
	}
	return fmt.Sprintf("- %d more blocked windows omitted\n", n)
}

func instructions(days int, structured bool) string {
	var b strings.Builder
	b.WriteString("\nInstructions:\n")
	fmt.Fprintf(&b, "- Plan exactly %d days.\n", days)
	b.WriteString("- Schedule three meals every day (breakfast, lunch and dinner) at real, named restaurants, each with its name and street address.\n")
	b.WriteString("- Schedule activities at real, named places that match the group's preferences, each with its name and street address.\n")
	b.WriteString("- Keep every meal and activity inside the daily start and end times and never inside a blocked window.\n")
	b.WriteString("- Vary the restaurants and activities from day to day; do not repeat a venue.\n")
	if structured {
		b.WriteString("\nRespond with a single JSON object and nothing else. It must validate against this JSON schema:\n")
		b.WriteString(itinerary.GeneratorSchema)
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString("\nFormat:\n")
	b.WriteString("- Start each day with a heading line such as **Day 1: Old Town and Markets**.\n")
	b.WriteString("- Put each meal or activity on its own line starting with \"- \", including the time and the place name.\n")
	b.WriteString("- Follow it with a line starting with \"- Address: \" and the full street address.\n")
	b.WriteString("- Plain lines without a marker may add short tips or notes.\n")
	return b.String()
}

func clipRunes(s string, n int) (string, bool) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s, false
	}
	r := []rune(s)
	return string(r[:n]), true
}

// FromSurveys is a convenience for callers holding raw responses.
func FromSurveys(responses []models.SurveyResponse, trip TripInfo, opts Options) (Prompt, error) {
	return Build(preferences.Aggregate(responses), trip, opts)
}
