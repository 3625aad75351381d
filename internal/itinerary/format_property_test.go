package itinerary

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func nonBlankLines(s string) int {
	n := 0
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// lines built from marker fragments so every rule gets exercised
var lineGen = gen.OneGenOf(
	gen.AlphaString(),
	gen.AlphaString().Map(func(s string) string { return "**" + s + "**" }),
	gen.AlphaString().Map(func(s string) string { return "- " + s }),
	gen.AlphaString().Map(func(s string) string { return "- Address: " + s }),
	gen.AlphaString().Map(func(s string) string { return "# " + s }),
	gen.OneConstOf("", "   ", "-", "****", "- **"),
)

func TestFormatProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("one run per non-blank line, each with text and a known style", prop.ForAll(
		func(s string) bool {
			doc := Format(s)
			if len(doc.Runs) != nonBlankLines(s) {
				return false
			}
			for _, r := range doc.Runs {
				if r.Text == "" || !r.Style.Known() {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.Property("marker-heavy input is total", prop.ForAll(
		func(lines []string) bool {
			s := strings.Join(lines, "\n")
			doc := Format(s)
			if strings.TrimSpace(s) == "" {
				return doc.Empty()
			}
			return !doc.Empty() && len(doc.Runs) == nonBlankLines(s)
		},
		gen.SliceOf(lineGen),
	))

	properties.Property("formatted documents survive the codec unchanged", prop.ForAll(
		func(lines []string) bool {
			doc := Format(strings.Join(lines, "\n"))
			b, err := Encode(doc)
			if err != nil {
				return false
			}
			back, err := Decode(b)
			if err != nil || len(back.Runs) != len(doc.Runs) {
				return false
			}
			for i := range doc.Runs {
				if back.Runs[i] != doc.Runs[i] {
					return false
				}
			}
			return back.Version == doc.Version
		},
		gen.SliceOf(lineGen),
	))

	properties.TestingRun(t)
}
