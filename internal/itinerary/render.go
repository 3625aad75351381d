package itinerary

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"GO2GETHER_PLANNER/internal/models"
)

var (
	headingStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	bulletStyle    = lipgloss.NewStyle().PaddingLeft(2)
	addressStyle   = lipgloss.NewStyle().PaddingLeft(4).Underline(true).Foreground(lipgloss.Color("#4FB286"))
	narrativeStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#AAAAAA"))
)

// RenderTerminal renders doc for a terminal, one run per line. Headings
// after the first are preceded by a blank line.
func RenderTerminal(doc models.Document) string {
	lines := make([]string, 0, len(doc.Runs))
	for i, r := range doc.Runs {
		switch r.Style {
		case models.StyleHeading:
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, headingStyle.Render(r.Text))
		case models.StyleBullet:
			lines = append(lines, bulletStyle.Render("• "+r.Text))
		case models.StyleAddress:
			lines = append(lines, addressStyle.Render(r.Text))
		default:
			lines = append(lines, narrativeStyle.Render(r.Text))
		}
	}
	return strings.Join(lines, "\n")
}
