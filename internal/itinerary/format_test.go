package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GO2GETHER_PLANNER/internal/models"
)

const sampleReply = `**Day 1: Old Town**
- 8:00 AM Breakfast at Café A Brasileira
- Address: Rua Garrett 120, 1200-273 Lisboa
Enjoy the view from the Miradouro.

- **Lunch**: Time Out Market
### Day 2
`

func TestFormatClassifiesLines(t *testing.T) {
	doc := Format(sampleReply)

	require.Len(t, doc.Runs, 6)
	assert.Equal(t, CurrentVersion, doc.Version)
	assert.Equal(t, models.Run{Text: "Day 1: Old Town", Style: models.StyleHeading}, doc.Runs[0])
	assert.Equal(t, models.Run{Text: "8:00 AM Breakfast at Café A Brasileira", Style: models.StyleBullet}, doc.Runs[1])
	assert.Equal(t, models.Run{
		Text:  "Address: Rua Garrett 120, 1200-273 Lisboa",
		Style: models.StyleAddress,
		Link:  "https://www.google.com/maps/search/?api=1&query=Rua+Garrett+120%2C+1200-273+Lisboa",
	}, doc.Runs[2])
	assert.Equal(t, models.Run{Text: "Enjoy the view from the Miradouro.", Style: models.StyleNarrative}, doc.Runs[3])
	assert.Equal(t, models.Run{Text: "Lunch: Time Out Market", Style: models.StyleBullet}, doc.Runs[4])
	assert.Equal(t, models.Run{Text: "Day 2", Style: models.StyleHeading}, doc.Runs[5])
}

func TestFormatEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\n\t\n", "\r\n"} {
		doc := Format(in)
		assert.True(t, doc.Empty(), "input %q", in)
		assert.NotNil(t, doc.Runs)
	}
}

func TestFormatWithoutMarkersIsNarrative(t *testing.T) {
	doc := Format("just some text\nand another line")
	require.Len(t, doc.Runs, 2)
	for _, r := range doc.Runs {
		assert.Equal(t, models.StyleNarrative, r.Style)
	}
}

func TestFormatDegenerateMarkers(t *testing.T) {
	tests := []struct {
		line  string
		style models.Style
	}{
		{"****", models.StyleNarrative},
		{"**  **", models.StyleNarrative},
		{"*****", models.StyleNarrative},
		{"********", models.StyleNarrative},
		{"** * **", models.StyleNarrative},
		{"# ***", models.StyleNarrative},
		{"***Day 2***", models.StyleHeading},
		{"-", models.StyleNarrative},
		{"- **", models.StyleNarrative},
		{"#", models.StyleNarrative},
		{"- Address:", models.StyleBullet},
		{"-no space", models.StyleNarrative},
		{"**Day 3**", models.StyleHeading},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			doc := Format(tt.line)
			require.Len(t, doc.Runs, 1)
			assert.Equal(t, tt.style, doc.Runs[0].Style)
			assert.NotEmpty(t, doc.Runs[0].Text)
		})
	}
}

func TestFormatHandlesCRLF(t *testing.T) {
	doc := Format("**Day 1**\r\n- Museum\r\n")
	require.Len(t, doc.Runs, 2)
	assert.Equal(t, "Day 1", doc.Runs[0].Text)
	assert.Equal(t, "Museum", doc.Runs[1].Text)
}
