package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GO2GETHER_PLANNER/internal/models"
)

const structuredReply = `{
  "days": [
    {
      "title": "Day 1: Alfama",
      "items": [
        {"kind": "breakfast", "time": "8:00 AM", "name": "Pastéis de Belém", "address": "R. de Belém 84-92, Lisboa"},
        {"kind": "activity", "time": "10:00 AM", "name": "São Jorge Castle", "description": "Arrive early to beat the queues."}
      ]
    }
  ],
  "notes": ["Trams get crowded after noon."]
}`

func TestParseStructuredValidReply(t *testing.T) {
	doc, ok := ParseStructured(structuredReply)
	require.True(t, ok)

	assert.Equal(t, []models.Run{
		{Text: "Day 1: Alfama", Style: models.StyleHeading},
		{Text: "8:00 AM Breakfast: Pastéis de Belém", Style: models.StyleBullet},
		{Text: "Address: R. de Belém 84-92, Lisboa", Style: models.StyleAddress, Link: MapsLink("R. de Belém 84-92, Lisboa")},
		{Text: "10:00 AM São Jorge Castle", Style: models.StyleBullet},
		{Text: "Arrive early to beat the queues.", Style: models.StyleNarrative},
		{Text: "Trams get crowded after noon.", Style: models.StyleNarrative},
	}, doc.Runs)
}

func TestParseStructuredAcceptsCodeFence(t *testing.T) {
	_, ok := ParseStructured("```json\n" + structuredReply + "\n```")
	assert.True(t, ok)
}

func TestParseStructuredFallsBackToText(t *testing.T) {
	tests := map[string]string{
		"plain text":     "**Day 1**\n- Museum",
		"missing days":   `{"notes": ["x"]}`,
		"unknown kind":   `{"days":[{"title":"D1","items":[{"kind":"brunch","name":"x"}]}]}`,
		"too many days":  `{"days":[` + repeatDay(8) + `]}`,
		"truncated JSON": `{"days": [`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			doc, ok := ParseStructured(raw)
			assert.False(t, ok)
			assert.Equal(t, Format(raw), doc)
		})
	}
}

func repeatDay(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			s += ","
		}
		s += `{"title":"D","items":[]}`
	}
	return s
}

func TestGeneratorSchemaCompiles(t *testing.T) {
	sch, err := generatorSchema()
	require.NoError(t, err)
	assert.NotNil(t, sch)
}
