package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GO2GETHER_PLANNER/internal/models"
)

func TestEncodeWireFormat(t *testing.T) {
	b, err := Encode(models.Document{Runs: []models.Run{
		{Text: "Day 1", Style: models.StyleHeading},
		{Text: "Address: 1 Main St", Style: models.StyleAddress, Link: "https://maps.example/1"},
	}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"runs":[
		{"text":"Day 1","style":"heading"},
		{"text":"Address: 1 Main St","style":"address","link":"https://maps.example/1"}
	]}`, string(b))
}

func TestDecodeRoundTrip(t *testing.T) {
	doc := Format(sampleReply)
	b, err := Encode(doc)
	require.NoError(t, err)

	back, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, doc, back)
}

func TestDecodeUnknownStyleBecomesNarrative(t *testing.T) {
	doc, err := Decode([]byte(`{"version":1,"runs":[{"text":"hi","style":"sparkle"}]}`))
	require.NoError(t, err)
	assert.Equal(t, []models.Run{{Text: "hi", Style: models.StyleNarrative}}, doc.Runs)
}

func TestDecodeRejectsNewerVersion(t *testing.T) {
	_, err := Decode([]byte(`{"version":2,"runs":[]}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestNormalizeFillsAddressLink(t *testing.T) {
	doc := Normalize(models.Document{Runs: []models.Run{{Text: "1 Main St", Style: models.StyleAddress}}})
	assert.Equal(t, CurrentVersion, doc.Version)
	assert.Equal(t, MapsLink("1 Main St"), doc.Runs[0].Link)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(models.Document{Version: 1, Runs: []models.Run{{Text: "x", Style: models.StyleBullet}}}))
	assert.Error(t, Validate(models.Document{Runs: []models.Run{{Style: models.StyleBullet}}}))
	assert.ErrorIs(t, Validate(models.Document{Version: 9}), ErrUnsupportedVersion)
}
