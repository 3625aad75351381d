package itinerary

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTerminalKeepsOrder(t *testing.T) {
	out := RenderTerminal(Format(sampleReply))

	first := strings.Index(out, "Day 1: Old Town")
	addr := strings.Index(out, "Rua Garrett 120")
	second := strings.Index(out, "Day 2")
	require.True(t, first >= 0 && addr >= 0 && second >= 0, out)
	assert.Less(t, first, addr)
	assert.Less(t, addr, second)
	assert.Contains(t, out, "• ")
}

func TestRenderTerminalEmpty(t *testing.T) {
	assert.Equal(t, "", RenderTerminal(Format("")))
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	err := WritePDF(&buf, Format(sampleReply), PDFOptions{
		Title:    "Lisbon weekend",
		Subtitle: "March 1, 2025 to March 3, 2025",
		ShareURL: "https://go2gether.example/trips/123",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestWritePDFWithoutShareURL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, Format("just a note"), PDFOptions{Title: "Trip"}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
