package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GO2GETHER_PLANNER/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestJSONLoggerCarriesServiceAttr(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LogConfig{Level: "info", Format: "json"})
	logger.Info("itinerary generated", "trip_id", "t-1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "go2gether-planner", line["service"])
	assert.Equal(t, "t-1", line["trip_id"])
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LogConfig{Level: "info", Format: "text"})
	logger.Debug("hidden")
	assert.Empty(t, buf.String())
}
