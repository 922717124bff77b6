package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Format: "json"}, &buf)

	logger.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn().Str("component", "test").Msg("shown")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, "shown", entry["message"])
}

func TestNewDefaultsToInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, New(Config{}, &bytes.Buffer{}).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New(Config{Level: "loud"}, &bytes.Buffer{}).GetLevel())
	assert.Equal(t, zerolog.DebugLevel, New(Config{Level: "DEBUG"}, &bytes.Buffer{}).GetLevel())
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Format: "console"}, &buf)
	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"message"`)
}
