package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	loc := time.FixedZone("KST", 9*60*60)
	log := New(&buf, "info", loc)

	log.Info().Str("component", "test").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "test", entry["component"])

	ts, ok := entry["ts"].(string)
	require.True(t, ok)
	assert.Contains(t, ts, "+09:00")
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", time.UTC)

	log.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("kept")
	assert.NotZero(t, buf.Len())
}

func TestNew_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "chatty", nil)

	log.Debug().Msg("dropped")
	assert.Zero(t, buf.Len())

	log.Info().Msg("kept")
	assert.NotZero(t, buf.Len())
}
