package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("bogus"))
}

func TestComponentLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Service: "farmacia-api", Out: &buf})

	l.Debug().Msg("oculto")
	log := l.Component("recorder")
	log.Info().Str("location_id", "STR002").Msg("venta registrada")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "farmacia-api", entry["service"])
	assert.Equal(t, "recorder", entry["component"])
	assert.Equal(t, "STR002", entry["location_id"])
	assert.Equal(t, "venta registrada", entry["message"])
}
