package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/warp/fleet-engine/logging"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"Error":   zapcore.ErrorLevel,
		"verbose": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, logging.ParseLevel(in), in)
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWithWriter("info", logging.FormatJSON, &buf)

	log.Debug("hidden")
	log.Info("period resolved", zap.String("code", "RP12/2026"))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "period resolved", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "RP12/2026", entry["code"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWithWriter("debug", logging.FormatConsole, &buf)

	log.Debug("scan started")
	require.NoError(t, log.Sync())

	assert.Contains(t, buf.String(), "scan started")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
