package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/fleet-engine/config"
	"github.com/warp/fleet-engine/generic"
	"github.com/warp/fleet-engine/roster"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "fleet.db", cfg.DBPath)
	assert.Equal(t, time.Hour, cfg.AlertInterval)
	assert.True(t, cfg.AlertEnabled)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:8080"}, cfg.AllowedOrigins)

	rc, err := cfg.RosterConfig()
	require.NoError(t, err)
	assert.Equal(t, roster.DefaultConfig(), rc)
}

func TestLoad_EnvironmentAndFlags(t *testing.T) {
	// GIVEN: environment overrides
	t.Setenv("FLEET_PORT", "9090")
	t.Setenv("FLEET_DB_PATH", "/tmp/env.db")
	t.Setenv("FLEET_ENV", "production")
	t.Setenv("FLEET_ALERT_INTERVAL", "15m")
	t.Setenv("FLEET_ANCHOR_CODE", "RP01/2024")
	t.Setenv("FLEET_ANCHOR_START", "2024-01-06")

	// WHEN: a flag overrides the port
	cfg, err := config.Load([]string{"-port", "3000"})
	require.NoError(t, err)

	// THEN: flags win, env fills the rest
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
	assert.Equal(t, 15*time.Minute, cfg.AlertInterval)
	assert.True(t, cfg.IsProduction())

	rc, err := cfg.RosterConfig()
	require.NoError(t, err)
	assert.Equal(t, 1, rc.Anchor.Number)
	assert.Equal(t, 2024, rc.Anchor.Year)
	assert.True(t, rc.Anchor.Start.Equal(generic.NewTimePoint(2024, time.January, 6)))
}

func TestLoad_RejectsBadAnchor(t *testing.T) {
	t.Setenv("FLEET_ANCHOR_CODE", "RP14/2025")

	_, err := config.Load(nil)

	assert.ErrorIs(t, err, roster.ErrInvalidCodeFormat)
}

func TestLoad_RejectsBadAnchorDate(t *testing.T) {
	t.Setenv("FLEET_ANCHOR_START", "08/11/2025")

	_, err := config.Load(nil)

	assert.Error(t, err)
}

func TestLoad_RejectsBadPort(t *testing.T) {
	_, err := config.Load([]string{"-port", "0"})
	assert.Error(t, err)
}
