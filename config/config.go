// Package config loads server settings from FLEET_* environment variables,
// with command-line flags taking precedence.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/warp/fleet-engine/generic"
	"github.com/warp/fleet-engine/roster"
)

// EnvPrefix is prepended to every variable name, e.g. FLEET_PORT.
const EnvPrefix = "FLEET"

// Config holds runtime configuration for the server.
type Config struct {
	Env       string `envconfig:"ENV" default:"development"`
	Port      int    `envconfig:"PORT" default:"8080"`
	DBPath    string `envconfig:"DB_PATH" default:"fleet.db"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`

	AlertInterval time.Duration `envconfig:"ALERT_INTERVAL" default:"1h"`
	AlertEnabled  bool          `envconfig:"ALERT_ENABLED" default:"true"`

	// The roster anchor: one period code and the date it starts on.
	AnchorCode  string `envconfig:"ANCHOR_CODE" default:"RP13/2025"`
	AnchorStart string `envconfig:"ANCHOR_START" default:"2025-11-08"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:8080"`
	RateLimit      int      `envconfig:"RATE_LIMIT" default:"120"` // requests per minute per IP, 0 disables
}

// Load reads the environment, then applies flags parsed from args
// (normally os.Args[1:]).
func Load(args []string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, `SQLite database path (":memory:" for in-memory)`)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if _, err := cfg.RosterConfig(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction returns true when the server runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.Env == "production"
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// RosterConfig builds the roster calendar from the anchor settings.
func (c *Config) RosterConfig() (roster.Config, error) {
	number, year, err := roster.ParseCode(c.AnchorCode)
	if err != nil {
		return roster.Config{}, fmt.Errorf("FLEET_ANCHOR_CODE: %w", err)
	}
	start, err := generic.ParseDate(c.AnchorStart)
	if err != nil {
		return roster.Config{}, fmt.Errorf("FLEET_ANCHOR_START: %w", err)
	}

	rc := roster.DefaultConfig()
	rc.Anchor = roster.Anchor{Number: number, Year: year, Start: start}
	if err := rc.Validate(); err != nil {
		return roster.Config{}, err
	}
	return rc, nil
}
