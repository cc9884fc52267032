package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Backends
const (
	BackendSimulator = "simulator"
	BackendHost      = "host"
)

// Config holds all pipctl configuration.
type Config struct {
	Platform PlatformConfig
	Session  SessionConfig
	Logging  LogConfig
}

// PlatformConfig selects where picture-in-picture is presented.
type PlatformConfig struct {
	Backend  string `envconfig:"PIPCTL_BACKEND" default:"simulator"`
	Device   string `envconfig:"PIPCTL_DEVICE"`
	BundleID string `envconfig:"PIPCTL_BUNDLE_ID"`
}

// SessionConfig tunes the session coordinator.
type SessionConfig struct {
	ConfigureTimeout time.Duration `envconfig:"PIPCTL_CONFIGURE_TIMEOUT" default:"0s"`
	MetricsAddr      string        `envconfig:"PIPCTL_METRICS_ADDR"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"warn"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables. Callers run Validate
// once flag overrides are applied.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Platform: PlatformConfig{
			Backend: BackendSimulator,
		},
		Logging: LogConfig{
			Level: "warn",
		},
	}
}

// Validate rejects values envconfig cannot check on its own.
func (c *Config) Validate() error {
	switch c.Platform.Backend {
	case BackendSimulator, BackendHost:
	default:
		return fmt.Errorf("unknown backend %q (valid: %s, %s)", c.Platform.Backend, BackendSimulator, BackendHost)
	}
	if c.Session.ConfigureTimeout < 0 {
		return fmt.Errorf("configure timeout must not be negative: %s", c.Session.ConfigureTimeout)
	}
	return nil
}
