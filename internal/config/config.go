package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/curator-io/curator/internal/analytics"
	"github.com/curator-io/curator/pkg/database"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvCuratorEnv             = "CURATOR_ENV"
	EnvCuratorShutdownTimeout = "CURATOR_SHUTDOWN_TIMEOUT"
	EnvCuratorVersion         = "CURATOR_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "CURATOR_DB_HOST",
	Port:            "CURATOR_DB_PORT",
	Name:            "CURATOR_DB_NAME",
	User:            "CURATOR_DB_USER",
	Password:        "CURATOR_DB_PASSWORD",
	SSLMode:         "CURATOR_DB_SSL_MODE",
	MaxOpenConns:    "CURATOR_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "CURATOR_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "CURATOR_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "CURATOR_DB_CONN_TIMEOUT",
}

var analyticsEnv = &analytics.Env{
	BaseURL: "CURATOR_ANALYTICS_BASE_URL",
	Timeout: "CURATOR_ANALYTICS_TIMEOUT",
}

// Config is the root configuration for the Curator service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        database.Config  `toml:"database"`
	Analytics       analytics.Config `toml:"analytics"`
	API             APIConfig        `toml:"api"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the CURATOR_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvCuratorEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Analytics.Merge(&overlay.Analytics)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Analytics.Finalize(analyticsEnv); err != nil {
		return fmt.Errorf("analytics: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvCuratorShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvCuratorVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvCuratorEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
