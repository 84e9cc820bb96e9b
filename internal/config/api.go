package config

import (
	"fmt"
	"os"

	"github.com/curator-io/curator/pkg/middleware"
	"github.com/curator-io/curator/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "CURATOR_CORS_ENABLED",
	Origins:          "CURATOR_CORS_ORIGINS",
	AllowedMethods:   "CURATOR_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "CURATOR_CORS_ALLOWED_HEADERS",
	AllowCredentials: "CURATOR_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "CURATOR_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "CURATOR_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "CURATOR_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, tenant scoping, CORS, and pagination settings.
type APIConfig struct {
	BasePath   string                `toml:"base_path"`
	AppID      string                `toml:"app_id"`
	CORS       middleware.CORSConfig `toml:"cors"`
	Pagination pagination.Config     `toml:"pagination"`
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.AppID != "" {
		c.AppID = overlay.AppID
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("CURATOR_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("CURATOR_API_APP_ID"); v != "" {
		c.AppID = v
	}
}
