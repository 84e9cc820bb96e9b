package api

import (
	"github.com/curator-io/curator/internal/config"
	"github.com/curator-io/curator/internal/infrastructure"
	"github.com/curator-io/curator/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	AppID      string
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Analytics: infra.Analytics,
		},
		AppID:      cfg.API.AppID,
		Pagination: cfg.API.Pagination,
	}
}
