package api

import (
	"fmt"

	"github.com/curator-io/curator/internal/assets"
	"github.com/curator-io/curator/pkg/docstore/postgres"
	"github.com/curator-io/curator/pkg/resource"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Assets assets.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	store := postgres.New(runtime.Database.Connection())

	var stats resource.StatsSource
	if runtime.Analytics != nil {
		stats = runtime.Analytics
	}

	assetsSystem, err := assets.New(
		store,
		runtime.AppID,
		stats,
		runtime.Logger,
		runtime.Pagination,
	)
	if err != nil {
		return nil, fmt.Errorf("assets system init failed: %w", err)
	}

	return &Domain{
		Assets: assetsSystem,
	}, nil
}
