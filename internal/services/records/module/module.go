// Package module owns the record store and exposes it to the api modules
package module

import (
	"context"

	"pestwatch/internal/modkit"
	"pestwatch/internal/modkit/httpkit"
	"pestwatch/internal/modkit/repokit"
	"pestwatch/internal/platform/logger"
	"pestwatch/internal/services/records/domain"
	"pestwatch/internal/services/records/memory"
	"pestwatch/internal/services/records/repo"
)

// Ports holds the ports exposed by the records module
type Ports struct {
	Store domain.Store
}

// Module defines the records module
type Module struct {
	deps   modkit.Deps
	driver string
	ports  Ports
}

// New picks the store driver; postgres without a pool falls back to memory
func New(deps modkit.Deps, overrides Options) *Module {
	opts := FromConfig(deps.Cfg)
	if overrides.Driver != "" {
		opts.Driver = overrides.Driver
	}

	m := &Module{deps: deps, driver: opts.Driver}
	switch {
	case opts.Driver == DriverPostgres && deps.PG != nil:
		m.ports = Ports{Store: repo.NewStore(deps.PG)}
	default:
		if opts.Driver == DriverPostgres {
			logger.Named("records").Warn().Msg("postgres driver selected without a pool, using memory store")
		}
		m.driver = DriverMemory
		m.ports = Ports{Store: memory.New()}
	}
	return m
}

// Migrate applies the postgres schema when the driver is postgres and migration is on
func Migrate(ctx context.Context, opts Options, q repokit.Queryer) error {
	if opts.Driver != DriverPostgres || !opts.Migrate || q == nil {
		return nil
	}
	return repo.Migrate(ctx, q)
}

// Driver reports the driver in use
func (m *Module) Driver() string { return m.driver }

// Ports returns the module ports (Store)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "records" }

// Prefix returns the module route prefix (none, records has no routes)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
