// Package module wires listings into the API using modkit
package module

import (
	modkit "pestwatch/internal/modkit"
	"pestwatch/internal/modkit/httpkit"
	"pestwatch/internal/platform/net/middleware"
	"pestwatch/internal/services/api/listings/domain"
	listingshttp "pestwatch/internal/services/api/listings/http"
	listingssvc "pestwatch/internal/services/api/listings/service"
	records "pestwatch/internal/services/records/domain"
	"pestwatch/internal/services/records/mirror"
)

// Ports declares what the api injects into this module
type Ports struct {
	Store records.Store
	Auth  middleware.AuthPort
	Hooks []domain.IngestHook
}

// New constructs the listings module; it panics without a Store
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("listings"),
		modkit.WithPrefix("/listings"),
	}, opts...)...)

	injected, _ := modkit.Injected[Ports](b)
	if injected.Store == nil {
		panic("listings API module requires a records Store port (from services/records)")
	}

	cfg := FromConfig(deps.Cfg)
	svc := listingssvc.New(injected.Store, listingssvc.Options{
		MaxLimit: cfg.MaxLimit,
		Mirror:   mirror.Mirror{CH: deps.CH},
		Hooks:    injected.Hooks,
	})

	return modkit.NewBase(b, adaptListingsPort{svc: svc}, func(r httpkit.Router) {
		listingshttp.Register(r, svc, injected.Auth)
	})
}
