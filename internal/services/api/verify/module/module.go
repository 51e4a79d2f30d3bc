// Package module wires verifications into the API using modkit
package module

import (
	"context"

	modkit "pestwatch/internal/modkit"
	"pestwatch/internal/modkit/httpkit"
	"pestwatch/internal/platform/net/middleware"
	"pestwatch/internal/services/api/verify/domain"
	verifyhttp "pestwatch/internal/services/api/verify/http"
	verifysvc "pestwatch/internal/services/api/verify/service"
	records "pestwatch/internal/services/records/domain"
)

// Ports declares what the api injects into this module
type Ports struct {
	Store     records.Store
	Auth      middleware.AuthPort
	Listeners []domain.ChangeListener
}

// New constructs the verify module; it panics without a Store
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("verify"),
		modkit.WithPrefix("/verifications"),
	}, opts...)...)

	injected, _ := modkit.Injected[Ports](b)
	if injected.Store == nil {
		panic("verify API module requires a records Store port (from services/records)")
	}

	listeners := append([]domain.ChangeListener{observe(deps)}, injected.Listeners...)
	svc := verifysvc.New(injected.Store, listeners...)

	return modkit.NewBase(b, adaptVerifyPort{svc: svc}, func(r httpkit.Router) {
		verifyhttp.Register(r, svc, injected.Auth)
	})
}

// observe counts committed writes by op and resulting status
func observe(deps modkit.Deps) domain.ChangeListener {
	return func(_ context.Context, ev domain.ChangeEvent) {
		deps.Metrics.ObserveVerification(ev.Op, string(ev.Status))
	}
}
