// Package module wires meta endpoints into the API
package module

import (
	"time"

	"pestwatch/internal/core/version"
	modkit "pestwatch/internal/modkit"
	"pestwatch/internal/modkit/httpkit"
	metahttp "pestwatch/internal/services/api/meta/http"
)

// New constructs the meta module. Readiness probes postgres and clickhouse
// when they are configured
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	d := metahttp.Deps{
		ServiceName:  version.Service,
		StartedAt:    time.Now(),
		ProbeTimeout: deps.Cfg.MayDuration("META_PROBE_TIMEOUT", 2*time.Second),
	}
	// a disabled store is a nil interface and reports as skipped
	d.Backends = []metahttp.Backend{{Name: "pg", Conn: deps.PG}, {Name: "ch", Conn: deps.CH}}

	return modkit.NewBase(b, nil, func(r httpkit.Router) { metahttp.Register(r, d) })
}
