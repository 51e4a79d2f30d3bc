package modkit

import (
	phttp "pestwatch/internal/platform/net/http"
	str "pestwatch/internal/platform/strings"
)

// Module is the common surface for API modules that can mount routes and expose ports
type Module interface {
	// MountRoutes mounts HTTP routes under the provided router seam
	MountRoutes(r phttp.Router)
	// Ports returns the module's port set for cross wiring
	Ports() any
	// Name returns the module name
	Name() string
}

// Base is the Module most services return: their routes mounted under the
// built prefix behind the built middleware
type Base struct {
	b      Built
	ports  any
	routes func(phttp.Router)
}

// NewBase binds a Built to the ports and routes a module exposes
func NewBase(b Built, ports any, routes func(phttp.Router)) *Base {
	return &Base{b: b, ports: ports, routes: routes}
}

// Name panics when no name was built, modules must always have one
func (m *Base) Name() string { return str.MustString(m.b.Name, "module name") }

// Prefix returns the normalized mount prefix
func (m *Base) Prefix() string { return str.MustPrefix(m.b.Prefix) }

// Ports returns the module's port set
func (m *Base) Ports() any { return m.ports }

// MountRoutes mounts the module's routes under its prefix
func (m *Base) MountRoutes(r phttp.Router) {
	r.Route(m.Prefix(), func(rr phttp.Router) {
		rr.Use(m.b.Mw...)
		if m.routes != nil {
			m.routes(rr)
		}
	})
}
