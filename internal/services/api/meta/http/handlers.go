// Package http serves service metadata and the readiness probe
package http

import (
	"context"
	"net/http"
	"time"

	"pestwatch/internal/core/version"
	"pestwatch/internal/modkit/httpkit"

	"golang.org/x/sync/errgroup"
)

// Pinger is satisfied by backends that can be probed
type Pinger interface {
	Ping(context.Context) error
}

// Backend is one dependency readiness reports on. A nil Conn means disabled
type Backend struct {
	Name string
	Conn any
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName  string
	StartedAt    time.Time
	Backends     []Backend
	ProbeTimeout time.Duration // defaults to 2s
}

// Check states
const (
	CheckOK      = "ok"
	CheckFail    = "fail"
	CheckSkipped = "skipped"
	CheckUnknown = "unknown"
)

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"pestwatch-api"`
	Started string `json:"started"  example:"2025-09-03T13:00:00Z"`
	Now     string `json:"now"      example:"2025-09-03T13:05:00Z"`
}

// ReadyCheck is the outcome of probing one backend
type ReadyCheck struct {
	Name    string `json:"name"   example:"pg"`
	Status  string `json:"status" example:"ok"`
	Error   string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432: connect: connection refused"`
	Latency int64  `json:"latencyMs" example:"3"`
}

// ReadyResponse summarizes readiness: ok, degraded or fail
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2025-09-03T13:05:00Z"`
}

// ServiceResponse describes the running process
type ServiceResponse struct {
	Name    string `json:"name"    example:"pestwatch-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.ProbeTimeout <= 0 {
		d.ProbeTimeout = 2 * time.Second
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

// swagger:route GET /meta/health Meta metaHealth
// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness with a probe per backend
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok"
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.deps.ProbeTimeout)
	defer cancel()

	checks := make([]ReadyCheck, len(h.deps.Backends))
	var g errgroup.Group
	for i, b := range h.deps.Backends {
		g.Go(func() error {
			checks[i] = probe(ctx, b)
			return nil
		})
	}
	_ = g.Wait()

	return ReadyResponse{
		Status: overall(checks),
		Checks: checks,
		Now:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func probe(ctx context.Context, b Backend) ReadyCheck {
	c := ReadyCheck{Name: b.Name}
	if b.Conn == nil {
		c.Status = CheckSkipped
		return c
	}
	p, ok := b.Conn.(Pinger)
	if !ok {
		c.Status = CheckUnknown
		return c
	}
	start := time.Now()
	err := p.Ping(ctx)
	c.Latency = time.Since(start).Milliseconds()
	if err != nil {
		c.Status, c.Error = CheckFail, err.Error()
		return c
	}
	c.Status = CheckOK
	return c
}

// overall fails on any failed probe; a disabled backend does not degrade readiness
func overall(checks []ReadyCheck) string {
	status := CheckOK
	for _, c := range checks {
		switch c.Status {
		case CheckFail:
			return CheckFail
		case CheckUnknown:
			status = "degraded"
		}
	}
	return status
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// swagger:route GET /meta/service Meta metaService
// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse "ok"
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(time.Since(h.deps.StartedAt) / time.Second),
	}, nil
}
