// Package api provides the HTTP API for the application
package api

import (
	"context"
	"strings"
	"sync"

	"pestwatch/internal/platform/config"
	"pestwatch/internal/platform/logger"
	"pestwatch/internal/platform/metrics"
	phttp "pestwatch/internal/platform/net/http"
	"pestwatch/internal/platform/net/middleware"
	"pestwatch/internal/platform/store"

	"pestwatch/internal/modkit"
	"pestwatch/internal/modkit/httpkit"
	"pestwatch/internal/modkit/module"
	"pestwatch/internal/modkit/swaggerkit"

	analyticsdom "pestwatch/internal/services/api/analytics/domain"
	analyticsmod "pestwatch/internal/services/api/analytics/module"
	listingsdom "pestwatch/internal/services/api/listings/domain"
	listingsmod "pestwatch/internal/services/api/listings/module"
	metamod "pestwatch/internal/services/api/meta/module"
	verifydom "pestwatch/internal/services/api/verify/domain"
	verifymod "pestwatch/internal/services/api/verify/module"

	// records module (owns the Store port)
	recordsmod "pestwatch/internal/services/records/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Metrics        *metrics.Metrics
	Records        recordsmod.Options
	Auth           middleware.AuthPort
	Stack          httpkit.StackOptions
	EnableSwagger  bool
	EnableProfiler bool
}

// GatewayAuth trusts the bearer value forwarded by the gateway as the caller id
func GatewayAuth() middleware.AuthPort {
	return httpkit.NewPortFunc(func(token string) (string, error) {
		return strings.TrimSpace(token), nil
	})
}

var docTagsOnce sync.Once

// docTags describes the module tags in the served OpenAPI document
func docTags(spec map[string]any) {
	spec["tags"] = []any{
		map[string]any{"name": "Verifications", "description": "Expert review of detections and the audit history"},
		map[string]any{"name": "Analytics", "description": "Category, coverage, volume and status aggregates"},
		map[string]any{"name": "Listings", "description": "Keyset pages over detections, verifications and history"},
		map[string]any{"name": "Meta", "description": "Health, readiness and build info"},
	}
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg:     opt.Config,
		Metrics: opt.Metrics,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
	}
	auth := opt.Auth
	if auth == nil {
		auth = GatewayAuth()
	}

	// Construct the records module first and extract its Store port
	records := recordsmod.New(deps, opt.Records)
	st := module.MustPortsOf[recordsmod.Ports](records).Store

	// analytics reads the store and exposes an Invalidator for writers
	analytics := analyticsmod.New(deps, modkit.WithPorts(analyticsmod.Ports{Store: st}))
	inv := module.MustPortsOf[analyticsdom.Invalidator](analytics)

	verify := verifymod.New(deps, modkit.WithPorts(verifymod.Ports{
		Store: st,
		Auth:  auth,
		Listeners: []verifydom.ChangeListener{
			func(context.Context, verifydom.ChangeEvent) { inv.Invalidate() },
		},
	}))

	listings := listingsmod.New(deps, modkit.WithPorts(listingsmod.Ports{
		Store: st,
		Auth:  auth,
		Hooks: []listingsdom.IngestHook{
			func(context.Context, string) { inv.Invalidate() },
		},
	}))

	mods := []module.Module{
		metamod.New(deps),
		records, // include records so its ports are registered
		verify,
		analytics,
		listings,
	}

	// process level endpoints
	r.Use(opt.Metrics.Middleware(), middleware.Heartbeat("/health"))
	r.Handle("/metrics", opt.Metrics.Handler())

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.Stack), func(api httpkit.Router) {
		// Swagger + profiler
		docTagsOnce.Do(func() { swaggerkit.Register(docTags) })
		swaggerkit.Mount(r, swaggerkit.Options{Enabled: opt.EnableSwagger})
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
