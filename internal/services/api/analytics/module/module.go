// Package module wires analytics into the API using modkit
package module

import (
	modkit "pestwatch/internal/modkit"
	"pestwatch/internal/modkit/httpkit"
	"pestwatch/internal/modkit/repokit"
	"pestwatch/internal/platform/cache"
	"pestwatch/internal/platform/logger"
	"pestwatch/internal/platform/net/middleware"
	analyticshttp "pestwatch/internal/services/api/analytics/http"
	analyticsrepo "pestwatch/internal/services/api/analytics/repo"
	analyticssvc "pestwatch/internal/services/api/analytics/service"
	records "pestwatch/internal/services/records/domain"
)

// Ports declares what the api injects into this module
type Ports struct {
	Store records.Store
}

// sqlBacked is satisfied by record stores living in postgres
type sqlBacked interface {
	DB() repokit.TxRunner
}

// aggregatesFor groups in SQL when the store is postgres and in process otherwise
func aggregatesFor(st records.Store) (analyticsrepo.Aggregates, string) {
	if db, ok := st.(sqlBacked); ok && db.DB() != nil {
		return analyticsrepo.Postgres{Q: db.DB()}, "postgres"
	}
	return analyticsrepo.Records{Repo: st}, "records"
}

// New constructs the analytics module; it panics without a Store
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	cfg := FromConfig(deps.Cfg)
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("analytics"),
		modkit.WithPrefix("/analytics"),
		modkit.WithMiddlewares(middleware.Throttle(cfg.MaxInFlight)),
	}, opts...)...)

	injected, _ := modkit.Injected[Ports](b)
	if injected.Store == nil {
		panic("analytics API module requires a records Store port (from services/records)")
	}

	c := cache.New(cfg.CacheTTL)
	c.OnLookup = deps.Metrics.ObserveCache

	agg, aggSource := aggregatesFor(injected.Store)

	var volume analyticsrepo.VolumeSource
	if cfg.VolumeSource == VolumeClickhouse {
		if deps.CH != nil {
			volume = analyticsrepo.Clickhouse{CH: deps.CH}
		} else {
			logger.Named("analytics").Warn().Msg("clickhouse volume source selected but clickhouse is disabled; scanning records")
		}
	}

	logger.Named("analytics").Debug().
		Dur("cache_ttl", c.TTL()).
		Str("aggregates", aggSource).
		Str("volume_source", cfg.VolumeSource).
		Int("max_in_flight", cfg.MaxInFlight).
		Msg("analytics configured")

	svc := analyticssvc.New(injected.Store, analyticssvc.Options{
		Location:     cfg.Location,
		TrackNotPest: cfg.TrackNotPest,
		Cache:        c,
		Aggregates:   agg,
		Volume:       volume,
		Metrics:      deps.Metrics,
	})

	return modkit.NewBase(b, adaptAnalyticsPort{svc: svc}, func(r httpkit.Router) {
		analyticshttp.Register(r, svc)
	})
}
