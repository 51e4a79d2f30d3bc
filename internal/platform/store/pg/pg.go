// Package pg opens the pgx pool behind the records store
package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Config configures the pool and statement tracing
type Config struct {
	URL      string
	MaxConns int32

	// LogSQL logs every statement at debug level
	LogSQL bool
	// SlowQuery logs statements at or above this duration at warn level, zero disables
	SlowQuery time.Duration
	Log       zerolog.Logger
}

var newPool = pgxpool.NewWithConfig

// Open builds a lazy pool, no connection is made until first use
func Open(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.LogSQL || cfg.SlowQuery > 0 {
		pcfg.ConnConfig.Tracer = NewTracer(cfg.Log, cfg.LogSQL, cfg.SlowQuery)
	}
	return newPool(ctx, pcfg)
}
