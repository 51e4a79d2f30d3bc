package store

import (
	"context"
	"fmt"
	"time"

	"pestwatch/internal/platform/logger"
	"pestwatch/internal/platform/store/ch"
	"pestwatch/internal/platform/store/pg"

	"github.com/cenkalti/backoff/v4"
)

// startup ping backoff bounds
var (
	pingInitialInterval = 150 * time.Millisecond
	pingMaxInterval     = 2 * time.Second
)

// openPG opens the pool and blocks until it answers a ping
// the pool is closed again when every attempt fails
func openPG(ctx context.Context, cfg PGConfig, log logger.Logger) (*postgres, error) {
	pool, err := pg.Open(ctx, pg.Config{
		URL:       cfg.URL,
		MaxConns:  cfg.MaxConns,
		LogSQL:    cfg.LogSQL,
		SlowQuery: cfg.SlowQuery,
		Log:       log,
	})
	if err != nil {
		return nil, err
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = pingInitialInterval
	eb.MaxInterval = pingMaxInterval
	eb.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, cfg.retries()), ctx)

	attempts := 0
	ping := func() error {
		attempts++
		pctx, cancel := context.WithTimeout(ctx, cfg.pingTimeout())
		defer cancel()
		return pool.Ping(pctx)
	}
	notify := func(err error, next time.Duration) {
		log.Warn().Err(err).Int("attempt", attempts).Dur("retry_in", next).Msg("postgres not ready")
	}
	if err := backoff.RetryNotify(ping, policy, notify); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, err)
	}
	return newPostgres(pool), nil
}

func openCH(ctx context.Context, cfg CHConfig) (*clickhouse, error) {
	c, err := ch.Open(ctx, ch.Config{URL: cfg.URL, Role: cfg.Role})
	if err != nil {
		return nil, err
	}
	return &clickhouse{c}, nil
}
