package store

import (
	"errors"

	"pestwatch/internal/platform/logger"
)

// Option adjusts a Store before Open dials anything
type Option func(*Store) error

// WithLogger routes store logs through log under the store component
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log.With().Str("component", "store").Logger()
		return nil
	}
}

// WithPostgres installs an already open sql seam; Open then skips dialing postgres
func WithPostgres(db TxRunner) Option {
	return func(s *Store) error {
		if db == nil {
			return errors.New("store: WithPostgres needs a runner")
		}
		s.PG = db
		return nil
	}
}

// WithClickhouse installs an already open clickhouse seam; Open then skips dialing it
func WithClickhouse(ch Clickhouse) Option {
	return func(s *Store) error {
		if ch == nil {
			return errors.New("store: WithClickhouse needs a client")
		}
		s.CH = ch
		return nil
	}
}
