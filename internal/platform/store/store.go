// Package store opens the optional postgres and clickhouse backends
// and exposes them behind small query interfaces
package store

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"pestwatch/internal/platform/logger"

	"github.com/rs/zerolog"
)

// Store holds the opened backends
// the zero value has none and Close is a no op
type Store struct {
	// Log receives connection and statement logs
	Log logger.Logger

	// PG is the postgres sql seam, nil when disabled
	PG TxRunner

	// CH is the clickhouse seam, nil when disabled
	CH Clickhouse
}

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes the minimal iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag is a tiny interface to inspect command results
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the read and write surface repos use for sql
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner wraps transaction execution around a function
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is a tiny seam for columnar writes and queries
type Clickhouse interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Open brings up the backends enabled in cfg
// disabled backends stay nil, backends installed by options are kept as is, and a
// backend opened before a later failure is closed
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Log: zerolog.Nop()}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	if cfg.PG.Enabled && s.PG == nil {
		p, err := openPG(ctx, cfg.PG, s.Log)
		if err != nil {
			return nil, fmt.Errorf("pg: %w", err)
		}
		s.PG = p
	}

	if cfg.CH.Enabled && s.CH == nil {
		c, err := openCH(ctx, cfg.CH)
		if err != nil {
			_ = s.Close(ctx)
			return nil, fmt.Errorf("ch: %w", err)
		}
		s.CH = c
	}

	s.Log.Info().Str("app", cfg.AppName).Bool("pg", s.PG != nil).Bool("ch", s.CH != nil).Msg("store opened")
	return s, nil
}

// Guard pings each open backend that supports it
// failures are joined and prefixed with the backend name
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	for name, b := range s.backends() {
		p, ok := b.(Pinger)
		if !ok {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Close releases every open backend, clickhouse first
func (s *Store) Close(_ context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// backends yields the open backends in a fixed order
func (s *Store) backends() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if s.PG != nil && !yield("pg", s.PG) {
			return
		}
		if s.CH != nil {
			yield("ch", s.CH)
		}
	}
}
