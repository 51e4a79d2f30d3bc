// Package ch wraps the clickhouse native driver for the detection mirror
package ch

import (
	"context"
	"errors"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures the clickhouse connection
type Config struct {
	URL  string
	Role string
}

// Rows is the minimal result set iteration for ch
// driver.Rows satisfies it
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// ErrNotConnected is returned when a CH value was built without Open
var ErrNotConnected = errors.New("ch: not connected")

// CH wraps a clickhouse-go native connection
type CH struct {
	conn driver.Conn
}

// seam for tests
var openConn = clickhouse.Open

// Open parses the DSN and prepares a lazy connection pool
// no round trip happens until the first query or Ping
func Open(_ context.Context, cfg Config) (*CH, error) {
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, err
	}
	opts.ClientInfo = clientInfo(cfg.Role)
	conn, err := openConn(opts)
	if err != nil {
		return nil, err
	}
	return &CH{conn: conn}, nil
}

// Insert appends rows to table using a native batch
// each row must match the table column order
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	if c == nil || c.conn == nil {
		return ErrNotConnected
	}
	b, err := c.conn.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := b.Append(r...); err != nil {
			_ = b.Abort()
			return err
		}
	}
	return b.Send()
}

// Query runs a query and returns ch.Rows
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if c == nil || c.conn == nil {
		return nil, ErrNotConnected
	}
	return c.conn.Query(ctx, sql, args...)
}

// Ping checks server reachability
func (c *CH) Ping(ctx context.Context) error {
	if c == nil || c.conn == nil {
		return ErrNotConnected
	}
	return c.conn.Ping(ctx)
}

// Close closes resources
func (c *CH) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
