package store

import (
	"context"

	"pestwatch/internal/platform/store/ch"
)

// clickhouse adapts *ch.CH to Clickhouse
type clickhouse struct{ *ch.CH }

var (
	_ Clickhouse = (*clickhouse)(nil)
	_ Pinger     = (*clickhouse)(nil)
)

func (c *clickhouse) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := c.CH.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{rs}, nil
}

// chRows drops the error from Close, driver rows report failures through Err
type chRows struct{ ch.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
