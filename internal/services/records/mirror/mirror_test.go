package mirror

import (
	"context"
	"errors"
	"testing"
	"time"

	perr "pestwatch/internal/platform/errors"
	"pestwatch/internal/platform/store"
	"pestwatch/internal/services/records/domain"
)

type fakeCH struct {
	table string
	rows  [][]any
	err   error
}

func (f *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	f.table, f.rows = table, rows
	return f.err
}
func (f *fakeCH) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (f *fakeCH) Close() error                                              { return nil }

func TestInsert_Rows(t *testing.T) {
	t.Parallel()
	f := &fakeCH{}
	m := Mirror{CH: f}
	at := time.Date(2025, 2, 3, 4, 5, 6, 0, time.FixedZone("AEST", 10*3600))

	err := m.Insert(context.Background(),
		domain.Detection{ID: "D1", Species: "cane toad", Location: "Cairns QLD", Confidence: 0.9, CreatedAt: at},
		domain.Detection{ID: "D2"},
	)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if f.table != Table || len(f.rows) != 2 {
		t.Fatalf("got table=%q rows=%d", f.table, len(f.rows))
	}
	if got := f.rows[0][4].(time.Time); got.Location() != time.UTC || !got.Equal(at) {
		t.Fatalf("created_at should be normalized to UTC, got %v", got)
	}
}

func TestInsert_NoopAndErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	if err := (Mirror{}).Insert(ctx, domain.Detection{ID: "D1"}); err != nil {
		t.Fatalf("nil CH: %v", err)
	}
	if (Mirror{}).Enabled() {
		t.Fatalf("zero Mirror should be disabled")
	}

	f := &fakeCH{}
	if err := (Mirror{CH: f}).Insert(ctx); err != nil || f.rows != nil {
		t.Fatalf("empty batch should not reach clickhouse")
	}

	f.err = errors.New("boom")
	err := Mirror{CH: f}.Insert(ctx, domain.Detection{ID: "D1"})
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("want DB error, got %v", err)
	}
}
