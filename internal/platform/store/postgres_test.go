package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakePgxRows struct {
	pgx.Rows
	fields []pgconn.FieldDescription
}

func (f fakePgxRows) FieldDescriptions() []pgconn.FieldDescription { return f.fields }

type fakePgx struct {
	tag  pgconn.CommandTag
	rows pgx.Rows
	err  error
}

func (f fakePgx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return f.tag, f.err
}

func (f fakePgx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return f.rows, f.err
}

func (f fakePgx) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func TestQuerier_ExecPassesTag(t *testing.T) {
	t.Parallel()

	q := querier{fakePgx{tag: pgconn.NewCommandTag("UPDATE 2")}}
	tag, err := q.Exec(context.Background(), "UPDATE verifications SET status = $1", "verified")
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if tag.RowsAffected() != 2 || tag.String() != "UPDATE 2" {
		t.Fatalf("tag = %s", tag)
	}
}

func TestQuerier_QueryColumns(t *testing.T) {
	t.Parallel()

	q := querier{fakePgx{rows: fakePgxRows{fields: []pgconn.FieldDescription{{Name: "pred_id"}, {Name: "status"}}}}}
	rs, err := q.Query(context.Background(), "SELECT pred_id, status FROM verifications")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	cols := rs.Columns()
	if len(cols) != 2 || cols[0] != "pred_id" || cols[1] != "status" {
		t.Fatalf("columns = %v", cols)
	}
}

func TestQuerier_QueryError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	rs, err := querier{fakePgx{err: boom}}.Query(context.Background(), "SELECT 1")
	if !errors.Is(err, boom) || rs != nil {
		t.Fatalf("rs=%v err=%v", rs, err)
	}
}

func TestPostgres_NilPool(t *testing.T) {
	t.Parallel()

	var p *postgres
	if err := p.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping error on nil adapter")
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close on nil adapter = %v", err)
	}
}
