//go:build integration_pg

package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	perr "pestwatch/internal/platform/errors"

	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres launches a disposable Postgres and returns DSN + stop func
func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mp.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

func openTestPG(t *testing.T, ctx context.Context, dsn string) *postgres {
	t.Helper()
	p, err := openPG(ctx, PGConfig{URL: dsn, MaxConns: 2, LogSQL: true}, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("openPG: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestPostgres_Integration_Helpers(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()
	p := openTestPG(t, ctx, dsn)

	if _, err := p.Exec(ctx, `CREATE TABLE detections (pred_id TEXT PRIMARY KEY, category TEXT NOT NULL)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := ExecOne(ctx, p, `INSERT INTO detections VALUES ($1, $2), ($3, $4)`, "p1", "rodent", "p2", "insect"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	n, err := Scalar[int64](ctx, p, `SELECT count(*) FROM detections`)
	if err != nil || n != 2 {
		t.Fatalf("count = %d err = %v", n, err)
	}

	scan := func(r Row) (string, error) {
		var id string
		return id, r.Scan(&id)
	}
	ids, err := Many(ctx, p, scan, `SELECT pred_id FROM detections ORDER BY pred_id`)
	if err != nil || len(ids) != 2 || ids[0] != "p1" {
		t.Fatalf("ids = %v err = %v", ids, err)
	}
	if _, err := One(ctx, p, scan, `SELECT pred_id FROM detections WHERE pred_id = $1`, "nope"); !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("missing row err = %v", err)
	}

	rs, err := p.Query(ctx, `SELECT pred_id, category FROM detections`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	cols := rs.Columns()
	rs.Close()
	if len(cols) != 2 || cols[1] != "category" {
		t.Fatalf("columns = %v", cols)
	}

	if err := p.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestPostgres_Integration_TxCommitAndRollback(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()
	p := openTestPG(t, ctx, dsn)

	if _, err := p.Exec(ctx, `CREATE TABLE tx_probe (val INT NOT NULL)`); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := p.Tx(ctx, func(q RowQuerier) error {
		_, err := q.Exec(ctx, `INSERT INTO tx_probe VALUES (10)`)
		return err
	}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	rollback := errors.New("rollback")
	err := p.Tx(ctx, func(q RowQuerier) error {
		if _, err := q.Exec(ctx, `INSERT INTO tx_probe VALUES (20)`); err != nil {
			return err
		}
		return rollback
	})
	if !errors.Is(err, rollback) {
		t.Fatalf("tx err = %v, want rollback", err)
	}

	vals, err := Many(ctx, p, func(r Row) (int, error) {
		var v int
		return v, r.Scan(&v)
	}, `SELECT val FROM tx_probe`)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(vals) != 1 || vals[0] != 10 {
		t.Fatalf("vals = %v, want [10]", vals)
	}
}
