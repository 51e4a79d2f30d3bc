package store

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pestwatch/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestOpen_CHOnly_SetsCHAndLeavesOthersNil(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := Config{
		CH: CHConfig{
			Enabled: true,
			URL:     "clickhouse://127.0.0.1:1/default", // open is lazy, no dial happens
		},
	}

	s, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if s == nil {
		t.Fatalf("Open returned nil store")
	}

	// CH should be set; PG should still be nil
	if s.CH == nil {
		t.Fatalf("CH not initialized")
	}
	if s.PG != nil {
		t.Fatalf("unexpected seams set PG=%T", s.PG)
	}

	// Close should ignore nil seams and close CH without error
	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestOpen_PGEnabled_BadURL_BubblesError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := Config{
		PG: PGConfig{
			Enabled:  true,
			URL:      "://bad", // parse error inside pg.Open
			MaxConns: 1,
		},
	}

	s, err := Open(ctx, cfg)
	if err == nil {
		t.Fatalf("expected Open error for bad PG URL, got store=%#v", s)
	}
	if s != nil {
		t.Fatalf("expected nil store on error, got %#v", s)
	}
}

func TestOpen_NoBackends_LogsSummary(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var buf bytes.Buffer

	s, err := Open(ctx, Config{AppName: "pestwatch-test"}, WithLogger(zerolog.New(&buf)))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if s.PG != nil || s.CH != nil {
		t.Fatalf("no backend should be open: %+v", s)
	}
	if !strings.Contains(buf.String(), `"app":"pestwatch-test"`) {
		t.Fatalf("missing open summary: %s", buf.String())
	}
	if e := s.Close(ctx); e != nil {
		t.Fatalf("Close on empty store returned error: %v", e)
	}
}

func TestOpen_OptionError_Stops(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := Open(context.Background(), Config{}, func(*Store) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestOpen_PGUnreachable_GivesUpAfterRetries(t *testing.T) {
	testkit.Swap(t, &pingInitialInterval, time.Millisecond)
	testkit.Swap(t, &pingMaxInterval, 2*time.Millisecond)

	var buf bytes.Buffer
	cfg := Config{PG: PGConfig{
		Enabled:        true,
		URL:            "postgres://u:p@127.0.0.1:1/db?connect_timeout=1",
		ConnectRetries: 2,
		PingTimeout:    time.Second,
	}}

	_, err := Open(context.Background(), cfg, WithLogger(zerolog.New(&buf)))
	if err == nil {
		t.Fatalf("expected ping failure")
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Fatalf("err = %v", err)
	}
	if n := strings.Count(buf.String(), "postgres not ready"); n != 2 {
		t.Fatalf("retry warnings = %d, want 2: %s", n, buf.String())
	}
}

func TestOpen_PGCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Open(ctx, Config{PG: PGConfig{Enabled: true, URL: "postgres://u:p@127.0.0.1:1/db"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestPGConfig_Defaults(t *testing.T) {
	t.Parallel()

	var c PGConfig
	if c.retries() != 6 || c.pingTimeout() != 5*time.Second {
		t.Fatalf("defaults = %d %s", c.retries(), c.pingTimeout())
	}
	c = PGConfig{ConnectRetries: 1, PingTimeout: time.Second}
	if c.retries() != 1 || c.pingTimeout() != time.Second {
		t.Fatalf("overrides = %d %s", c.retries(), c.pingTimeout())
	}
}

func TestOpen_MultipleBackends_ErrShortCircuits(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := Config{
		PG: PGConfig{
			Enabled: true,
			URL:     "://bad", // will fail first
		},
		CH: CHConfig{
			Enabled: true,
			URL:     "clickhouse://127.0.0.1:1/default",
		},
	}

	s, err := Open(ctx, cfg)
	if err == nil {
		t.Fatalf("expected Open error on first failing backend")
	}
	if s != nil {
		t.Fatalf("expected nil store when Open fails early, got %#v", s)
	}
}

func TestOpen_CHEnabled_BadDSN_BubblesError(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), Config{CH: CHConfig{Enabled: true, URL: "://bad"}})
	if err == nil {
		t.Fatalf("expected Open error for bad CH DSN, got store=%#v", s)
	}
}
