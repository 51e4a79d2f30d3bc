//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pestwatch/internal/platform/store"
	records "pestwatch/internal/services/records/domain"
	recordsrepo "pestwatch/internal/services/records/repo"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "pestwatch",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections"),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/pestwatch?sslmode=disable", host, port.Port())
}

func TestPostgres_Integration_MatchesRecords(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(ctx, store.Config{PG: store.PGConfig{Enabled: true, URL: startPostgres(t), MaxConns: 4}})
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	if err := recordsrepo.Migrate(ctx, st.PG); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	rs := recordsrepo.NewStore(st.PG)

	seed := []struct {
		id, loc string
		at      time.Time
		status  records.Status
		cat     records.Category
	}{
		{"D1", "Cairns QLD", time.Date(2025, 1, 31, 20, 0, 0, 0, time.UTC), records.StatusVerified, records.CategoryRealPest},
		{"D2", "Cairns QLD", time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), records.StatusPending, ""},
		{"D3", "Hobart TAS", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), records.StatusRejected, records.CategoryUnrelated},
	}
	for _, s := range seed {
		if err := rs.InsertDetection(ctx, records.Detection{ID: s.id, Location: s.loc, CreatedAt: s.at}); err != nil {
			t.Fatalf("detection %s: %v", s.id, err)
		}
		err := rs.InsertVerification(ctx, records.Verification{
			ID: "V-" + s.id, PredID: s.id, Status: s.status, VerifierID: "u1", Category: s.cat, Timestamp: s.at, CreatedAt: s.at,
		})
		if err != nil {
			t.Fatalf("verification %s: %v", s.id, err)
		}
	}

	east := time.FixedZone("Australia/Brisbane", 10*3600)
	loc, err := time.LoadLocation("Australia/Brisbane")
	if err == nil {
		east = loc
	}
	sql, mem := Postgres{Q: st.PG}, Records{Repo: rs}

	wantMonths, _ := mem.ByMonthCategory(ctx, 2025, east)
	gotMonths, err := sql.ByMonthCategory(ctx, 2025, east)
	if err != nil || fmt.Sprint(gotMonths) != fmt.Sprint(wantMonths) {
		t.Fatalf("months: sql=%v records=%v err=%v", gotMonths, wantMonths, err)
	}

	wantStatus, _ := mem.ByStatus(ctx)
	gotStatus, err := sql.ByStatus(ctx)
	if err != nil || fmt.Sprint(gotStatus) != fmt.Sprint(wantStatus) {
		t.Fatalf("status: sql=%v records=%v err=%v", gotStatus, wantStatus, err)
	}

	wantLoc, _ := mem.ByLocation(ctx)
	gotLoc, err := sql.ByLocation(ctx)
	if err != nil || fmt.Sprint(gotLoc) != fmt.Sprint(wantLoc) {
		t.Fatalf("location: sql=%v records=%v err=%v", gotLoc, wantLoc, err)
	}

	wantVol, _ := mem.MonthlyVolume(ctx, east)
	gotVol, err := sql.MonthlyVolume(ctx, east)
	if err != nil || fmt.Sprint(gotVol) != fmt.Sprint(wantVol) {
		t.Fatalf("volume: sql=%v records=%v err=%v", gotVol, wantVol, err)
	}
}
