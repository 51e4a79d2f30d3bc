package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"pestwatch/internal/modkit/httpkit"
	phttp "pestwatch/internal/platform/net/http"
	"pestwatch/internal/services/api/analytics/domain"
)

type stubSvc struct {
	year  int
	query domain.VolumeQuery
}

func (s *stubSvc) CategoryCountsByMonth(_ context.Context, year int) ([]domain.MonthCategories, error) {
	s.year = year
	return make([]domain.MonthCategories, 12), nil
}
func (s *stubSvc) Coverage(context.Context) ([]domain.StateCoverage, error) {
	return []domain.StateCoverage{{State: "QLD", Name: "Queensland", Count: 1, Percentage: 100}}, nil
}
func (s *stubSvc) Volume(_ context.Context, q domain.VolumeQuery) ([]domain.VolumePoint, error) {
	s.query = q
	return []domain.VolumePoint{}, nil
}
func (s *stubSvc) Stats(context.Context) (domain.VeriStats, error) {
	return domain.VeriStats{Total: 3, Pending: 1, Verified: 1, Rejected: 1}, nil
}

func newRouter(s domain.ServicePort) stdhttp.Handler {
	r := phttp.AdaptChi(chi.NewRouter())
	r.Route("/analytics", func(rr httpkit.Router) { Register(rr, s) })
	return r.Mux()
}

func get(t *testing.T, h stdhttp.Handler, path string) (int, json.RawMessage) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, path, nil))
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec.Code, env.Data
}

func TestCategories_YearParam(t *testing.T) {
	t.Parallel()
	s := &stubSvc{}
	h := newRouter(s)

	code, data := get(t, h, "/analytics/categories?year=2024")
	if code != stdhttp.StatusOK || s.year != 2024 {
		t.Fatalf("code=%d year=%d", code, s.year)
	}
	var buckets []domain.MonthCategories
	if err := json.Unmarshal(data, &buckets); err != nil || len(buckets) != 12 {
		t.Fatalf("payload: %s", data)
	}

	if code, _ := get(t, h, "/analytics/categories"); code != stdhttp.StatusOK || s.year != time.Now().Year() {
		t.Fatalf("default year: code=%d year=%d", code, s.year)
	}
	if code, _ := get(t, h, "/analytics/categories?year=twenty"); code != stdhttp.StatusBadRequest {
		t.Fatalf("bad year: %d", code)
	}
}

func TestVolume_PassesBounds(t *testing.T) {
	t.Parallel()
	s := &stubSvc{}
	code, data := get(t, newRouter(s), "/analytics/volume?from=2025-01&to=%202025-06%20")
	if code != stdhttp.StatusOK || string(data) != "[]" {
		t.Fatalf("code=%d data=%s", code, data)
	}
	if s.query.From != "2025-01" || s.query.To != "2025-06" {
		t.Fatalf("query: %+v", s.query)
	}
}

func TestVolume_RejectsMalformedMonth(t *testing.T) {
	t.Parallel()
	s := &stubSvc{}
	code, _ := get(t, newRouter(s), "/analytics/volume?from=2025-13")
	if code != stdhttp.StatusBadRequest {
		t.Fatalf("code=%d", code)
	}
	if s.query != (domain.VolumeQuery{}) {
		t.Fatalf("service reached with %+v", s.query)
	}
}

func TestCoverageAndStats(t *testing.T) {
	t.Parallel()
	h := newRouter(&stubSvc{})

	code, data := get(t, h, "/analytics/coverage")
	var cov []domain.StateCoverage
	if code != stdhttp.StatusOK || json.Unmarshal(data, &cov) != nil || cov[0].State != "QLD" {
		t.Fatalf("coverage: %d %s", code, data)
	}

	code, data = get(t, h, "/analytics/stats")
	var st domain.VeriStats
	if code != stdhttp.StatusOK || json.Unmarshal(data, &st) != nil || st.Total != 3 || st.NotPest != nil {
		t.Fatalf("stats: %d %s", code, data)
	}
}
