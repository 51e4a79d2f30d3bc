package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetrics_NoPanic(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.ObserveVerification("create", "pending")
	m.ObserveCache(true)
	m.ObserveUnknownStatus(3)
	m.ObserveUnknownCategory(3)
	if m.Registry() != nil {
		t.Fatalf("nil metrics should have nil registry")
	}

	called := false
	h := m.Middleware()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Fatalf("middleware did not call next")
	}

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("nil handler code = %d", rr.Code)
	}
}

func TestCounters(t *testing.T) {
	t.Parallel()

	m, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	m.ObserveVerification("create", "verified")
	m.ObserveVerification("create", "verified")
	m.ObserveCache(true)
	m.ObserveCache(false)
	m.ObserveCache(false)
	m.ObserveUnknownStatus(0)
	m.ObserveUnknownStatus(2)
	m.ObserveUnknownCategory(-1)
	m.ObserveUnknownCategory(4)

	if got := testutil.ToFloat64(m.Verifications.WithLabelValues("create", "verified")); got != 2 {
		t.Fatalf("verifications = %v", got)
	}
	if got := testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")); got != 2 {
		t.Fatalf("cache misses = %v", got)
	}
	if got := testutil.ToFloat64(m.UnknownStatuses); got != 2 {
		t.Fatalf("unknown statuses = %v", got)
	}
	if got := testutil.ToFloat64(m.UnknownCategories); got != 4 {
		t.Fatalf("unknown categories = %v", got)
	}
}

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	t.Parallel()

	m, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	r := chi.NewRouter()
	r.Use(m.Middleware())
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	for _, p := range []string{"/items/1", "/items/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/items/{id}", "418")); got != 2 {
		t.Fatalf("http requests = %v", got)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rr.Body)
	if !strings.Contains(string(body), "pestwatch_http_requests_total") {
		t.Fatalf("metrics output missing counter:\n%s", body)
	}
}
