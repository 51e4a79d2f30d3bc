// Package metrics exposes prometheus collectors for the api
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pestwatch"

// Metrics holds every collector the api reports
// a nil *Metrics is valid and records nothing
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	Verifications     *prometheus.CounterVec
	CacheLookups      *prometheus.CounterVec
	UnknownStatuses   prometheus.Counter
	UnknownCategories prometheus.Counter
}

// New builds a registry with process and go collectors plus api metrics
func New() (*Metrics, error) {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verifications_total",
			Help:      "Verification writes by operation and resulting status",
		}, []string{"op", "status"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_cache_lookups_total",
			Help:      "Analytics cache lookups by result",
		}, []string{"result"}),
		UnknownStatuses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_verification_status_total",
			Help:      "Verifications skipped by stats because of an unrecognized status",
		}),
		UnknownCategories: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_verification_category_total",
			Help:      "Verifications left out of monthly category counts because of an unrecognized category",
		}),
	}

	cs := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.Verifications,
		m.CacheLookups,
		m.UnknownStatuses,
		m.UnknownCategories,
	}
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}

// Middleware records request counts and latency keyed by chi route pattern
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil {
				if p := rc.RoutePattern(); p != "" {
					route = p
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// ObserveVerification counts a verification create or update
func (m *Metrics) ObserveVerification(op, status string) {
	if m == nil {
		return
	}
	m.Verifications.WithLabelValues(op, status).Inc()
}

// ObserveCache counts an analytics cache lookup
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	res := "miss"
	if hit {
		res = "hit"
	}
	m.CacheLookups.WithLabelValues(res).Inc()
}

// ObserveUnknownStatus counts verifications skipped for an unrecognized status
func (m *Metrics) ObserveUnknownStatus(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.UnknownStatuses.Add(float64(n))
}

// ObserveUnknownCategory counts verifications dropped from category charts
func (m *Metrics) ObserveUnknownCategory(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.UnknownCategories.Add(float64(n))
}
