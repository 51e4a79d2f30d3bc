// Package http provides http transport for analytics
package http

import (
	stdhttp "net/http"
	"time"

	"pestwatch/internal/modkit/httpkit"
	"pestwatch/internal/services/api/analytics/domain"
)

// Register mounts analytics endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s, now: time.Now}

	// twelve monthly buckets per category
	httpkit.Get(r, "/categories", h.categories)

	// detections per state
	httpkit.Get(r, "/coverage", h.coverage)

	// monthly detection volume
	httpkit.Get(r, "/volume", h.volume)

	// verification counts per status
	httpkit.Get(r, "/stats", h.stats)
}

type handlers struct {
	svc domain.ServicePort
	now func() time.Time
}

// swagger:route GET /analytics/categories Analytics categoryCountsByMonth
// @Summary Category counts per month of a year
// @Tags Analytics
// @Produce json
// @Param year query int false "Four digit year, defaults to the current year"
// @Success 200 {array} domain.MonthCategories "ok"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Router /analytics/categories [get]
func (h *handlers) categories(r *stdhttp.Request) (any, error) {
	year, err := httpkit.QueryInt(r, "year", h.now().Year())
	if err != nil {
		return nil, err
	}
	return h.svc.CategoryCountsByMonth(r.Context(), year)
}

// swagger:route GET /analytics/coverage Analytics geographicCoverage
// @Summary Share of detections per Australian state
// @Tags Analytics
// @Produce json
// @Success 200 {array} domain.StateCoverage "ok"
// @Router /analytics/coverage [get]
func (h *handlers) coverage(r *stdhttp.Request) (any, error) {
	return h.svc.Coverage(r.Context())
}

// swagger:route GET /analytics/volume Analytics lineChart
// @Summary Monthly detection volume with empty months filled
// @Tags Analytics
// @Produce json
// @Param from query string false "First month, 2025-01"
// @Param to query string false "Last month, 2025-12"
// @Success 200 {array} domain.VolumePoint "ok"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Router /analytics/volume [get]
func (h *handlers) volume(r *stdhttp.Request) (any, error) {
	q := domain.VolumeQuery{
		From: httpkit.Query(r, "from"),
		To:   httpkit.Query(r, "to"),
	}
	if err := httpkit.Validate(q); err != nil {
		return nil, err
	}
	return h.svc.Volume(r.Context(), q)
}

// swagger:route GET /analytics/stats Analytics veriStats
// @Summary Verification counts per status
// @Tags Analytics
// @Produce json
// @Success 200 {object} domain.VeriStats "ok"
// @Router /analytics/stats [get]
func (h *handlers) stats(r *stdhttp.Request) (any, error) {
	return h.svc.Stats(r.Context())
}
