package module

import (
	"context"

	"pestwatch/internal/services/api/analytics/domain"
	analyticssvc "pestwatch/internal/services/api/analytics/service"
)

type adaptAnalyticsPort struct{ svc analyticssvc.Service }

var (
	_ domain.ServicePort = adaptAnalyticsPort{}
	_ domain.Invalidator = adaptAnalyticsPort{}
)

// CategoryCountsByMonth returns twelve monthly category buckets
func (a adaptAnalyticsPort) CategoryCountsByMonth(ctx context.Context, year int) ([]domain.MonthCategories, error) {
	return a.svc.CategoryCountsByMonth(ctx, year)
}

// Coverage returns detections per state
func (a adaptAnalyticsPort) Coverage(ctx context.Context) ([]domain.StateCoverage, error) {
	return a.svc.Coverage(ctx)
}

// Volume returns monthly detection volume
func (a adaptAnalyticsPort) Volume(ctx context.Context, in domain.VolumeQuery) ([]domain.VolumePoint, error) {
	return a.svc.Volume(ctx, in)
}

// Stats returns verification counts per status
func (a adaptAnalyticsPort) Stats(ctx context.Context) (domain.VeriStats, error) {
	return a.svc.Stats(ctx)
}

// Invalidate drops cached aggregates
func (a adaptAnalyticsPort) Invalidate() { a.svc.Invalidate() }
