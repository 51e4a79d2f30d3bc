package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	CategoryCountsByMonth(ctx context.Context, year int) ([]MonthCategories, error)
	Coverage(ctx context.Context) ([]StateCoverage, error)
	Volume(ctx context.Context, in VolumeQuery) ([]VolumePoint, error)
	Stats(ctx context.Context) (VeriStats, error)
}

// Invalidator drops cached aggregates after a write
type Invalidator interface {
	Invalidate()
}
