package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Page(ctx context.Context, q PageQuery) (Listing, error)
	Detection(ctx context.Context, id string) (DetectionView, error)
	Ingest(ctx context.Context, in IngestInput) (Ingested, error)
}

// IngestHook runs after a detection is stored
type IngestHook func(ctx context.Context, id string)
