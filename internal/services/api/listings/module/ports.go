package module

import (
	"context"

	"pestwatch/internal/services/api/listings/domain"
	listingssvc "pestwatch/internal/services/api/listings/service"
)

type adaptListingsPort struct{ svc listingssvc.Service }

var _ domain.ServicePort = adaptListingsPort{}

// Page returns one page of a collection
func (a adaptListingsPort) Page(ctx context.Context, q domain.PageQuery) (domain.Listing, error) {
	return a.svc.Page(ctx, q)
}

// Detection returns one detection
func (a adaptListingsPort) Detection(ctx context.Context, id string) (domain.DetectionView, error) {
	return a.svc.Detection(ctx, id)
}

// Ingest stores a detection from the analysis pipeline
func (a adaptListingsPort) Ingest(ctx context.Context, in domain.IngestInput) (domain.Ingested, error) {
	return a.svc.Ingest(ctx, in)
}
