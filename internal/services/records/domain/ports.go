package domain

import (
	"context"

	"pestwatch/internal/core/cursor"
)

// Repo is the typed record store surface
// lookups that miss return an error for which perr.IsNotFound is true
type Repo interface {
	InsertDetection(ctx context.Context, d Detection) error
	GetDetection(ctx context.Context, id string) (Detection, error)
	SetDetectionStatus(ctx context.Context, id string, s Status) error
	ListDetections(ctx context.Context) ([]Detection, error)
	PageDetections(ctx context.Context, limit int, after string) (cursor.Page[Detection], error)

	// InsertVerification fails with a conflict when PredID already has a verification
	InsertVerification(ctx context.Context, v Verification) error
	GetVerification(ctx context.Context, id string) (Verification, error)
	GetVerificationByPred(ctx context.Context, predID string) (Verification, error)
	UpdateVerification(ctx context.Context, v Verification) error
	// VerificationsByStatus is ordered by timestamp, most recent first
	VerificationsByStatus(ctx context.Context, s Status) ([]Verification, error)
	ListVerifications(ctx context.Context) ([]Verification, error)
	PageVerifications(ctx context.Context, limit int, after string) (cursor.Page[Verification], error)

	AppendHistory(ctx context.Context, h HistoryEntry) error
	// HistoryByPred is ordered by changedAt, oldest first
	HistoryByPred(ctx context.Context, predID string) ([]HistoryEntry, error)
	// PageHistory pages every entry, or only predID's when it is non empty
	PageHistory(ctx context.Context, predID string, limit int, after string) (cursor.Page[HistoryEntry], error)
}

// Store is a Repo that can run several writes as one unit
// if fn returns an error none of its writes are visible
type Store interface {
	Repo
	Atomic(ctx context.Context, fn func(r Repo) error) error
}
