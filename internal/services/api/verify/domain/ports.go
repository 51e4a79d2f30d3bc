package domain

import (
	"context"

	records "pestwatch/internal/services/records/domain"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Create(ctx context.Context, in CreateInput) (Created, error)
	Update(ctx context.Context, id string, patch VerificationPatch, changedBy, reason string) (Updated, error)
	Get(ctx context.Context, id string) (records.Verification, error)
	ByStatus(ctx context.Context, status string) ([]records.Verification, error)
	History(ctx context.Context, predID string) (HistoryView, error)
}

// ChangeListener is notified after a verification write commits
type ChangeListener func(ctx context.Context, ev ChangeEvent)
