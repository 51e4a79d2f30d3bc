package module

import (
	"context"

	"pestwatch/internal/services/api/verify/domain"
	verifysvc "pestwatch/internal/services/api/verify/service"
	records "pestwatch/internal/services/records/domain"
)

type adaptVerifyPort struct{ svc verifysvc.Service }

var _ domain.ServicePort = adaptVerifyPort{}

// Create submits the first review of a detection
func (a adaptVerifyPort) Create(ctx context.Context, in domain.CreateInput) (domain.Created, error) {
	return a.svc.Create(ctx, in)
}

// Update applies a partial update and appends an audit entry
func (a adaptVerifyPort) Update(ctx context.Context, id string, patch domain.VerificationPatch, changedBy, reason string) (domain.Updated, error) {
	return a.svc.Update(ctx, id, patch, changedBy, reason)
}

// Get returns one verification
func (a adaptVerifyPort) Get(ctx context.Context, id string) (records.Verification, error) {
	return a.svc.Get(ctx, id)
}

// ByStatus lists verifications with a status
func (a adaptVerifyPort) ByStatus(ctx context.Context, status string) ([]records.Verification, error) {
	return a.svc.ByStatus(ctx, status)
}

// History returns the audit trail of a detection
func (a adaptVerifyPort) History(ctx context.Context, predID string) (domain.HistoryView, error) {
	return a.svc.History(ctx, predID)
}
