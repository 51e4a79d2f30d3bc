// Package service contains the verification workflow
// Every write runs inside one records Atomic unit: the verification row, the
// audit entry and the mirrored detection status commit together or not at all.
package service

import (
	"context"
	"slices"
	"strings"
	"time"

	perr "pestwatch/internal/platform/errors"
	"pestwatch/internal/platform/logger"
	"pestwatch/internal/services/api/verify/domain"
	records "pestwatch/internal/services/records/domain"

	"github.com/google/uuid"
)

// Service defines the verification service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the verification service
type Svc struct {
	Store records.Store

	// seams, defaulted by New
	Now   func() time.Time
	NewID func() string

	listeners []domain.ChangeListener
}

var _ Service = (*Svc)(nil)

// New constructs a verification service
func New(st records.Store, listeners ...domain.ChangeListener) *Svc {
	if st == nil {
		panic("verify.Service requires a non nil records Store")
	}
	return &Svc{
		Store:     st,
		Now:       func() time.Time { return time.Now().UTC() },
		NewID:     uuid.NewString,
		listeners: listeners,
	}
}

// Create stores the first verification of a detection and mirrors its status
func (s *Svc) Create(ctx context.Context, in domain.CreateInput) (domain.Created, error) {
	predID := strings.TrimSpace(in.PredID)
	if predID == "" {
		return domain.Created{}, perr.WithField(perr.Validationf("predID is required"), "predID")
	}
	st, err := records.ParseStatus(in.Status)
	if err != nil {
		return domain.Created{}, err
	}
	verifier := strings.TrimSpace(in.VerifierID)
	if verifier == "" {
		return domain.Created{}, perr.WithField(perr.Validationf("verifierID is required"), "verifierID")
	}
	cat, err := domain.ParseCategory(in.Category)
	if err != nil {
		return domain.Created{}, err
	}

	now := s.Now()
	v := records.Verification{
		ID:                s.NewID(),
		PredID:            predID,
		Status:            st,
		VerifierID:        verifier,
		Confidence:        in.Confidence,
		Notes:             in.Notes,
		Category:          cat,
		CorrectedSpecies:  in.CorrectedSpecies,
		CanReuseData:      in.CanReuseData,
		NeedsExpertReview: in.NeedsExpertReview,
		ImageURLs:         slices.Clone(in.ImageURLs),
		Timestamp:         now,
		CreatedAt:         now,
	}

	err = s.Store.Atomic(ctx, func(r records.Repo) error {
		det, err := r.GetDetection(ctx, predID)
		if err != nil {
			return err
		}
		if len(v.ImageURLs) == 0 {
			v.ImageURLs = det.ImageURLs
		}
		if err := r.InsertVerification(ctx, v); err != nil {
			return err
		}
		return r.SetDetectionStatus(ctx, predID, st)
	})
	if err != nil {
		logWriteErr(ctx, err, "create", predID, "")
		return domain.Created{}, err
	}

	s.notify(ctx, domain.ChangeEvent{Op: "create", PredID: predID, Status: st, At: now})
	return domain.Created{ID: v.ID}, nil
}

// Update merges patch onto a verification and appends one audit entry
func (s *Svc) Update(ctx context.Context, id string, patch domain.VerificationPatch, changedBy, reason string) (domain.Updated, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Updated{}, perr.WithField(perr.Validationf("id is required"), "id")
	}
	changedBy = strings.TrimSpace(changedBy)
	if changedBy == "" {
		return domain.Updated{}, perr.WithField(perr.Validationf("changedBy is required"), "changedBy")
	}
	// reject bad enums before touching the store
	if _, err := patch.Apply(records.Verification{}); err != nil {
		return domain.Updated{}, err
	}

	now := s.Now()
	var out domain.Updated
	err := s.Store.Atomic(ctx, func(r records.Repo) error {
		cur, err := r.GetVerification(ctx, id)
		if err != nil {
			return err
		}
		next, err := patch.Apply(cur)
		if err != nil {
			return err
		}
		next.Timestamp = now
		if err := r.UpdateVerification(ctx, next); err != nil {
			return err
		}

		h := records.HistoryEntry{
			ID:             s.NewID(),
			VerificationID: cur.ID,
			PredID:         cur.PredID,
			PreviousStatus: cur.Status,
			NewStatus:      next.Status,
			ChangedBy:      changedBy,
			ChangedAt:      now,
			Reason:         reason,
		}
		if err := r.AppendHistory(ctx, h); err != nil {
			return err
		}
		if next.Status != cur.Status {
			if err := r.SetDetectionStatus(ctx, cur.PredID, next.Status); err != nil {
				return err
			}
		}
		out = domain.Updated{Verification: next, History: h}
		return nil
	})
	if err != nil {
		logWriteErr(ctx, err, "update", "", id)
		return domain.Updated{}, err
	}

	s.notify(ctx, domain.ChangeEvent{
		Op:       "update",
		PredID:   out.History.PredID,
		Status:   out.History.NewStatus,
		Previous: out.History.PreviousStatus,
		At:       now,
	})
	return out, nil
}

// Get returns one verification
func (s *Svc) Get(ctx context.Context, id string) (records.Verification, error) {
	return s.Store.GetVerification(ctx, strings.TrimSpace(id))
}

// ByStatus returns verifications with the given status, most recent first
func (s *Svc) ByStatus(ctx context.Context, status string) ([]records.Verification, error) {
	st, err := records.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	out, err := s.Store.VerificationsByStatus(ctx, st)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []records.Verification{}
	}
	return out, nil
}

// History returns the audit trail of a detection, oldest first
func (s *Svc) History(ctx context.Context, predID string) (domain.HistoryView, error) {
	predID = strings.TrimSpace(predID)
	if predID == "" {
		return domain.HistoryView{}, perr.WithField(perr.Validationf("predID is required"), "predID")
	}
	entries, err := s.Store.HistoryByPred(ctx, predID)
	if err != nil {
		return domain.HistoryView{}, err
	}
	if entries == nil {
		entries = []records.HistoryEntry{}
	}
	return domain.HistoryView{PredID: predID, Entries: entries}, nil
}

func (s *Svc) notify(ctx context.Context, ev domain.ChangeEvent) {
	for _, l := range s.listeners {
		l(ctx, ev)
	}
}

// logWriteErr logs store failures; client errors are left to the access log
func logWriteErr(ctx context.Context, err error, op, predID, id string) {
	if perr.HTTPStatus(err) < 500 {
		return
	}
	logger.C(ctx).Error().Err(err).
		Str("component", "verify").
		Str("op", op).
		Str("pred_id", predID).
		Str("verification_id", id).
		Msg("verification write failed")
}
