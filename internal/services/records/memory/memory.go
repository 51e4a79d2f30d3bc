// Package memory is an in-process record store
// It backs the memory store driver and the service tests. Atomic runs fn
// against a private copy of the state and publishes it only when fn succeeds.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"pestwatch/internal/core/cursor"
	perr "pestwatch/internal/platform/errors"
	"pestwatch/internal/services/records/domain"
)

type state struct {
	detections    map[string]domain.Detection
	verifications map[string]domain.Verification
	byPred        map[string]string // predID -> verification id
	history       []domain.HistoryEntry
}

func newState() *state {
	return &state{
		detections:    map[string]domain.Detection{},
		verifications: map[string]domain.Verification{},
		byPred:        map[string]string{},
	}
}

func (s *state) clone() *state {
	c := &state{
		detections:    make(map[string]domain.Detection, len(s.detections)),
		verifications: make(map[string]domain.Verification, len(s.verifications)),
		byPred:        make(map[string]string, len(s.byPred)),
		history:       slices.Clone(s.history),
	}
	for k, v := range s.detections {
		c.detections[k] = v
	}
	for k, v := range s.verifications {
		c.verifications[k] = v
	}
	for k, v := range s.byPred {
		c.byPred[k] = v
	}
	return c
}

// Store is a mutex guarded domain.Store
type Store struct {
	mu sync.RWMutex
	st *state
}

var _ domain.Store = (*Store)(nil)

// New returns an empty store
func New() *Store { return &Store{st: newState()} }

func (s *Store) read(fn func(v view) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(view{st: s.st})
}

func (s *Store) write(fn func(v view) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(view{st: s.st})
}

// Atomic runs fn with a repo whose writes commit together or not at all
func (s *Store) Atomic(ctx context.Context, fn func(r domain.Repo) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.st.clone()
	if err := fn(view{st: draft}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = draft
	return nil
}

// InsertDetection stores a new detection
func (s *Store) InsertDetection(ctx context.Context, d domain.Detection) error {
	return s.write(func(v view) error { return v.InsertDetection(ctx, d) })
}

// GetDetection returns a detection by id
func (s *Store) GetDetection(ctx context.Context, id string) (out domain.Detection, err error) {
	err = s.read(func(v view) error { out, err = v.GetDetection(ctx, id); return err })
	return out, err
}

// SetDetectionStatus mirrors a verification status onto its detection
func (s *Store) SetDetectionStatus(ctx context.Context, id string, st domain.Status) error {
	return s.write(func(v view) error { return v.SetDetectionStatus(ctx, id, st) })
}

// ListDetections returns every detection, newest first
func (s *Store) ListDetections(ctx context.Context) (out []domain.Detection, err error) {
	err = s.read(func(v view) error { out, err = v.ListDetections(ctx); return err })
	return out, err
}

// PageDetections pages detections newest first
func (s *Store) PageDetections(ctx context.Context, limit int, after string) (out cursor.Page[domain.Detection], err error) {
	err = s.read(func(v view) error { out, err = v.PageDetections(ctx, limit, after); return err })
	return out, err
}

// InsertVerification stores the first verification of a detection
func (s *Store) InsertVerification(ctx context.Context, vr domain.Verification) error {
	return s.write(func(v view) error { return v.InsertVerification(ctx, vr) })
}

// GetVerification returns a verification by id
func (s *Store) GetVerification(ctx context.Context, id string) (out domain.Verification, err error) {
	err = s.read(func(v view) error { out, err = v.GetVerification(ctx, id); return err })
	return out, err
}

// GetVerificationByPred returns the verification of a detection
func (s *Store) GetVerificationByPred(ctx context.Context, predID string) (out domain.Verification, err error) {
	err = s.read(func(v view) error { out, err = v.GetVerificationByPred(ctx, predID); return err })
	return out, err
}

// UpdateVerification replaces a stored verification
func (s *Store) UpdateVerification(ctx context.Context, vr domain.Verification) error {
	return s.write(func(v view) error { return v.UpdateVerification(ctx, vr) })
}

// VerificationsByStatus returns matching verifications, most recent first
func (s *Store) VerificationsByStatus(ctx context.Context, st domain.Status) (out []domain.Verification, err error) {
	err = s.read(func(v view) error { out, err = v.VerificationsByStatus(ctx, st); return err })
	return out, err
}

// ListVerifications returns every verification, most recent first
func (s *Store) ListVerifications(ctx context.Context) (out []domain.Verification, err error) {
	err = s.read(func(v view) error { out, err = v.ListVerifications(ctx); return err })
	return out, err
}

// PageVerifications pages verifications most recent first
func (s *Store) PageVerifications(ctx context.Context, limit int, after string) (out cursor.Page[domain.Verification], err error) {
	err = s.read(func(v view) error { out, err = v.PageVerifications(ctx, limit, after); return err })
	return out, err
}

// AppendHistory appends an audit entry
func (s *Store) AppendHistory(ctx context.Context, h domain.HistoryEntry) error {
	return s.write(func(v view) error { return v.AppendHistory(ctx, h) })
}

// HistoryByPred returns the audit trail of a detection, oldest first
func (s *Store) HistoryByPred(ctx context.Context, predID string) (out []domain.HistoryEntry, err error) {
	err = s.read(func(v view) error { out, err = v.HistoryByPred(ctx, predID); return err })
	return out, err
}

// PageHistory pages audit entries newest first
func (s *Store) PageHistory(ctx context.Context, predID string, limit int, after string) (out cursor.Page[domain.HistoryEntry], err error) {
	err = s.read(func(v view) error { out, err = v.PageHistory(ctx, predID, limit, after); return err })
	return out, err
}

// view implements domain.Repo over a state without locking
type view struct{ st *state }

func (v view) InsertDetection(_ context.Context, d domain.Detection) error {
	if strings.TrimSpace(d.ID) == "" {
		return perr.WithField(perr.Validationf("detection id is required"), "id")
	}
	if _, ok := v.st.detections[d.ID]; ok {
		return perr.DuplicateKeyf("detection %q already exists", d.ID)
	}
	d.ImageURLs = slices.Clone(d.ImageURLs)
	v.st.detections[d.ID] = d
	return nil
}

func (v view) GetDetection(_ context.Context, id string) (domain.Detection, error) {
	d, ok := v.st.detections[id]
	if !ok {
		return domain.Detection{}, perr.NotFoundf("detection %q not found", id)
	}
	d.ImageURLs = slices.Clone(d.ImageURLs)
	return d, nil
}

func (v view) SetDetectionStatus(_ context.Context, id string, st domain.Status) error {
	d, ok := v.st.detections[id]
	if !ok {
		return perr.NotFoundf("detection %q not found", id)
	}
	d.CurVeriStatus = st
	v.st.detections[id] = d
	return nil
}

func (v view) ListDetections(_ context.Context) ([]domain.Detection, error) {
	out := make([]domain.Detection, 0, len(v.st.detections))
	for _, d := range v.st.detections {
		d.ImageURLs = slices.Clone(d.ImageURLs)
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b domain.Detection) int { return cursor.Compare(a.Key(), b.Key()) })
	return out, nil
}

func (v view) PageDetections(ctx context.Context, limit int, after string) (cursor.Page[domain.Detection], error) {
	all, _ := v.ListDetections(ctx)
	return cursor.Paginate(all, domain.Detection.Key, limit, after)
}

func (v view) InsertVerification(_ context.Context, vr domain.Verification) error {
	if _, ok := v.st.detections[vr.PredID]; !ok {
		return perr.NotFoundf("detection %q not found", vr.PredID)
	}
	if _, ok := v.st.byPred[vr.PredID]; ok {
		return perr.Conflictf("detection %q already has a verification", vr.PredID)
	}
	if _, ok := v.st.verifications[vr.ID]; ok {
		return perr.DuplicateKeyf("verification %q already exists", vr.ID)
	}
	vr.ImageURLs = slices.Clone(vr.ImageURLs)
	v.st.verifications[vr.ID] = vr
	v.st.byPred[vr.PredID] = vr.ID
	return nil
}

func (v view) GetVerification(_ context.Context, id string) (domain.Verification, error) {
	vr, ok := v.st.verifications[id]
	if !ok {
		return domain.Verification{}, perr.NotFoundf("verification %q not found", id)
	}
	vr.ImageURLs = slices.Clone(vr.ImageURLs)
	return vr, nil
}

func (v view) GetVerificationByPred(ctx context.Context, predID string) (domain.Verification, error) {
	id, ok := v.st.byPred[predID]
	if !ok {
		return domain.Verification{}, perr.NotFoundf("no verification for detection %q", predID)
	}
	return v.GetVerification(ctx, id)
}

func (v view) UpdateVerification(_ context.Context, vr domain.Verification) error {
	cur, ok := v.st.verifications[vr.ID]
	if !ok {
		return perr.NotFoundf("verification %q not found", vr.ID)
	}
	// the detection link and creation time are fixed at insert
	vr.PredID = cur.PredID
	vr.CreatedAt = cur.CreatedAt
	vr.ImageURLs = slices.Clone(vr.ImageURLs)
	v.st.verifications[vr.ID] = vr
	return nil
}

func (v view) VerificationsByStatus(ctx context.Context, st domain.Status) ([]domain.Verification, error) {
	all, _ := v.ListVerifications(ctx)
	out := make([]domain.Verification, 0, len(all))
	for _, vr := range all {
		if vr.Status == st {
			out = append(out, vr)
		}
	}
	return out, nil
}

func (v view) ListVerifications(_ context.Context) ([]domain.Verification, error) {
	out := make([]domain.Verification, 0, len(v.st.verifications))
	for _, vr := range v.st.verifications {
		vr.ImageURLs = slices.Clone(vr.ImageURLs)
		out = append(out, vr)
	}
	slices.SortFunc(out, func(a, b domain.Verification) int { return cursor.Compare(a.Key(), b.Key()) })
	return out, nil
}

func (v view) PageVerifications(ctx context.Context, limit int, after string) (cursor.Page[domain.Verification], error) {
	all, _ := v.ListVerifications(ctx)
	return cursor.Paginate(all, domain.Verification.Key, limit, after)
}

func (v view) AppendHistory(_ context.Context, h domain.HistoryEntry) error {
	if _, ok := v.st.verifications[h.VerificationID]; !ok {
		return perr.NotFoundf("verification %q not found", h.VerificationID)
	}
	v.st.history = append(v.st.history, h)
	return nil
}

func (v view) HistoryByPred(_ context.Context, predID string) ([]domain.HistoryEntry, error) {
	out := make([]domain.HistoryEntry, 0)
	for _, h := range v.st.history {
		if h.PredID == predID {
			out = append(out, h)
		}
	}
	// append order breaks ties between equal timestamps
	slices.SortStableFunc(out, func(a, b domain.HistoryEntry) int { return a.ChangedAt.Compare(b.ChangedAt) })
	return out, nil
}

func (v view) PageHistory(_ context.Context, predID string, limit int, after string) (cursor.Page[domain.HistoryEntry], error) {
	set := v.st.history
	if predID != "" {
		set = make([]domain.HistoryEntry, 0)
		for _, h := range v.st.history {
			if h.PredID == predID {
				set = append(set, h)
			}
		}
	}
	return cursor.Paginate(set, domain.HistoryEntry.Key, limit, after)
}
