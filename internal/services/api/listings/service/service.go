// Package service pages through records and accepts detections from the analysis pipeline
package service

import (
	"context"
	"strings"
	"time"

	"pestwatch/internal/core/cursor"
	perr "pestwatch/internal/platform/errors"
	"pestwatch/internal/platform/logger"
	"pestwatch/internal/services/api/listings/domain"
	records "pestwatch/internal/services/records/domain"
	"pestwatch/internal/services/records/mirror"

	"github.com/google/uuid"
)

// Service defines the listings service contract
type Service interface {
	domain.ServicePort
}

// Options tunes listings
type Options struct {
	MaxLimit int
	Mirror   mirror.Mirror
	Hooks    []domain.IngestHook
}

// Svc implements the listings service
type Svc struct {
	Repo records.Repo

	// seams, defaulted by New
	Now   func() time.Time
	NewID func() string

	maxLimit int
	mirror   mirror.Mirror
	hooks    []domain.IngestHook
}

var _ Service = (*Svc)(nil)

// New constructs a listings service
func New(r records.Repo, opts Options) *Svc {
	if r == nil {
		panic("listings.Service requires a non nil records Repo")
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 100
	}
	return &Svc{
		Repo:     r,
		Now:      func() time.Time { return time.Now().UTC() },
		NewID:    uuid.NewString,
		maxLimit: opts.MaxLimit,
		mirror:   opts.Mirror,
		hooks:    opts.Hooks,
	}
}

// Page returns the next page of a collection after q.Cursor
func (s *Svc) Page(ctx context.Context, q domain.PageQuery) (domain.Listing, error) {
	coll, err := records.ParseCollection(q.Collection)
	if err != nil {
		return domain.Listing{}, err
	}
	if err := cursor.ValidateLimit(q.Limit); err != nil {
		return domain.Listing{}, err
	}
	if q.Limit > s.maxLimit {
		return domain.Listing{}, perr.WithField(perr.Validationf("limit must be at most %d; got %d", s.maxLimit, q.Limit), "limit")
	}
	after := strings.TrimSpace(q.Cursor)

	out := domain.Listing{Collection: string(coll)}
	switch coll {
	case records.CollectionDetections:
		p, err := s.Repo.PageDetections(ctx, q.Limit, after)
		if err != nil {
			return domain.Listing{}, err
		}
		views := make([]domain.DetectionView, 0, len(p.Items))
		for _, d := range p.Items {
			views = append(views, domain.NewDetectionView(d))
		}
		out.Items, out.NextCursor = views, p.NextCursor
	case records.CollectionVerifications:
		p, err := s.Repo.PageVerifications(ctx, q.Limit, after)
		if err != nil {
			return domain.Listing{}, err
		}
		out.Items, out.NextCursor = p.Items, p.NextCursor
	case records.CollectionHistory:
		p, err := s.Repo.PageHistory(ctx, strings.TrimSpace(q.PredID), q.Limit, after)
		if err != nil {
			return domain.Listing{}, err
		}
		out.Items, out.NextCursor = p.Items, p.NextCursor
	}
	return out, nil
}

// Detection returns one detection with its resolved region
func (s *Svc) Detection(ctx context.Context, id string) (domain.DetectionView, error) {
	d, err := s.Repo.GetDetection(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.DetectionView{}, err
	}
	return domain.NewDetectionView(d), nil
}

// Ingest stores a pending detection, mirrors it to clickhouse and runs the hooks
// a mirror failure is logged and does not fail the ingest
func (s *Svc) Ingest(ctx context.Context, in domain.IngestInput) (domain.Ingested, error) {
	if strings.TrimSpace(in.Species) == "" {
		return domain.Ingested{}, perr.WithField(perr.Validationf("species is required"), "species")
	}
	if len(in.ImageURLs) == 0 {
		return domain.Ingested{}, perr.WithField(perr.Validationf("at least one image url is required"), "imageUrls")
	}
	if in.Confidence < 0 || in.Confidence > 1 {
		return domain.Ingested{}, perr.WithField(perr.Validationf("confidence must be between 0 and 1; got %v", in.Confidence), "confidence")
	}

	d := records.Detection{
		ID:            strings.TrimSpace(in.ID),
		Confidence:    in.Confidence,
		CurVeriStatus: records.StatusPending,
		ImageURLs:     in.ImageURLs,
		Species:       strings.TrimSpace(in.Species),
		Location:      strings.TrimSpace(in.Location),
		UserID:        strings.TrimSpace(in.UserID),
		CreatedAt:     s.Now(),
	}
	if d.ID == "" {
		d.ID = s.NewID()
	}
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		d.CreatedAt = in.Timestamp.UTC()
	}

	if err := s.Repo.InsertDetection(ctx, d); err != nil {
		if perr.HTTPStatus(err) >= 500 {
			logger.C(ctx).Error().Err(err).Str("component", "listings").Str("pred_id", d.ID).Msg("detection ingest failed")
		}
		return domain.Ingested{}, err
	}

	if err := s.mirror.Insert(ctx, d); err != nil {
		logger.C(ctx).Warn().Err(err).Str("component", "listings").Str("pred_id", d.ID).Msg("clickhouse mirror failed")
	}
	for _, h := range s.hooks {
		h(ctx, d.ID)
	}
	return domain.Ingested{ID: d.ID}, nil
}
