// Package mirror copies detections into clickhouse for volume analytics
package mirror

import (
	"context"

	perr "pestwatch/internal/platform/errors"
	"pestwatch/internal/platform/store"
	"pestwatch/internal/services/records/domain"
)

// Table is the clickhouse table detections are mirrored into
//
//	create table pestwatch_detections (
//	  id String, species String, location String,
//	  confidence Float64, created_at DateTime64(3, 'UTC')
//	) engine = ReplacingMergeTree order by (created_at, id)
const Table = "pestwatch_detections"

// Mirror writes detection rows; a nil CH makes every call a no op
type Mirror struct {
	CH store.Clickhouse
}

// Enabled reports whether a clickhouse seam is configured
func (m Mirror) Enabled() bool { return m.CH != nil }

// Insert appends dets in one batch
func (m Mirror) Insert(ctx context.Context, dets ...domain.Detection) error {
	if m.CH == nil || len(dets) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(dets))
	for _, d := range dets {
		rows = append(rows, []any{d.ID, d.Species, d.Location, d.Confidence, d.CreatedAt.UTC()})
	}
	if err := m.CH.Insert(ctx, Table, rows); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "mirror %d detections", len(dets))
	}
	return nil
}
