// Package repo provides the grouped reads and monthly volume sources for analytics
package repo

import (
	"context"
	"slices"
	"time"

	perr "pestwatch/internal/platform/errors"
	"pestwatch/internal/platform/store"
	ptime "pestwatch/internal/platform/time"
	"pestwatch/internal/services/api/analytics/domain"
	records "pestwatch/internal/services/records/domain"
	"pestwatch/internal/services/records/mirror"
)

// VolumeSource reports detection counts per calendar month in loc
// months without detections are omitted, output is ordered by month
type VolumeSource interface {
	MonthlyVolume(ctx context.Context, loc *time.Location) ([]domain.MonthCount, error)
}

// Records scans the record store
type Records struct {
	Repo records.Repo
}

// MonthlyVolume implements VolumeSource
func (r Records) MonthlyVolume(ctx context.Context, loc *time.Location) ([]domain.MonthCount, error) {
	dets, err := r.Repo.ListDetections(ctx)
	if err != nil {
		return nil, err
	}
	counts := map[time.Time]int64{}
	for _, d := range dets {
		counts[ptime.MonthStart(d.CreatedAt, loc)]++
	}
	months := make([]time.Time, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	slices.SortFunc(months, func(a, b time.Time) int { return a.Compare(b) })

	out := make([]domain.MonthCount, 0, len(months))
	for _, m := range months {
		out = append(out, domain.MonthCount{Year: m.Year(), Month: m.Month(), Count: counts[m]})
	}
	return out, nil
}

// Clickhouse aggregates the detection mirror table
type Clickhouse struct {
	CH store.Clickhouse
}

// MonthlyVolume implements VolumeSource
func (c Clickhouse) MonthlyVolume(ctx context.Context, loc *time.Location) ([]domain.MonthCount, error) {
	if loc == nil {
		loc = time.UTC
	}
	const sql = `
select toYear(toTimeZone(created_at, ?)) as y, toMonth(toTimeZone(created_at, ?)) as m, count() as n
from ` + mirror.Table + `
group by y, m
order by y asc, m asc
`
	rows, err := c.CH.Query(ctx, sql, loc.String(), loc.String())
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "clickhouse monthly volume")
	}
	defer rows.Close()

	var out []domain.MonthCount
	for rows.Next() {
		var (
			y uint16
			m uint8
			n uint64
		)
		if err := rows.Scan(&y, &m, &n); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeDB, "scan monthly volume")
		}
		out = append(out, domain.MonthCount{Year: int(y), Month: time.Month(m), Count: int64(n)})
	}
	if err := rows.Err(); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "iterate monthly volume")
	}
	return out, nil
}
