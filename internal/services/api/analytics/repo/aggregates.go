package repo

import (
	"context"
	"slices"
	"strings"
	"time"

	"pestwatch/internal/modkit/repokit"
	perr "pestwatch/internal/platform/errors"
	"pestwatch/internal/platform/store"
	"pestwatch/internal/services/api/analytics/domain"
	records "pestwatch/internal/services/records/domain"
)

// Aggregates is the grouped read surface the dashboard is computed from
type Aggregates interface {
	VolumeSource
	ByMonthCategory(ctx context.Context, year int, loc *time.Location) ([]RowByMonthCategory, error)
	ByStatus(ctx context.Context) ([]RowByStatus, error)
	ByLocation(ctx context.Context) ([]RowByLocation, error)
}

// RowByMonthCategory counts verifications first recorded in a month of the year
type RowByMonthCategory struct {
	Month    time.Month
	Category records.Category
	Count    int64
}

// RowByStatus counts verifications per stored status
type RowByStatus struct {
	Status records.Status
	Count  int64
}

// RowByLocation counts detections per raw location text
type RowByLocation struct {
	Location string
	Count    int64
}

var (
	_ Aggregates = Records{}
	_ Aggregates = Postgres{}
)

// ByMonthCategory implements Aggregates
func (r Records) ByMonthCategory(ctx context.Context, year int, loc *time.Location) ([]RowByMonthCategory, error) {
	if loc == nil {
		loc = time.UTC
	}
	vs, err := r.Repo.ListVerifications(ctx)
	if err != nil {
		return nil, err
	}
	type key struct {
		m time.Month
		c records.Category
	}
	counts := map[key]int64{}
	for _, v := range vs {
		at := v.CreatedAt.In(loc)
		if at.Year() != year {
			continue
		}
		counts[key{at.Month(), v.Category}]++
	}
	out := make([]RowByMonthCategory, 0, len(counts))
	for k, n := range counts {
		out = append(out, RowByMonthCategory{Month: k.m, Category: k.c, Count: n})
	}
	slices.SortFunc(out, func(a, b RowByMonthCategory) int {
		if a.Month != b.Month {
			return int(a.Month - b.Month)
		}
		return strings.Compare(string(a.Category), string(b.Category))
	})
	return out, nil
}

// ByStatus implements Aggregates
func (r Records) ByStatus(ctx context.Context) ([]RowByStatus, error) {
	vs, err := r.Repo.ListVerifications(ctx)
	if err != nil {
		return nil, err
	}
	counts := map[records.Status]int64{}
	for _, v := range vs {
		counts[v.Status]++
	}
	out := make([]RowByStatus, 0, len(counts))
	for st, n := range counts {
		out = append(out, RowByStatus{Status: st, Count: n})
	}
	slices.SortFunc(out, func(a, b RowByStatus) int { return strings.Compare(string(a.Status), string(b.Status)) })
	return out, nil
}

// ByLocation implements Aggregates
func (r Records) ByLocation(ctx context.Context) ([]RowByLocation, error) {
	dets, err := r.Repo.ListDetections(ctx)
	if err != nil {
		return nil, err
	}
	counts := map[string]int64{}
	for _, d := range dets {
		counts[d.Location]++
	}
	out := make([]RowByLocation, 0, len(counts))
	for l, n := range counts {
		out = append(out, RowByLocation{Location: l, Count: n})
	}
	slices.SortFunc(out, func(a, b RowByLocation) int { return strings.Compare(a.Location, b.Location) })
	return out, nil
}

// Postgres groups rows in SQL over the records schema
type Postgres struct {
	Q repokit.Queryer
}

func tzName(loc *time.Location) string {
	if loc == nil {
		return "UTC"
	}
	return loc.String()
}

// ByMonthCategory implements Aggregates
func (p Postgres) ByMonthCategory(ctx context.Context, year int, loc *time.Location) ([]RowByMonthCategory, error) {
	const sql = `
select extract(month from created_at at time zone $1)::int as m, category, count(*) as n
from verifications
where extract(year from created_at at time zone $1)::int = $2
group by m, category
order by m asc, category asc
`
	out, err := store.Many(ctx, p.Q, func(row store.Row) (RowByMonthCategory, error) {
		var (
			rr  RowByMonthCategory
			m   int
			cat string
		)
		if err := row.Scan(&m, &cat, &rr.Count); err != nil {
			return rr, err
		}
		rr.Month, rr.Category = time.Month(m), records.Category(cat)
		return rr, nil
	}, sql, tzName(loc), year)
	if err != nil {
		return nil, perr.FromPostgresf(err, "category counts for %d", year)
	}
	return out, nil
}

// ByStatus implements Aggregates
func (p Postgres) ByStatus(ctx context.Context) ([]RowByStatus, error) {
	const sql = `
select status, count(*) as n
from verifications
group by status
order by status asc
`
	out, err := store.Many(ctx, p.Q, func(row store.Row) (RowByStatus, error) {
		var (
			rr RowByStatus
			st string
		)
		if err := row.Scan(&st, &rr.Count); err != nil {
			return rr, err
		}
		rr.Status = records.Status(st)
		return rr, nil
	}, sql)
	if err != nil {
		return nil, perr.FromPostgres(err, "status counts")
	}
	return out, nil
}

// ByLocation implements Aggregates
func (p Postgres) ByLocation(ctx context.Context) ([]RowByLocation, error) {
	const sql = `
select location, count(*) as n
from detections
group by location
order by location asc
`
	out, err := store.Many(ctx, p.Q, func(row store.Row) (RowByLocation, error) {
		var rr RowByLocation
		err := row.Scan(&rr.Location, &rr.Count)
		return rr, err
	}, sql)
	if err != nil {
		return nil, perr.FromPostgres(err, "location counts")
	}
	return out, nil
}

// MonthlyVolume implements VolumeSource
func (p Postgres) MonthlyVolume(ctx context.Context, loc *time.Location) ([]domain.MonthCount, error) {
	const sql = `
select extract(year from created_at at time zone $1)::int as y,
       extract(month from created_at at time zone $1)::int as m,
       count(*) as n
from detections
group by y, m
order by y asc, m asc
`
	out, err := store.Many(ctx, p.Q, func(row store.Row) (domain.MonthCount, error) {
		var (
			mc domain.MonthCount
			m  int
		)
		if err := row.Scan(&mc.Year, &m, &mc.Count); err != nil {
			return mc, err
		}
		mc.Month = time.Month(m)
		return mc, nil
	}, sql, tzName(loc))
	if err != nil {
		return nil, perr.FromPostgres(err, "monthly volume")
	}
	return out, nil
}
