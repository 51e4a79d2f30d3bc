// Package service computes the dashboard aggregates
// every result is derived on demand from grouped store reads and memoized in an
// injected TTL cache that writes invalidate
package service

import (
	"context"
	"math"
	"slices"
	"strings"
	"time"

	"pestwatch/internal/core/geo"
	"pestwatch/internal/platform/cache"
	perr "pestwatch/internal/platform/errors"
	"pestwatch/internal/platform/logger"
	"pestwatch/internal/platform/metrics"
	ptime "pestwatch/internal/platform/time"
	"pestwatch/internal/services/api/analytics/domain"
	"pestwatch/internal/services/api/analytics/repo"
	records "pestwatch/internal/services/records/domain"
)

// maxVolumeMonths bounds an explicit from/to range
const maxVolumeMonths = 1200

// Service defines the analytics service contract
type Service interface {
	domain.ServicePort
	domain.Invalidator
}

// Options tunes aggregation
type Options struct {
	Location     *time.Location
	TrackNotPest bool
	Cache        *cache.Cache
	Aggregates   repo.Aggregates
	Volume       repo.VolumeSource
	Metrics      *metrics.Metrics
}

// Svc implements the analytics service
type Svc struct {
	Repo records.Repo

	loc          *time.Location
	trackNotPest bool
	cache        *cache.Cache
	agg          repo.Aggregates
	volume       repo.VolumeSource
	metrics      *metrics.Metrics
}

var _ Service = (*Svc)(nil)

// New constructs an analytics service
// nil Aggregates fold the record store in process, a nil Volume uses the
// aggregates, a nil Location means UTC
func New(r records.Repo, opts Options) *Svc {
	if r == nil {
		panic("analytics.Service requires a non nil records Repo")
	}
	s := &Svc{
		Repo:         r,
		loc:          opts.Location,
		trackNotPest: opts.TrackNotPest,
		cache:        opts.Cache,
		agg:          opts.Aggregates,
		volume:       opts.Volume,
		metrics:      opts.Metrics,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.agg == nil {
		s.agg = repo.Records{Repo: r}
	}
	if s.volume == nil {
		s.volume = s.agg
	}
	if s.cache == nil {
		s.cache = cache.New(0)
	}
	return s
}

// Invalidate drops every cached aggregate
func (s *Svc) Invalidate() { s.cache.Flush() }

// CategoryCountsByMonth buckets verifications of year by the month they were first
// recorded; categories outside the fixed taxonomy are not counted but are logged
// and reported to metrics
func (s *Svc) CategoryCountsByMonth(ctx context.Context, year int) ([]domain.MonthCategories, error) {
	if year < 1000 || year > 9999 {
		return nil, perr.WithField(perr.Validationf("year must have four digits; got %d", year), "year")
	}
	return cache.Do(s.cache, cache.Key("categories", year), func() ([]domain.MonthCategories, error) {
		rows, err := s.agg.ByMonthCategory(ctx, year, s.loc)
		if err != nil {
			return nil, err
		}
		out := make([]domain.MonthCategories, 12)
		for i := range out {
			m := time.Date(year, time.Month(i+1), 1, 0, 0, 0, 0, s.loc)
			out[i] = domain.MonthCategories{Month: m.Format("2006-01"), Name: m.Month().String()}
		}
		unknown := map[records.Category]int{}
		for _, row := range rows {
			if row.Month < time.January || row.Month > time.December {
				continue
			}
			b, n := &out[row.Month-1], int(row.Count)
			switch row.Category {
			case records.CategoryGoogleSourced:
				b.GoogleSourced += n
			case records.CategoryUnknownSpecies:
				b.UnknownSpecies += n
			case records.CategoryUnrelated:
				b.Unrelated += n
			case records.CategoryRealPest:
				b.RealPest += n
			case "":
			default:
				unknown[row.Category] += n
			}
		}
		if len(unknown) > 0 {
			s.reportUnknownCategories(ctx, year, unknown)
		}
		return out, nil
	})
}

// Coverage groups detections by normalized state, largest share first
// detections without a recognizable state are left out of every figure
func (s *Svc) Coverage(ctx context.Context) ([]domain.StateCoverage, error) {
	return cache.Do(s.cache, cache.Key("coverage"), func() ([]domain.StateCoverage, error) {
		rows, err := s.agg.ByLocation(ctx)
		if err != nil {
			return nil, err
		}
		counts := map[string]int{}
		known := 0
		for _, row := range rows {
			st, ok := geo.Normalize(row.Location)
			if !ok {
				continue
			}
			counts[st.Code] += int(row.Count)
			known += int(row.Count)
		}

		out := make([]domain.StateCoverage, 0, len(counts))
		for _, st := range geo.States {
			n := counts[st.Code]
			if n == 0 {
				continue
			}
			out = append(out, domain.StateCoverage{
				State:      st.Code,
				Name:       st.Name,
				Count:      n,
				Percentage: percent(n, known),
			})
		}
		slices.SortStableFunc(out, func(a, b domain.StateCoverage) int { return b.Count - a.Count })
		return out, nil
	})
}

// percent returns n/total as a percentage rounded to one decimal
func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)*1000/float64(total)) / 10
}

// Volume returns a contiguous monthly detection series
// without bounds it spans the first to the last month holding a detection
func (s *Svc) Volume(ctx context.Context, in domain.VolumeQuery) ([]domain.VolumePoint, error) {
	from, err := s.parseMonth(in.From, "from")
	if err != nil {
		return nil, err
	}
	to, err := s.parseMonth(in.To, "to")
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil {
		if to.Before(*from) {
			return nil, perr.WithField(perr.Validationf("to must not be before from"), "to")
		}
		if span := (to.Year()-from.Year())*12 + int(to.Month()-from.Month()) + 1; span > maxVolumeMonths {
			return nil, perr.WithField(perr.Validationf("range exceeds %d months", maxVolumeMonths), "from")
		}
	}

	return cache.Do(s.cache, cache.Key("volume", from, to), func() ([]domain.VolumePoint, error) {
		counts, err := s.volume.MonthlyVolume(ctx, s.loc)
		if err != nil {
			return nil, err
		}
		byMonth := make(map[time.Time]int64, len(counts))
		var first, last time.Time
		for i, c := range counts {
			m := time.Date(c.Year, c.Month, 1, 0, 0, 0, 0, s.loc)
			byMonth[m] += c.Count
			if i == 0 || m.Before(first) {
				first = m
			}
			if i == 0 || m.After(last) {
				last = m
			}
		}

		switch {
		case from == nil && to == nil && len(counts) == 0:
			return []domain.VolumePoint{}, nil
		case from != nil && to == nil && (len(counts) == 0 || last.Before(*from)):
			last = *from
		case to != nil && from == nil && (len(counts) == 0 || first.After(*to)):
			first = *to
		}
		if from != nil {
			first = *from
		}
		if to != nil {
			last = *to
		}

		months := ptime.Months(first, last)
		out := make([]domain.VolumePoint, 0, len(months))
		for _, m := range months {
			out = append(out, domain.VolumePoint{Timestamp: m, Value: byMonth[m]})
		}
		return out, nil
	})
}

func (s *Svc) parseMonth(v, field string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01", v, s.loc)
	if err != nil {
		return nil, perr.WithField(perr.Validationf("%s must look like 2025-01; got %q", field, v), field)
	}
	return &t, nil
}

// Stats counts verifications per status
// legacy not-pest rows are reported and totalled only when tracked, any other
// unrecognized status is excluded everywhere and logged
func (s *Svc) Stats(ctx context.Context) (domain.VeriStats, error) {
	return cache.Do(s.cache, cache.Key("stats"), func() (domain.VeriStats, error) {
		rows, err := s.agg.ByStatus(ctx)
		if err != nil {
			return domain.VeriStats{}, err
		}
		var (
			out     domain.VeriStats
			notPest int
			unknown = map[records.Status]int{}
		)
		for _, row := range rows {
			n := int(row.Count)
			switch row.Status {
			case records.StatusPending:
				out.Pending += n
			case records.StatusVerified:
				out.Verified += n
			case records.StatusRejected:
				out.Rejected += n
			case records.StatusNotPest:
				if s.trackNotPest {
					notPest += n
				} else {
					unknown[row.Status] += n
				}
			default:
				unknown[row.Status] += n
			}
		}
		out.Total = out.Pending + out.Verified + out.Rejected
		if s.trackNotPest {
			out.NotPest = &notPest
			out.Total += notPest
		}
		if len(unknown) > 0 {
			s.reportUnknown(ctx, unknown)
		}
		return out, nil
	})
}

func (s *Svc) reportUnknown(ctx context.Context, unknown map[records.Status]int) {
	n := 0
	statuses := make([]string, 0, len(unknown))
	for st, c := range unknown {
		n += c
		statuses = append(statuses, string(st))
	}
	slices.Sort(statuses)
	s.metrics.ObserveUnknownStatus(n)
	logger.C(ctx).Warn().
		Str("component", "analytics").
		Int("skipped", n).
		Strs("statuses", statuses).
		Msg("verifications with unrecognized status left out of stats")
}

func (s *Svc) reportUnknownCategories(ctx context.Context, year int, unknown map[records.Category]int) {
	n := 0
	cats := make([]string, 0, len(unknown))
	for c, k := range unknown {
		n += k
		cats = append(cats, string(c))
	}
	slices.Sort(cats)
	s.metrics.ObserveUnknownCategory(n)
	logger.C(ctx).Warn().
		Str("component", "analytics").
		Int("year", year).
		Int("skipped", n).
		Strs("categories", cats).
		Msg("verifications with unrecognized category left out of category counts")
}
