package module

import (
	"strings"
	"time"

	"pestwatch/internal/platform/config"
	"pestwatch/internal/platform/logger"
)

// Volume sources
const (
	VolumeRecords    = "records"
	VolumeClickhouse = "clickhouse"
)

// Options controls aggregation and caching
type Options struct {
	CacheTTL     time.Duration // zero disables the cache
	Location     *time.Location
	TrackNotPest bool
	VolumeSource string
	// MaxInFlight bounds concurrent analytics requests, zero is unbounded
	MaxInFlight int
}

// FromConfig reads ANALYTICS_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("ANALYTICS_")
	tz := c.MayString("TZ", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		logger.Get().Warn().Str("key", "ANALYTICS_TZ").Str("value", tz).Err(err).Msg("unknown time zone; using UTC")
		loc = time.UTC
	}
	return Options{
		CacheTTL:     c.MayDuration("CACHE_TTL", 5*time.Minute),
		Location:     loc,
		TrackNotPest: c.MayBool("TRACK_NOT_PEST", true),
		VolumeSource: strings.ToLower(c.MayEnum("VOLUME_SOURCE", VolumeRecords, VolumeRecords, VolumeClickhouse)),
		MaxInFlight:  c.MayInt("MAX_IN_FLIGHT", 0),
	}
}
