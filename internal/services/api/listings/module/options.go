package module

import "pestwatch/internal/platform/config"

// Options controls listing limits
type Options struct {
	MaxLimit int
}

// FromConfig reads LISTINGS_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("LISTINGS_")
	return Options{
		MaxLimit: c.MayInt("MAX_LIMIT", 100),
	}
}
