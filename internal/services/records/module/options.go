package module

import (
	"strings"

	"pestwatch/internal/platform/config"
)

// Store drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Options selects and prepares the record store
type Options struct {
	Driver  string
	Migrate bool
}

// FromConfig reads SERVICE_STORE_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("SERVICE_STORE_")
	return Options{
		Driver:  strings.ToLower(c.MayEnum("DRIVER", DriverPostgres, DriverPostgres, DriverMemory)),
		Migrate: c.MayBool("MIGRATE", true),
	}
}
