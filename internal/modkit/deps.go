// Package modkit wires API modules: shared deps, build options and a base Module
package modkit

import (
	"pestwatch/internal/modkit/repokit"
	"pestwatch/internal/platform/config"
	"pestwatch/internal/platform/logger"
	"pestwatch/internal/platform/metrics"
	"pestwatch/internal/platform/store"
)

// Deps holds what main hands every module. Stores are nil when disabled and a
// nil Metrics records nothing
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	PG      repokit.TxRunner
	CH      store.Clickhouse
	Metrics *metrics.Metrics
}
