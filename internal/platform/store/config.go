package store

import "time"

// Config selects and configures the backends Open brings up
type Config struct {
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures the postgres pool
type PGConfig struct {
	Enabled   bool
	URL       string
	MaxConns  int32
	LogSQL    bool
	SlowQuery time.Duration

	// ConnectRetries bounds startup pings after the first, zero means 6
	ConnectRetries int
	// PingTimeout bounds each startup ping, zero means 5s
	PingTimeout time.Duration
}

// CHConfig configures the clickhouse mirror connection
type CHConfig struct {
	Enabled bool
	URL     string

	// Role is reported to the server as client info, e.g. "api"
	Role string
}

func (c PGConfig) retries() uint64 {
	if c.ConnectRetries <= 0 {
		return 6
	}
	return uint64(c.ConnectRetries)
}

func (c PGConfig) pingTimeout() time.Duration {
	if c.PingTimeout <= 0 {
		return 5 * time.Second
	}
	return c.PingTimeout
}
