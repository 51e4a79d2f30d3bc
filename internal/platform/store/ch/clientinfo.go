package ch

import (
	"os"
	"strings"

	"pestwatch/internal/core/version"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// clientInfo identifies this process in system.query_log
func clientInfo(role string) clickhouse.ClientInfo {
	bi := version.Info()
	host, _ := os.Hostname()
	return clickhouse.ClientInfo{Products: []struct{ Name, Version string }{
		{Name: "pestwatch", Version: bi.Version},
		{Name: "role", Version: strings.TrimSpace(role)},
		{Name: "go", Version: bi.Go},
		{Name: "commit", Version: bi.Commit},
		{Name: "host", Version: host},
	}}
}
