// Package version reports the build identity of a pestwatch binary.
package version

import (
	"runtime"
	"runtime/debug"
)

// BuildInfo holds version information about the service build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

// Service is the name reported by Info; main may override it per binary
var Service = "pestwatch-api"

// Info returns the build information. version, commit and date are set with
// -ldflags "-X 'pestwatch/internal/core/version.version=v0.1.0' -X ...commit=abcd"
// When commit is not injected the vcs revision embedded by the toolchain is used.
func Info() BuildInfo {
	c := commit
	if c == "none" {
		c = vcsRevision()
	}
	return BuildInfo{
		Service: Service,
		Version: version,
		Commit:  c,
		Date:    date,
		Go:      runtime.Version(),
	}
}

func vcsRevision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "none"
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return "none"
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
