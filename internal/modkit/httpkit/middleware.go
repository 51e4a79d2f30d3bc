package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "pestwatch/internal/platform/net/http"
	"pestwatch/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	CORS        middleware.CORSOptions
	MaxInFlight int           // 0 leaves concurrency unbounded
	SlowRequest time.Duration // 0 disables slow request warnings
	Timeout     time.Duration // defaults to 30s
}

// CommonStack is the middleware every API scope runs, outermost first
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLog(middleware.AccessLogOptions{Slow: o.SlowRequest}),
		middleware.RecoverJSON(phttp.JSON),
		middleware.Throttle(o.MaxInFlight),
		middleware.NoCache(),
		middleware.CORS(o.CORS),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(o.Timeout),
	}
}

// Auth wires the auth middleware to the envelope writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}
