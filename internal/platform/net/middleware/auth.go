package middleware

import (
	"net/http"

	"pestwatch/internal/platform/logger"
	pnet "pestwatch/internal/platform/net"
)

// AuthPort resolves the caller behind a request
type AuthPort interface {
	// Parse returns the caller's user id or an error the envelope can map
	Parse(r *http.Request) (userID string, err error)
}

// Auth rejects requests the port cannot resolve and stores the caller on ctx.
// A nil port lets every request through anonymously
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			uid, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithUser(r.Context(), uid)
			ctx = logger.WithRequest(ctx, "", uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
