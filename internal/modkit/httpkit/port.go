// Package httpkit is what modules import to mount routes: handler adapters,
// bearer auth and the shared middleware stack
package httpkit

import (
	"net/http"
	"strings"

	perrs "pestwatch/internal/platform/errors"
)

// TokenFunc turns a bearer token into the caller's user id
type TokenFunc func(token string) (userID string, err error)

// Port implements middleware.AuthPort over the Authorization header
type Port struct {
	parse TokenFunc
}

// NewPortFunc builds a Port from a token parser
func NewPortFunc(fn TokenFunc) *Port { return &Port{parse: fn} }

// Parse requires "Bearer <token>" (scheme case-insensitive) and a parser that
// accepts the token with a non-empty user id
func (p *Port) Parse(r *http.Request) (string, error) {
	token, err := bearer(r)
	if err != nil {
		return "", err
	}
	if p.parse == nil {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}
	uid, err := p.parse(token)
	if err != nil || uid == "" {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}
	return uid, nil
}

func bearer(r *http.Request) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return token, nil
}
