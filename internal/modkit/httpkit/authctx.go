package httpkit

import (
	"net/http"

	perrs "pestwatch/internal/platform/errors"
	pnet "pestwatch/internal/platform/net"
)

// User returns the caller stored by the auth middleware
func User(r *http.Request) (string, error) {
	if uid := pnet.UserID(r.Context()); uid != "" {
		return uid, nil
	}
	return "", perrs.Unauthorizedf("missing bearer token")
}
