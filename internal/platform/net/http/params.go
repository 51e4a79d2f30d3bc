package http

import (
	stdhttp "net/http"
	"strconv"
	"strings"

	perr "pestwatch/internal/platform/errors"

	"github.com/go-chi/chi/v5"
)

// URLParam returns a path parameter captured by the router
func URLParam(r *stdhttp.Request, key string) string {
	return strings.TrimSpace(chi.URLParam(r, key))
}

// QueryInt parses an optional integer query value
// a missing value yields def; a malformed one is a validation error on key
func QueryInt(r *stdhttp.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, perr.WithField(perr.Validationf("%s must be an integer, got %q", key, raw), key)
	}
	return n, nil
}

// QueryString returns a trimmed query value
func QueryString(r *stdhttp.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}
