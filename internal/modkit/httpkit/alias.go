package httpkit

import (
	"net/http"

	phttp "pestwatch/internal/platform/net/http"
	"pestwatch/internal/platform/net/http/bind"
)

type (
	// Envelope is the response body every endpoint writes
	Envelope = phttp.Envelope

	// Response lets a handler pick its own status
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router
)

// Created returns a 201 response
func Created(data any) Response { return phttp.Created(data) }

// Validate checks v against its validate tags
func Validate(v any) error { return bind.Struct(v) }

// Param returns a path parameter captured by the router
func Param(r *http.Request, key string) string { return phttp.URLParam(r, key) }

// QueryInt parses an optional integer query value or fails with a validation error
func QueryInt(r *http.Request, key string, def int) (int, error) { return phttp.QueryInt(r, key, def) }

// Query returns a trimmed query value
func Query(r *http.Request, key string) string { return phttp.QueryString(r, key) }
