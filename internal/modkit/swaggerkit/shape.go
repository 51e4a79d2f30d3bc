// Package swaggerkit provides OpenAPI swagger UI integration for HTTP services
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"pestwatch/internal/platform/config"
	perr "pestwatch/internal/platform/errors"
)

// SpecMutator lets modules tweak the parsed swagger spec before it is served
type SpecMutator func(map[string]any)

// mutators is the in process registry for spec mutators
var mutators []SpecMutator

// Register adds a spec mutator for swagger JSON
func Register(m SpecMutator) {
	if m != nil {
		mutators = append(mutators, m)
	}
}

// defaultErrors are injected into every operation that does not declare them
var defaultErrors = []struct {
	status int
	code   perr.ErrorCode
	msg    string
}{
	{http.StatusBadRequest, perr.ErrorCodeValidation, "limit: must be 1 or more"},
	{http.StatusInternalServerError, perr.ErrorCodePanic, "panic recovered"},
}

// serveDocJSON serves the shaped spec
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := shapeSpec(docReader())
		if err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(out)
	}
}

// shapeSpec lifts the raw doc to OAS3 and adds the shared envelope and errors
func shapeSpec(raw string) ([]byte, error) {
	var spec map[string]any
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return nil, err
	}

	ensureServers(spec, "/api/v1")

	cfg := config.New().Prefix("CORE_API_")
	if v := cfg.MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
		if info, ok := spec["info"].(map[string]any); ok {
			if title, ok := info["title"].(string); ok {
				info["title"] = title + " " + v
			}
		}
	}

	schemas := components(spec, "schemas")
	if _, ok := schemas["ErrorResponse"]; !ok {
		schemas["ErrorResponse"] = errorEnvelope()
	}
	components(spec, "securitySchemes")["bearerAuth"] = map[string]any{
		"type":   "http",
		"scheme": "bearer",
	}

	eachOperation(spec, func(op map[string]any) {
		resps, ok := op["responses"].(map[string]any)
		if !ok {
			resps = map[string]any{}
			op["responses"] = resps
		}
		for _, e := range defaultErrors {
			addResponse(resps, e.status, e.code, e.msg)
		}
		if _, secured := op["security"]; secured {
			addResponse(resps, http.StatusUnauthorized, perr.ErrorCodeUnauthorized, "missing bearer token")
		}
	})

	for _, m := range mutators {
		m(spec)
	}
	return json.Marshal(spec)
}

// ensureServers makes sure the spec is OAS3 and has a servers array
// swagger http ui can't render 3.1 yet so it is downconverted
func ensureServers(spec map[string]any, url string) {
	if _, hasSwagger := spec["swagger"]; hasSwagger {
		spec["openapi"] = "3.0.3"
		delete(spec, "swagger")
	}
	if v, ok := spec["openapi"].(string); !ok || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": url}}
	}
}

func components(spec map[string]any, section string) map[string]any {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	sec, ok := comps[section].(map[string]any)
	if !ok {
		sec = map[string]any{}
		comps[section] = sec
	}
	return sec
}

// errorEnvelope mirrors the runtime error wire
func errorEnvelope() map[string]any {
	return map[string]any{
		"type":        "object",
		"description": "Standard error response",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"error":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status"},
	}
}

func eachOperation(spec map[string]any, fn func(op map[string]any)) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			if op, ok := opAny.(map[string]any); ok {
				fn(op)
			}
		}
	}
}

func addResponse(resps map[string]any, status int, code perr.ErrorCode, msg string) {
	key := strconv.Itoa(status)
	if _, exists := resps[key]; exists {
		return
	}
	resps[key] = map[string]any{
		"description": http.StatusText(status),
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": status,
					"status":      http.StatusText(status),
					"code":        code,
					"error":       msg,
					"request_id":  "pestwatch/abc-000001",
				},
			},
		},
	}
}
