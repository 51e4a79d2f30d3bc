package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pestwatch/internal/platform/testkit"
)

func shaped(t *testing.T, raw string) map[string]any {
	t.Helper()
	out, err := shapeSpec(raw)
	if err != nil {
		t.Fatalf("shapeSpec: %v", err)
	}
	var spec map[string]any
	if err := json.Unmarshal(out, &spec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return spec
}

func TestShapeSpec_LiftsSwagger2AndAddsServers(t *testing.T) {
	spec := shaped(t, `{"swagger":"2.0","info":{"title":"x"},"paths":{}}`)
	if spec["openapi"] != "3.0.3" {
		t.Fatalf("openapi = %v", spec["openapi"])
	}
	if _, ok := spec["swagger"]; ok {
		t.Fatalf("swagger key should be removed")
	}
	servers, _ := spec["servers"].([]any)
	if len(servers) != 1 || servers[0].(map[string]any)["url"] != "/api/v1" {
		t.Fatalf("servers = %v", spec["servers"])
	}
}

func TestShapeSpec_Downconverts31(t *testing.T) {
	spec := shaped(t, `{"openapi":"3.1.0","servers":[{"url":"/x"}]}`)
	if spec["openapi"] != "3.0.3" {
		t.Fatalf("openapi = %v", spec["openapi"])
	}
	if spec["servers"].([]any)[0].(map[string]any)["url"] != "/x" {
		t.Fatalf("existing servers should be kept")
	}
}

func TestShapeSpec_AddsErrorsAndUnauthorizedOnSecuredOps(t *testing.T) {
	raw := `{"openapi":"3.0.3","paths":{
		"/verifications":{
			"get":{"responses":{"200":{"description":"ok"}}},
			"post":{"security":[{"bearerAuth":[]}],"responses":{"400":{"description":"custom"}}}
		}}}`
	spec := shaped(t, raw)

	ops := spec["paths"].(map[string]any)["/verifications"].(map[string]any)
	get := ops["get"].(map[string]any)["responses"].(map[string]any)
	post := ops["post"].(map[string]any)["responses"].(map[string]any)

	for _, k := range []string{"200", "400", "500"} {
		if _, ok := get[k]; !ok {
			t.Fatalf("get missing %s: %v", k, get)
		}
	}
	if _, ok := get["401"]; ok {
		t.Fatalf("public op should not get 401")
	}
	if _, ok := post["401"]; !ok {
		t.Fatalf("secured op missing 401")
	}
	if post["400"].(map[string]any)["description"] != "custom" {
		t.Fatalf("declared response overwritten: %v", post["400"])
	}

	comps := spec["components"].(map[string]any)
	if _, ok := comps["schemas"].(map[string]any)["ErrorResponse"]; !ok {
		t.Fatalf("ErrorResponse schema missing")
	}
	if _, ok := comps["securitySchemes"].(map[string]any)["bearerAuth"]; !ok {
		t.Fatalf("bearerAuth scheme missing")
	}
}

func TestShapeSpec_TitleSuffixAndMutators(t *testing.T) {
	t.Setenv("CORE_API_DOCS_TITLE_SUFFIX", "(staging)")
	prev := mutators
	t.Cleanup(func() { mutators = prev })
	Register(nil)
	Register(func(spec map[string]any) { spec["x-pestwatch"] = true })

	spec := shaped(t, `{"openapi":"3.0.3","info":{"title":"Pestwatch API"}}`)
	if spec["info"].(map[string]any)["title"] != "Pestwatch API (staging)" {
		t.Fatalf("title = %v", spec["info"])
	}
	if spec["x-pestwatch"] != true {
		t.Fatalf("mutator not applied")
	}
}

func TestServeDocJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	serveDocJSON()(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("cache header = %q", rec.Header().Get("Cache-Control"))
	}

	testkit.Swap(t, &docReader, func() string { return "{" })
	rec = httptest.NewRecorder()
	serveDocJSON()(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("bad doc status = %d", rec.Code)
	}
}
