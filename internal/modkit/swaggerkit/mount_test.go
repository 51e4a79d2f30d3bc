package swaggerkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "pestwatch/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestMount_Paths(t *testing.T) {
	cases := []struct {
		name string
		opts Options
		base string
	}{
		{"default", Options{Enabled: true}, DefaultPath},
		{"custom", Options{Enabled: true, Path: "docs/", Expand: "none"}, "/docs"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := phttp.AdaptChi(chi.NewRouter())
			Mount(r, tc.opts)
			h := r.Mux()

			if rec := serve(h, tc.base); rec.Code != http.StatusPermanentRedirect || rec.Header().Get("Location") != tc.base+"/" {
				t.Fatalf("redirect: %d %q", rec.Code, rec.Header().Get("Location"))
			}
			if rec := serve(h, tc.base+"/doc.json"); rec.Code != http.StatusOK {
				t.Fatalf("doc.json: %d", rec.Code)
			}
		})
	}
}

func TestMount_Disabled(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, Options{Path: "/docs"})
	if rec := serve(r.Mux(), "/docs/doc.json"); rec.Code != http.StatusNotFound {
		t.Fatalf("disabled docs served: %d", rec.Code)
	}
}
