package modkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	phttp "pestwatch/internal/platform/net/http"
	"pestwatch/internal/platform/testkit"
)

type storePorts struct{ Driver string }

func tag(v string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Mw", v)
			next.ServeHTTP(w, r)
		})
	}
}

func TestBuild_LaterOptionsWin(t *testing.T) {
	t.Parallel()

	b := Build(
		WithName("verify"),
		WithPrefix("/verifications"),
		WithMiddlewares(tag("a")),
		WithPorts(storePorts{Driver: "memory"}),
		WithName("verify-v2"),
		WithMiddlewares(tag("b")),
	)
	if b.Name != "verify-v2" || b.Prefix != "/verifications" || len(b.Mw) != 2 {
		t.Fatalf("built %+v", b)
	}
	p, ok := Injected[storePorts](b)
	if !ok || p.Driver != "memory" {
		t.Fatalf("injected = %+v, %v", p, ok)
	}
	if _, ok := Injected[int](b); ok {
		t.Fatal("wrong type should not match")
	}
	if _, ok := Injected[storePorts](Build()); ok {
		t.Fatal("nothing injected should not match")
	}
}

func TestBase_MountsUnderPrefixWithMiddleware(t *testing.T) {
	t.Parallel()

	b := Build(WithName("listings"), WithPrefix(" listings/ "), WithMiddlewares(tag("a"), tag("b")))
	var m Module = NewBase(b, storePorts{Driver: "pg"}, func(r phttp.Router) {
		r.Get("/detections", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	})
	if m.Name() != "listings" || m.Ports().(storePorts).Driver != "pg" {
		t.Fatalf("module %q %v", m.Name(), m.Ports())
	}

	r := phttp.AdaptChi(chi.NewRouter())
	m.MountRoutes(r)
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/listings/detections", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("code = %d", rec.Code)
	}
	if got := rec.Header().Values("X-Mw"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("middleware order = %v", got)
	}
}

func TestBase_RequiresNameAndPrefix(t *testing.T) {
	t.Parallel()

	m := NewBase(Build(), nil, nil)
	testkit.MustPanic(t, func() { _ = m.Name() })
	testkit.MustPanic(t, func() { m.MountRoutes(phttp.AdaptChi(chi.NewRouter())) })
}
