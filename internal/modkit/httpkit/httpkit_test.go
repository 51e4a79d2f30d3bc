package httpkit_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pestwatch/internal/modkit/httpkit"
	perrs "pestwatch/internal/platform/errors"
	pnet "pestwatch/internal/platform/net"
	phttp "pestwatch/internal/platform/net/http"
	"pestwatch/internal/platform/net/middleware"

	"github.com/go-chi/chi/v5"
)

type note struct {
	Text string `json:"text" validate:"required,max=10"`
}

func tokens(tok string) (string, error) {
	if tok == "secret" {
		return "reviewer-5", nil
	}
	return "", perrs.Unauthorizedf("bad token")
}

func newRouter() phttp.Router {
	r := phttp.AdaptChi(chi.NewRouter())
	stack := httpkit.CommonStack(httpkit.StackOptions{
		CORS: middleware.CORSOptions{AllowedOrigins: []string{"*"}},
	})
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		api.Route("/notes", func(nr httpkit.Router) {
			httpkit.Get(nr, "/{id}", func(r *http.Request) (any, error) {
				return map[string]string{"id": httpkit.Param(r, "id"), "q": httpkit.Query(r, "q")}, nil
			})
			httpkit.Get(nr, "/", func(r *http.Request) (any, error) {
				n, err := httpkit.QueryInt(r, "limit", 5)
				return n, err
			})
			httpkit.Get(nr, "/boom/now", func(*http.Request) (any, error) { panic("kaboom") })
			httpkit.Protected(nr, httpkit.NewPortFunc(tokens), func(pr httpkit.Router) {
				httpkit.PostJSON(pr, "/", func(r *http.Request, in note) (any, error) {
					uid, err := httpkit.User(r)
					if err != nil {
						return nil, err
					}
					return httpkit.Created(map[string]string{"text": in.Text, "by": uid}), nil
				})
				httpkit.PatchJSON(pr, "/{id}", func(r *http.Request, in note) (any, error) {
					return in, nil
				})
			})
		})
	})
	return r
}

func do(t *testing.T, r phttp.Router, method, path, body, token string) (*httptest.ResponseRecorder, pnet.Wire) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	r.Mux().ServeHTTP(rr, req)

	var env pnet.Wire
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, rr.Body.String(), err)
		}
	}
	return rr, env
}

func TestStack_ReadsAndWrites(t *testing.T) {
	r := newRouter()

	rr, env := do(t, r, http.MethodGet, "/api/v1/notes/n-1?q=%20toad%20", "", "")
	if rr.Code != http.StatusOK || env.RequestID == "" {
		t.Fatalf("get: %d %+v", rr.Code, env)
	}
	if m := env.Data.(map[string]any); m["id"] != "n-1" || m["q"] != "toad" {
		t.Fatalf("data = %v", env.Data)
	}

	rr, env = do(t, r, http.MethodPost, "/api/v1/notes", `{"text":"seen"}`, "secret")
	if rr.Code != http.StatusCreated {
		t.Fatalf("post: %d %+v", rr.Code, env)
	}
	if m := env.Data.(map[string]any); m["by"] != "reviewer-5" {
		t.Fatalf("data = %v", env.Data)
	}

	rr, _ = do(t, r, http.MethodPatch, "/api/v1/notes/n-1", `{"text":"edited"}`, "secret")
	if rr.Code != http.StatusOK {
		t.Fatalf("patch: %d", rr.Code)
	}
}

func TestStack_Errors(t *testing.T) {
	r := newRouter()

	cases := []struct {
		name, method, path, body, token string
		code                            int
		errCode                         perrs.ErrorCode
	}{
		{"no token", http.MethodPost, "/api/v1/notes", `{"text":"x"}`, "", http.StatusUnauthorized, perrs.ErrorCodeUnauthorized},
		{"wrong token", http.MethodPost, "/api/v1/notes", `{"text":"x"}`, "guess", http.StatusUnauthorized, perrs.ErrorCodeUnauthorized},
		{"invalid body", http.MethodPost, "/api/v1/notes", `{"text":"far too long text"}`, "secret", http.StatusBadRequest, perrs.ErrorCodeValidation},
		{"bad query int", http.MethodGet, "/api/v1/notes?limit=many", "", "", http.StatusBadRequest, perrs.ErrorCodeValidation},
		{"panic", http.MethodGet, "/api/v1/notes/boom/now", "", "", http.StatusInternalServerError, perrs.ErrorCodePanic},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rr, env := do(t, r, c.method, c.path, c.body, c.token)
			if rr.Code != c.code || env.Code != c.errCode || env.Error == "" {
				t.Fatalf("got %d %+v", rr.Code, env)
			}
		})
	}
}

func TestUser_Anonymous(t *testing.T) {
	if _, err := httpkit.User(httptest.NewRequest(http.MethodGet, "/", nil)); !perrs.IsCode(err, perrs.ErrorCodeUnauthorized) {
		t.Fatalf("err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	if err := httpkit.Validate(note{Text: "ok"}); err != nil {
		t.Fatal(err)
	}
	if err := httpkit.Validate(note{}); !perrs.IsCode(err, perrs.ErrorCodeValidation) {
		t.Fatalf("err = %v", err)
	}
}
