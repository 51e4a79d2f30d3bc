// Package swaggerkit provides helpers to mount Swagger UI and JSON spec
package swaggerkit

import (
	"net/http"
	"strings"

	phttp "pestwatch/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// DefaultPath is where the UI lives unless Options.Path says otherwise
const DefaultPath = "/api/docs"

// Options controls the docs mount
type Options struct {
	Enabled bool
	Path    string // base path, DefaultPath when empty
	// Expand is the UI doc expansion: "list", "full" or "none"
	Expand string
}

func (o Options) base() string {
	p := strings.TrimRight(strings.TrimSpace(o.Path), "/")
	if p == "" {
		return DefaultPath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// Mount serves the shaped document at <path>/doc.json and the UI under <path>/
func Mount(r phttp.Router, o Options) {
	if !o.Enabled {
		return
	}
	base := o.base()
	expand := o.Expand
	if expand == "" {
		expand = "list"
	}

	r.Get(base, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, base+"/", http.StatusPermanentRedirect)
	})
	r.Get(base+"/doc.json", serveDocJSON())
	r.Handle(base+"/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL(base+"/doc.json"),
		httpSwagger.DocExpansion(expand),
		httpSwagger.DeepLinking(true),
	))
}
