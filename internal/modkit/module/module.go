// Package module holds the module contract and the cross-module port plumbing
// used during bootstrap
package module

import phttp "pestwatch/internal/platform/net/http"

// Module is the contract the port helpers work against. It sits apart from
// modkit so a module's ports package never imports modkit
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
