package modkit

import "net/http"

// Built is what a module reads back from its options
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any
}

// Build applies opts in order, later options win
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	return Built{
		Name:   c.name,
		Prefix: c.prefix,
		Mw:     append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:  c.ports,
	}
}

// Injected returns the ports passed with WithPorts when they are a T
func Injected[T any](b Built) (T, bool) {
	p, ok := b.Ports.(T)
	return p, ok
}
