package modkit

import (
	"net/http"

	"dcbadmin/internal/modkit/httpkit"
	str "dcbadmin/internal/platform/strings"
)

// Built is a plain struct with the fields modules care about
type Built struct {
	Name     string
	Prefix   string
	Mw       []func(http.Handler) http.Handler
	Ports    any
	Register func(httpkit.Router)
}

// Build applies Option funcs to an internal buildCfg and returns a plain struct
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	return Built{
		Name:     c.name,
		Prefix:   c.prefix,
		Mw:       append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:    c.ports,
		Register: c.register,
	}
}

// Module finishes a build into a mountable module
// ports are what the module exports, which is not the ports it was given
// mount attaches the module's own endpoints; a WithRegister hook runs after it
func (b Built) Module(ports any, mount func(httpkit.Router)) Module {
	return &built{
		name:   str.MustString(b.Name, "module name"),
		prefix: str.MustPrefix(b.Prefix),
		mw:     b.Mw,
		ports:  ports,
		mount:  mount,
		extra:  b.Register,
	}
}

type built struct {
	name   string
	prefix string
	mw     []func(http.Handler) http.Handler
	ports  any
	mount  func(httpkit.Router)
	extra  func(httpkit.Router)
}

func (m *built) Name() string { return m.name }
func (m *built) Ports() any   { return m.ports }

func (m *built) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mw {
			rr.Use(mw)
		}
		if m.mount != nil {
			m.mount(rr)
		}
		if m.extra != nil {
			m.extra(rr)
		}
	})
}
