// Package module wires feedback into the API using modkit
package module

import (
	"net/http"

	modkit "dragoman/internal/modkit"
	"dragoman/internal/modkit/httpkit"
	str "dragoman/internal/platform/strings"
	fhttp "dragoman/internal/services/api/feedback/http"
	fdom "dragoman/internal/services/feedback/domain"
)

// Ports declares the injected reporter port this API module requires
type Ports struct {
	Reporter fdom.ReporterPort
}

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// New constructs a feedback API module; the reporter port arrives via WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("feedback-api"),
		modkit.WithPrefix("/feedback"),
	}, opts...)...)

	p, ok := b.Ports.(Ports)
	if !ok || p.Reporter == nil {
		panic("feedback API module requires a Reporter port")
	}

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		ports:     p,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		fhttp.Register(r, p.Reporter)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "feedback-api") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares implements the modkit.Module interface
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }
