// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"net/http"
	"time"

	"dragoman/internal/core/rulelib"
	modkit "dragoman/internal/modkit"
	"dragoman/internal/modkit/httpkit"
	str "dragoman/internal/platform/strings"
	metahttp "dragoman/internal/services/api/meta/http"
)

// Ports declares the optional singletons meta can report on
type Ports struct {
	Rules *rulelib.Store
	CH    any
}

// Module implements the modkit.Module interface
type Module struct {
	deps      modkit.Deps
	name      string
	prefix    string
	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	startedAt time.Time
}

// snapshotVersion adapts the rule store to the meta handler seam
type snapshotVersion struct{ st *rulelib.Store }

func (s snapshotVersion) Version() uint64 { return s.st.Snapshot().Version }

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	p, _ := b.Ports.(Ports)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		ports:     b.Ports,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		startedAt: time.Now(),
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		d := metahttp.Deps{
			ServiceName: "dragoman-api",
			StartedAt:   m.startedAt,
			PG:          deps.PG,
			CH:          p.CH,
		}
		if p.Rules != nil {
			d.Rules = snapshotVersion{st: p.Rules}
		}
		metahttp.Register(r, d)
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
func (m *Module) Name() string { return str.MustString(m.name, "meta") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares implements the modkit.Module interface
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }
