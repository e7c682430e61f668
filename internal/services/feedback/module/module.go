// Package module wires the feedback loop using modkit
package module

import (
	"dragoman/internal/core/purity"
	"dragoman/internal/core/rulelib"
	modkit "dragoman/internal/modkit"
	phttp "dragoman/internal/platform/net/http"
	dom "dragoman/internal/services/feedback/domain"
	"dragoman/internal/services/feedback/repo"
	"dragoman/internal/services/feedback/service"
	rdom "dragoman/internal/services/regression/domain"
	rulesrepo "dragoman/internal/services/rules/repo"
)

// Ports exposed by the feedback module
type Ports struct {
	Reporter dom.ReporterPort
}

// Deps are the shared singletons the fix worker operates on
type Deps struct {
	Rules      *rulelib.Store
	Validator  *purity.Validator
	Regression rdom.RunnerPort
}

// Module implements modkit.Module
type Module struct {
	ports Ports
	svc   *service.Service
}

// New constructs the feedback module. Reports are durable, so Postgres
// is required; Regression may be nil, which activates fixes ungated
func New(deps modkit.Deps, fd Deps, opts ...modkit.Option) *Module {
	_ = modkit.Build(append([]modkit.Option{modkit.WithName("feedback")}, opts...)...)

	if deps.PG == nil {
		panic("feedback module requires Postgres")
	}
	if fd.Rules == nil || fd.Validator == nil {
		panic("feedback module: missing Rules or Validator")
	}

	cfg := FromConfig(deps.Cfg)
	svc := service.New(service.WorkerConfig{
		Interval:    cfg.Interval,
		Batch:       cfg.Batch,
		Lease:       cfg.Lease,
		Concurrency: cfg.Concurrency,
	}, repo.NewPG().Bind(deps.PG), fd.Rules, fd.Validator, fd.Regression,
		rulesrepo.NewPG().Bind(deps.PG))

	return &Module{ports: Ports{Reporter: svc}, svc: svc}
}

// Service returns the underlying service so main can start the worker
func (m *Module) Service() *service.Service { return m.svc }

// Name satisfies modkit.Module
func (m *Module) Name() string { return "feedback" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module; the HTTP surface lives in the api service
func (m *Module) MountRoutes(_ phttp.Router) {}
