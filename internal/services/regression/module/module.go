// Package module wires the regression suite using modkit
package module

import (
	"time"

	"dragoman/internal/core/purity"
	"dragoman/internal/core/rulelib"
	modkit "dragoman/internal/modkit"
	phttp "dragoman/internal/platform/net/http"
	"dragoman/internal/platform/store"
	dom "dragoman/internal/services/regression/domain"
	"dragoman/internal/services/regression/repo"
	"dragoman/internal/services/regression/service"
)

// Ports exposed by the regression module
type Ports struct {
	Runner dom.RunnerPort
}

// Deps are the shared singletons the runner replays against
type Deps struct {
	Rules     *rulelib.Store
	Validator *purity.Validator
}

// Module implements modkit.Module
type Module struct {
	ports Ports
	svc   *service.Service
}

// New constructs the regression module. Postgres persistence and the
// ClickHouse run sink engage only when deps carry those seams
func New(deps modkit.Deps, rd Deps, opts ...modkit.Option) *Module {
	_ = modkit.Build(append([]modkit.Option{modkit.WithName("regression")}, opts...)...)

	if rd.Rules == nil || rd.Validator == nil {
		panic("regression module: missing Rules or Validator")
	}

	var pg repo.Repo
	if deps.PG != nil {
		pg = repo.NewPG().Bind(deps.PG)
	}
	var ch store.Clickhouse
	if deps.CH != nil {
		ch = deps.CH
	}

	svc, err := service.New(rd.Rules, rd.Validator, pg, ch,
		service.WithInterval(deps.Cfg.Prefix("REGRESSION_").MayDuration("INTERVAL", time.Hour)))
	if err != nil {
		panic(err)
	}
	return &Module{ports: Ports{Runner: svc}, svc: svc}
}

// Service returns the underlying runner so main can start the
// scheduled replay loop
func (m *Module) Service() *service.Service { return m.svc }

// Name satisfies modkit.Module
func (m *Module) Name() string { return "regression" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module; the HTTP surface lives in the api service
func (m *Module) MountRoutes(_ phttp.Router) {}
