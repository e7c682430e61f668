// Package module wires the recovery coordinator using modkit
package module

import (
	"dragoman/internal/adapters/llm"
	"dragoman/internal/core/purity"
	"dragoman/internal/core/rulelib"
	modkit "dragoman/internal/modkit"
	phttp "dragoman/internal/platform/net/http"
	"dragoman/internal/services/recovery/canned"
	dom "dragoman/internal/services/recovery/domain"
	"dragoman/internal/services/recovery/service"
)

// Ports exposed by the recovery module
type Ports struct {
	Coordinator dom.CoordinatorPort
}

// Deps are the shared singletons the coordinator operates on
type Deps struct {
	Provider  llm.Provider
	Rules     *rulelib.Store
	Validator *purity.Validator
}

// Module implements modkit.Module
type Module struct {
	ports Ports
}

// New constructs the recovery module
func New(_ modkit.Deps, rd Deps, opts ...modkit.Option) *Module {
	_ = modkit.Build(append([]modkit.Option{modkit.WithName("recovery")}, opts...)...)

	if rd.Provider == nil || rd.Rules == nil || rd.Validator == nil {
		panic("recovery module: missing Provider, Rules or Validator")
	}
	corpus, err := canned.Load()
	if err != nil {
		panic(err)
	}

	svc := service.New(rd.Provider, rd.Rules, rd.Validator, corpus)
	return &Module{ports: Ports{Coordinator: svc}}
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "recovery" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module; recovery has no HTTP surface
func (m *Module) MountRoutes(_ phttp.Router) {}
