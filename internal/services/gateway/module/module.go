// Package module wires the translation gateway using modkit
package module

import (
	"dragoman/internal/adapters/llm"
	"dragoman/internal/core/purity"
	"dragoman/internal/core/rulelib"
	modkit "dragoman/internal/modkit"
	phttp "dragoman/internal/platform/net/http"
	dom "dragoman/internal/services/gateway/domain"
	"dragoman/internal/services/gateway/service"
	mdom "dragoman/internal/services/monitor/domain"
	rdom "dragoman/internal/services/recovery/domain"
)

// Ports exposed by the gateway module
type Ports struct {
	Translator dom.TranslatorPort
}

// Deps are the shared singletons and sibling ports the gateway needs
type Deps struct {
	Provider  llm.Provider
	Rules     *rulelib.Store
	Validator *purity.Validator
	Recoverer rdom.CoordinatorPort
	Recorder  mdom.RecorderPort
}

// Module implements modkit.Module
type Module struct {
	ports Ports
}

// New constructs the gateway module. Recorder may be nil; the other
// deps are required
func New(deps modkit.Deps, gd Deps, opts ...modkit.Option) *Module {
	_ = modkit.Build(append([]modkit.Option{modkit.WithName("gateway")}, opts...)...)

	if gd.Provider == nil || gd.Rules == nil || gd.Validator == nil || gd.Recoverer == nil {
		panic("gateway module: missing Provider, Rules, Validator or Recoverer")
	}

	svc := service.New(gd.Provider, gd.Rules, gd.Validator, gd.Recoverer, gd.Recorder)

	return &Module{ports: Ports{Translator: svc}}
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "gateway" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module; the HTTP surface lives in the api service
func (m *Module) MountRoutes(_ phttp.Router) {}
