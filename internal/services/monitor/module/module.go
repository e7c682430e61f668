// Package module wires the quality monitor using modkit
package module

import (
	modkit "dragoman/internal/modkit"
	phttp "dragoman/internal/platform/net/http"
	"dragoman/internal/platform/store"
	dom "dragoman/internal/services/monitor/domain"
	"dragoman/internal/services/monitor/service"
)

// Ports exposed by the monitor module
type Ports struct {
	Recorder dom.RecorderPort
	Reader   dom.ReaderPort
}

// Module implements modkit.Module
type Module struct {
	ports Ports
}

// New constructs the monitor module. The ClickHouse sink engages only
// when deps carry a CH seam
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	_ = modkit.Build(append([]modkit.Option{modkit.WithName("monitor")}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	var ch store.Clickhouse
	if deps.CH != nil {
		ch = deps.CH
	}
	svc := service.New(service.Config{
		Window:        cfg.Window,
		FallbackAlert: cfg.FallbackAlert,
		MinSample:     cfg.MinSample,
	}, ch)

	return &Module{ports: Ports{Recorder: svc, Reader: svc}}
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "monitor" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module; the HTTP surface lives in the api service
func (m *Module) MountRoutes(_ phttp.Router) {}
