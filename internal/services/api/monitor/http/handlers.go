// Package http provides http transport for the quality monitor
package http

import (
	stdhttp "net/http"

	"dragoman/internal/modkit/httpkit"
	mdom "dragoman/internal/services/monitor/domain"
)

// Register mounts monitor endpoints on the given router
func Register(r httpkit.Router, reader mdom.ReaderPort) {
	h := &handlers{reader: reader}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/stats", h.stats)
}

type handlers struct{ reader mdom.ReaderPort }

// swagger:route GET /monitor/health Monitor monitorHealth
// @Summary Pipeline health with the fallback-rate alert
// @Tags Monitor
// @Produce json
// @Success 200 {object} mdom.Health "ok"
// @Router /monitor/health [get]
func (h *handlers) health(r *stdhttp.Request) (any, error) {
	return h.reader.Health(r.Context()), nil
}

// swagger:route GET /monitor/stats Monitor monitorStats
// @Summary Windowed outcome statistics per language pair
// @Tags Monitor
// @Produce json
// @Success 200 {object} mdom.Stats "ok"
// @Router /monitor/stats [get]
func (h *handlers) stats(r *stdhttp.Request) (any, error) {
	return h.reader.Stats(r.Context()), nil
}
