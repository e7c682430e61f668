// Package http provides http transport for translation
package http

import (
	stdhttp "net/http"

	"dragoman/internal/modkit/httpkit"
	"dragoman/internal/platform/net"
	"dragoman/internal/services/api/translate/domain"
	gwdom "dragoman/internal/services/gateway/domain"
)

// Register mounts the translate endpoint on the given router
func Register(r httpkit.Router, t gwdom.TranslatorPort) {
	h := &handlers{translator: t}
	httpkit.PostJSON[domain.TranslateInput](r, "/", h.translate)
}

type handlers struct{ translator gwdom.TranslatorPort }

// swagger:route POST /translate Translate translate
// @Summary Translate text with script-purity guarantees
// @Tags Translate
// @Accept json
// @Produce json
// @Param payload body domain.TranslateInput true "Request"
// @Success 200 {object} gwdom.Result "ok"
// @Router /translate [post]
func (h *handlers) translate(r *stdhttp.Request, in domain.TranslateInput) (any, error) {
	ctx := net.WithRequest(r.Context(), net.RequestID(r.Context()), in.SourceLang+"-"+in.TargetLang)
	return h.translator.Translate(ctx, gwdom.Request{
		SourceText: in.SourceText,
		SourceLang: in.SourceLang,
		TargetLang: in.TargetLang,
		DomainHint: in.DomainHint,
		UserID:     net.UserID(ctx),
	})
}
