// Package http provides http transport for feedback
package http

import (
	stdhttp "net/http"

	"dragoman/internal/modkit/httpkit"
	"dragoman/internal/platform/net"
	"dragoman/internal/services/api/feedback/domain"
	fdom "dragoman/internal/services/feedback/domain"
)

// Register mounts feedback endpoints on the given router
func Register(r httpkit.Router, rep fdom.ReporterPort) {
	h := &handlers{reporter: rep}
	httpkit.PostJSON[domain.ReportInput](r, "/report", h.report)
	httpkit.PostJSON[domain.StatusInput](r, "/status", h.status)
}

type handlers struct{ reporter fdom.ReporterPort }

// swagger:route POST /feedback/report Feedback feedbackReport
// @Summary Report contaminated translation output
// @Tags Feedback
// @Accept json
// @Produce json
// @Param payload body domain.ReportInput true "Report"
// @Success 200 {object} fdom.Report "ok"
// @Router /feedback/report [post]
func (h *handlers) report(r *stdhttp.Request, in domain.ReportInput) (any, error) {
	return h.reporter.Submit(r.Context(), fdom.Report{
		SourceLang:    in.SourceLang,
		TargetLang:    in.TargetLang,
		SourceText:    in.SourceText,
		DisplayedText: in.DisplayedText,
		Note:          in.Note,
		ReportedBy:    net.UserID(r.Context()),
	})
}

// swagger:route POST /feedback/status Feedback feedbackStatus
// @Summary Look up the fix lifecycle state of a report
// @Tags Feedback
// @Accept json
// @Produce json
// @Param payload body domain.StatusInput true "Lookup"
// @Success 200 {object} fdom.Report "ok"
// @Router /feedback/status [post]
func (h *handlers) status(r *stdhttp.Request, in domain.StatusInput) (any, error) {
	return h.reporter.Status(r.Context(), in.ReportID)
}
