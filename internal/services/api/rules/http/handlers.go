// Package http provides http transport for the rule library and the
// regression suite
package http

import (
	stdhttp "net/http"

	"dragoman/internal/core/rulelib"
	"dragoman/internal/modkit/httpkit"
	"dragoman/internal/services/api/rules/domain"
	rdom "dragoman/internal/services/regression/domain"
)

// Register mounts rules and regression endpoints on the given router
func Register(r httpkit.Router, rules *rulelib.Store, runner rdom.RunnerPort) {
	h := &handlers{rules: rules, runner: runner}
	httpkit.Get(r, "/", h.library)
	httpkit.PostJSON[domain.ToggleInput](r, "/toggle", h.toggle)
	httpkit.Post(r, "/regression/run", h.runSuite)
	httpkit.Get(r, "/regression/cases", h.cases)
	httpkit.PostJSON[domain.DeactivateInput](r, "/regression/deactivate", h.deactivate)
}

type handlers struct {
	rules  *rulelib.Store
	runner rdom.RunnerPort
}

// swagger:route GET /rules Rules rulesLibrary
// @Summary Active cleaning rule library
// @Tags Rules
// @Produce json
// @Success 200 {object} domain.LibraryResponse "ok"
// @Router /rules [get]
func (h *handlers) library(_ *stdhttp.Request) (any, error) {
	out := domain.LibraryResponse{Version: h.rules.Snapshot().Version}
	for _, rule := range h.rules.Rules() {
		out.Rules = append(out.Rules, domain.RuleView{
			ID:         rule.ID,
			Pattern:    rule.Pattern,
			Action:     string(rule.Action),
			Priority:   rule.Priority,
			TargetLang: rule.TargetLang,
			Aggressive: rule.Aggressive,
			Enabled:    rule.Enabled,
			Provenance: string(rule.Provenance),
		})
	}
	return out, nil
}

// swagger:route POST /rules/toggle Rules rulesToggle
// @Summary Enable or disable one rule
// @Tags Rules
// @Accept json
// @Produce json
// @Param payload body domain.ToggleInput true "Toggle"
// @Success 200 {object} domain.LibraryResponse "ok"
// @Router /rules/toggle [post]
func (h *handlers) toggle(r *stdhttp.Request, in domain.ToggleInput) (any, error) {
	// a toggle changes what the live cleaner does, so it clears the same
	// regression gate as a new rule before the snapshot is published
	if err := h.rules.SetEnabled(r.Context(), in.RuleID, *in.Enabled, h.runner.Gate); err != nil {
		return nil, err
	}
	return h.library(r)
}

// swagger:route POST /rules/regression/run Rules regressionRun
// @Summary Replay the regression suite against the active rules
// @Tags Rules
// @Produce json
// @Success 200 {object} rdom.SuiteResult "ok"
// @Router /rules/regression/run [post]
func (h *handlers) runSuite(r *stdhttp.Request) (any, error) {
	return h.runner.RunSuite(r.Context())
}

// swagger:route POST /rules/regression/deactivate Rules regressionDeactivate
// @Summary Retire one regression case with a recorded justification
// @Tags Rules
// @Accept json
// @Produce json
// @Param payload body domain.DeactivateInput true "Deactivation"
// @Success 200 {array} rdom.Case "ok"
// @Router /rules/regression/deactivate [post]
func (h *handlers) deactivate(r *stdhttp.Request, in domain.DeactivateInput) (any, error) {
	if err := h.runner.Deactivate(r.Context(), in.CaseID, in.Reason); err != nil {
		return nil, err
	}
	return h.runner.Cases(r.Context())
}

// swagger:route GET /rules/regression/cases Rules regressionCases
// @Summary List the replayable regression case library
// @Tags Rules
// @Produce json
// @Success 200 {array} rdom.Case "ok"
// @Router /rules/regression/cases [get]
func (h *handlers) cases(r *stdhttp.Request) (any, error) {
	return h.runner.Cases(r.Context())
}
