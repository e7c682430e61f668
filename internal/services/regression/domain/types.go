// Package domain defines the regression suite types and ports
package domain

import (
	"time"

	"dragoman/internal/core/purity"
)

// Case is one replayable contamination scenario. ContaminatedText is
// the raw model output as it was observed; replaying it through the
// active rule set must reproduce the expected verdict
type Case struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	SourceLang       string `json:"source_lang"`
	TargetLang       string `json:"target_lang"`
	SourceText       string `json:"source_text"`
	ContaminatedText string `json:"contaminated_text"`

	// ExpectVerdict is the verdict the pipeline must produce after
	// cleaning and validating ContaminatedText
	ExpectVerdict purity.Verdict `json:"expect_verdict"`

	// MinPurity, when nonzero, is the minimum target-script ratio the
	// cleaned text must reach on top of the verdict check
	MinPurity float64 `json:"min_purity,omitempty"`

	// MustContain, when set, is a substring that has to survive cleaning
	MustContain string `json:"must_contain,omitempty"`

	// IncidentID links a minted case back to the feedback report that
	// produced it, empty for seed cases
	IncidentID string `json:"incident_id,omitempty"`

	// Origin is "seed" for builtin cases or "feedback" for cases minted
	// from user reports
	Origin    string    `json:"origin"`
	CreatedAt time.Time `json:"created_at"`

	// Cases are never deleted. A case retired for cause keeps its row
	// with Active false and the justification recorded
	Active            bool   `json:"active"`
	DeactivatedReason string `json:"deactivated_reason,omitempty"`
}

// CaseResult is the replay outcome for one case
type CaseResult struct {
	CaseID   string         `json:"case_id"`
	Name     string         `json:"name"`
	Expected purity.Verdict `json:"expected"`
	Got      purity.Verdict `json:"got"`
	Passed   bool           `json:"passed"`

	// TargetRatio is the achieved target-script share after cleaning
	TargetRatio float64 `json:"target_ratio"`

	// RulesApplied lists the cleaning rules that fired during replay
	RulesApplied []string `json:"rules_applied,omitempty"`

	// Detail explains a failure in one line, empty on success
	Detail string `json:"detail,omitempty"`
}

// SuiteResult is the outcome of one full suite run
type SuiteResult struct {
	RulesVersion uint64       `json:"rules_version"`
	Total        int          `json:"total"`
	Passed       int          `json:"passed"`
	Failed       int          `json:"failed"`
	Results      []CaseResult `json:"results"`
	DurationMs   int64        `json:"duration_ms"`
}

// Ok reports whether every case passed
func (s SuiteResult) Ok() bool { return s.Failed == 0 }
