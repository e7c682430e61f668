// Package domain defines the translation gateway types and ports
package domain

import (
	"dragoman/internal/core/purity"
	rdom "dragoman/internal/services/recovery/domain"
)

// Request is one translation job as accepted by the gateway
type Request struct {
	SourceText string
	SourceLang string
	TargetLang string
	DomainHint string
	UserID     string
}

// Result is the gateway's answer. Text is always script-safe to display:
// either a validated translation, a degraded-but-flagged one, or a
// fallback from the recovery ladder
type Result struct {
	Text    string         `json:"text"`
	Score   purity.Score   `json:"score"`
	Verdict purity.Verdict `json:"verdict"`

	// Strategy names the path that produced Text (standard or a recovery rung)
	Strategy string `json:"strategy"`

	// Model is the upstream model that produced the translation, empty
	// for corpus fallbacks
	Model string `json:"model,omitempty"`

	RulesVersion uint64 `json:"rules_version"`

	// RulesApplied lists cleaning rules that fired on the model output
	RulesApplied      []string `json:"rules_applied,omitempty"`
	CharactersRemoved int      `json:"characters_removed"`
	SubstitutionsMade int      `json:"substitutions_made"`

	// Attempts traces the recovery ladder when it ran
	Attempts []rdom.Attempt `json:"attempts,omitempty"`

	PriorityReview bool  `json:"priority_review"`
	DurationMs     int64 `json:"duration_ms"`
}
