// Package domain holds DTOs for the rules http contract
package domain

// ToggleInput enables or disables one rule by ID
type ToggleInput struct {
	RuleID  string `json:"rule_id" validate:"required,min=1,max=128" example:"r-cyrillic-artifacts"`
	Enabled *bool  `json:"enabled" validate:"required" example:"false"`
}

// DeactivateInput retires one regression case with a justification
type DeactivateInput struct {
	CaseID string `json:"case_id" validate:"required,min=1,max=128" example:"seed-latin-residue"`
	Reason string `json:"reason" validate:"required,min=3,max=512" example:"threshold policy changed"`
}

// LibraryResponse is the active rule library view
type LibraryResponse struct {
	Version uint64     `json:"version"`
	Rules   []RuleView `json:"rules"`
}

// RuleView is one rule as exposed over HTTP
type RuleView struct {
	ID         string `json:"id"`
	Pattern    string `json:"pattern"`
	Action     string `json:"action"`
	Priority   int    `json:"priority"`
	TargetLang string `json:"target_lang,omitempty"`
	Aggressive bool   `json:"aggressive,omitempty"`
	Enabled    bool   `json:"enabled"`
	Provenance string `json:"provenance"`
}
