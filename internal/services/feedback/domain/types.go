// Package domain defines the contamination feedback types and ports
package domain

import "time"

// State is a report's position in the fix lifecycle
type State string

// Lifecycle states. A report moves forward one state at a time;
// rejected is reachable only while the fix is still unproven, from
// investigating or fix-proposed
const (
	StateNew           State = "new"
	StateInvestigating State = "investigating"
	StateFixProposed   State = "fix-proposed"
	StateFixValidated  State = "fix-validated"
	StateFixDeployed   State = "fix-deployed"
	StateRejected      State = "rejected"
)

// Terminal reports whether no further transitions are allowed
func (s State) Terminal() bool { return s == StateFixDeployed || s == StateRejected }

// CanTransition reports whether moving from s to next is legal
func (s State) CanTransition(next State) bool {
	if s.Terminal() {
		return false
	}
	if next == StateRejected {
		return s == StateInvestigating || s == StateFixProposed
	}
	switch s {
	case StateNew:
		return next == StateInvestigating
	case StateInvestigating:
		return next == StateFixProposed
	case StateFixProposed:
		return next == StateFixValidated
	case StateFixValidated:
		return next == StateFixDeployed
	default:
		return false
	}
}

// Report is one user-submitted contamination sighting. DisplayedText is
// what the user actually saw, verbatim; the worker mines it for the
// contamination signature
type Report struct {
	ID            string `json:"id"`
	SourceLang    string `json:"source_lang"`
	TargetLang    string `json:"target_lang"`
	SourceText    string `json:"source_text,omitempty"`
	DisplayedText string `json:"displayed_text"`
	Note          string `json:"note,omitempty"`
	ReportedBy    string `json:"reported_by,omitempty"`
	State         State  `json:"state"`

	// RuleID is set once a cleaning rule has been minted from this report
	RuleID string `json:"rule_id,omitempty"`

	// Detail carries the latest state-change explanation, including the
	// reason when the report is rejected
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
