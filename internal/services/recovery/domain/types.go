// Package domain defines the recovery coordinator types and ports
package domain

import (
	"dragoman/internal/core/purity"
	mdom "dragoman/internal/services/monitor/domain"
)

// Input carries everything the coordinator needs about the failed attempt
type Input struct {
	SourceText string
	SourceLang string
	TargetLang string
	DomainHint string

	// FirstOutput is the cleaned first-attempt output that failed
	// validation; empty after a transport failure
	FirstOutput string

	// SourceUnsalvageable marks input that no re-translation can fix
	// (wrong-script or letterless source). Model-facing rungs are
	// skipped and recovery goes straight to the canned corpus
	SourceUnsalvageable bool
}

// Attempt records one rung tried during recovery
type Attempt struct {
	Strategy string         `json:"strategy"`
	Verdict  purity.Verdict `json:"verdict"`
	Detail   string         `json:"detail,omitempty"`
}

// Result is the coordinator's answer. Recovery always produces output;
// the emergency rung cannot fail
type Result struct {
	Text     string
	Score    purity.Score
	Strategy string
	Attempts []Attempt

	// Cleaning report of the attempt that produced Text; zero for the
	// corpus rungs, which serve pre-vetted text uncleaned
	RulesApplied      []string
	CharactersRemoved int
	SubstitutionsMade int

	// PriorityReview marks output a human must look at before release
	PriorityReview bool
}

// FallbackUsed reports whether the result came from the corpus rather
// than a model translation
func (r Result) FallbackUsed() bool {
	return r.Strategy == mdom.StrategyCanned || r.Strategy == mdom.StrategyEmergency
}
