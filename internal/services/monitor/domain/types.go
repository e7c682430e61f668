// Package domain defines the quality monitor types and ports
package domain

import "time"

// Strategy names recorded on outcomes. The first is the normal path,
// the rest are recovery rungs in escalation order
const (
	StrategyStandard  = "standard"
	StrategySwitched  = "method-switching"
	StrategyRecleaned = "targeted-recleaning"
	StrategyCanned    = "canned-fallback"
	StrategyEmergency = "emergency"
)

// Outcome is one finished translation request as the monitor sees it
type Outcome struct {
	At             time.Time
	SourceLang     string
	TargetLang     string
	Verdict        string // final purity verdict: PASS, DEGRADED or REJECT
	Strategy       string
	TargetRatio    float64
	RulesVersion   uint64
	DurationMs     int64
	PriorityReview bool
}

// LangPair formats the direction as "src-dst"
func (o Outcome) LangPair() string { return o.SourceLang + "-" + o.TargetLang }

// FallbackUsed reports whether the outcome came from a canned or
// emergency rung rather than a real model translation
func (o Outcome) FallbackUsed() bool {
	return o.Strategy == StrategyCanned || o.Strategy == StrategyEmergency
}

// PairStats aggregates outcomes for one direction (or overall).
// PriorityReview is a count, not a rate: each one is a concrete item on
// the human review queue
type PairStats struct {
	Total           int     `json:"total"`
	PassRate        float64 `json:"pass_rate"`
	DegradedRate    float64 `json:"degraded_rate"`
	FallbackRate    float64 `json:"fallback_rate"`
	MeanTargetRatio float64 `json:"mean_target_ratio"`
	PriorityReview  int     `json:"priority_review"`
}

// Stats is the windowed quality summary served by the API
type Stats struct {
	WindowSize   int                  `json:"window_size"`
	Recorded     int                  `json:"recorded"`
	RulesVersion uint64               `json:"rules_version"`
	Overall      PairStats            `json:"overall"`
	ByPair       map[string]PairStats `json:"by_pair"`
	AlertActive  bool                 `json:"alert_active"`
}

// Health is the condensed readiness view
type Health struct {
	Status         string  `json:"status"` // "ok" or "alert"
	FallbackRate   float64 `json:"fallback_rate"`
	Threshold      float64 `json:"threshold"`
	Recorded       int     `json:"recorded"`
	PriorityReview int     `json:"priority_review"`
}
