// Package rulelib holds the versioned library of contamination cleaning
// rules. It compiles rule packs into immutable snapshots the cleaner
// applies; snapshots are published atomically so a request in flight
// never observes a half-updated rule set.
package rulelib

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Action is what a rule does to matched text
type Action string

const (
	// ActionStrip removes matched spans and collapses resulting whitespace
	ActionStrip Action = "strip"
	// ActionSubstitute replaces matched spans with a canonical target-language equivalent
	ActionSubstitute Action = "substitute"
	// ActionFlagReject marks the input as unsalvageable by cleaning alone without modifying it
	ActionFlagReject Action = "flag_reject"
)

// Provenance records where a rule came from
type Provenance string

const (
	// ProvenanceBuiltin is a rule shipped in the embedded pack
	ProvenanceBuiltin Provenance = "builtin"
	// ProvenanceFeedback is a rule synthesized from a user contamination report
	ProvenanceFeedback Provenance = "user-feedback"
)

// Rule is one contamination signature and its cleaning action.
// Rules are totally ordered by Priority (lower runs first)
type Rule struct {
	ID          string     `json:"id"`
	Pattern     string     `json:"pattern"`
	Action      Action     `json:"action"`
	Replacement string     `json:"replacement,omitempty"`
	Priority    int        `json:"priority"`
	TargetLang  string     `json:"target_lang,omitempty"` // empty scopes the rule to every target language
	Aggressive  bool       `json:"aggressive,omitempty"`  // only applied during targeted re-cleaning
	Enabled     bool       `json:"enabled"`
	Provenance  Provenance `json:"provenance"`
	AddedAt     time.Time  `json:"added_at,omitempty"`
}

// AppliesTo reports whether the rule is in scope for a target language
func (r Rule) AppliesTo(targetLang string) bool {
	return r.TargetLang == "" || r.TargetLang == targetLang
}

// Compiled pairs a rule with its compiled matcher
type Compiled struct {
	Rule
	Re *regexp.Regexp
}

// Snapshot is an immutable, priority-sorted, compiled view of the
// enabled rules. Every translation request captures one Snapshot at
// start and uses it for the whole request
type Snapshot struct {
	Version uint64
	rules   []Compiled
}

// Rules returns the compiled rules in scope for targetLang, in priority
// order. Aggressive rules are excluded unless aggressive is set
func (s *Snapshot) Rules(targetLang string, aggressive bool) []Compiled {
	out := make([]Compiled, 0, len(s.rules))
	for _, c := range s.rules {
		if !c.AppliesTo(targetLang) {
			continue
		}
		if c.Aggressive && !aggressive {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Len returns the number of enabled compiled rules
func (s *Snapshot) Len() int { return len(s.rules) }

// CountByProvenance tallies enabled rules per provenance
func (s *Snapshot) CountByProvenance() map[Provenance]int {
	out := make(map[Provenance]int, 2)
	for _, c := range s.rules {
		out[c.Provenance]++
	}
	return out
}

// compile validates and compiles the enabled subset of rules into a Snapshot
func compile(version uint64, rules []Rule) (*Snapshot, error) {
	cs := make([]Compiled, 0, len(rules))
	for _, r := range rules {
		if !r.Enabled {
			continue
		}
		if err := validateRule(r); err != nil {
			return nil, err
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rulelib: compile %s %q: %w", r.ID, r.Pattern, err)
		}
		cs = append(cs, Compiled{Rule: r, Re: re})
	}

	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Priority != cs[j].Priority {
			return cs[i].Priority < cs[j].Priority
		}
		return cs[i].ID < cs[j].ID
	})

	// Idempotence guard: a substitute replacement must not itself match
	// any enabled rule sharing its language scope, or cleaning would
	// keep rewriting its own output
	for _, c := range cs {
		if c.Action != ActionSubstitute || c.Replacement == "" {
			continue
		}
		for _, other := range cs {
			if !scopesOverlap(c.Rule, other.Rule) {
				continue
			}
			if other.Re.MatchString(c.Replacement) {
				return nil, fmt.Errorf(
					"rulelib: rule %s replacement re-matches rule %s; cleaning would not be idempotent",
					c.ID, other.ID)
			}
		}
	}

	return &Snapshot{Version: version, rules: cs}, nil
}

func validateRule(r Rule) error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("rulelib: rule with empty id")
	}
	if strings.TrimSpace(r.Pattern) == "" {
		return fmt.Errorf("rulelib: rule %s has empty pattern", r.ID)
	}
	switch r.Action {
	case ActionStrip, ActionFlagReject:
	case ActionSubstitute:
		if r.Replacement == "" {
			return fmt.Errorf("rulelib: substitute rule %s has empty replacement", r.ID)
		}
	default:
		return fmt.Errorf("rulelib: rule %s has unknown action %q", r.ID, r.Action)
	}
	switch r.Provenance {
	case ProvenanceBuiltin, ProvenanceFeedback:
	default:
		return fmt.Errorf("rulelib: rule %s has unknown provenance %q", r.ID, r.Provenance)
	}
	return nil
}

func scopesOverlap(a, b Rule) bool {
	return a.TargetLang == "" || b.TargetLang == "" || a.TargetLang == b.TargetLang
}
