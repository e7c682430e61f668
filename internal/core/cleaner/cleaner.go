// Package cleaner strips interface chrome, wrong-script runs and other
// contamination from model output using a compiled rule snapshot.
//
// Cleaning is idempotent: running Clean over its own output reports no
// further changes. That holds because substitute replacements are
// checked against the rule set at compile time (see rulelib) and the
// pass loop below runs to a fixpoint.
package cleaner

import (
	"unicode/utf8"

	"dragoman/internal/core/normalize"
	"dragoman/internal/core/rulelib"
)

// maxPasses bounds the fixpoint loop. Rule sets that need more passes
// than this to settle are misbehaving and get cut off
const maxPasses = 4

// Report describes what one Clean call did to the text
type Report struct {
	// RuleIDs lists the rules that fired, in application order, deduplicated
	RuleIDs []string
	// CharactersRemoved counts runes dropped by strip rules
	CharactersRemoved int
	// SubstitutionsMade counts spans rewritten by substitute rules
	SubstitutionsMade int
	// Passes is how many pass iterations ran before the text settled
	Passes int
	// Rejected is set when a flag_reject rule matched. The text is
	// returned unmodified; cleaning alone cannot salvage it
	Rejected   bool
	RejectedBy string
}

// Changed reports whether cleaning modified the text
func (r Report) Changed() bool {
	return r.CharactersRemoved > 0 || r.SubstitutionsMade > 0
}

// Clean applies the snapshot's rules for targetLang to text and returns
// the cleaned text with a report. Aggressive-only rules run when
// aggressive is set. The snapshot is captured by the caller once per
// request so concurrent rule updates never change behavior mid-request
func Clean(text, targetLang string, snap *rulelib.Snapshot, aggressive bool) (string, Report) {
	var rep Report
	rules := snap.Rules(targetLang, aggressive)

	for _, c := range rules {
		if c.Action != rulelib.ActionFlagReject {
			continue
		}
		if c.Re.MatchString(text) {
			rep.Rejected = true
			rep.RejectedBy = c.ID
			return text, rep
		}
	}

	fired := make(map[string]bool, len(rules))
	for pass := 0; pass < maxPasses; pass++ {
		next, changed := applyPass(text, rules, fired, &rep)
		rep.Passes++
		if !changed {
			break
		}
		text = next
	}
	return text, rep
}

func applyPass(text string, rules []rulelib.Compiled, fired map[string]bool, rep *Report) (string, bool) {
	changed := false
	stripped := false
	for _, c := range rules {
		switch c.Action {
		case rulelib.ActionStrip:
			matches := c.Re.FindAllString(text, -1)
			if len(matches) == 0 {
				continue
			}
			for _, m := range matches {
				rep.CharactersRemoved += utf8.RuneCountInString(m)
			}
			text = c.Re.ReplaceAllLiteralString(text, "")
			changed, stripped = true, true
			record(c.ID, fired, rep)

		case rulelib.ActionSubstitute:
			n := len(c.Re.FindAllStringIndex(text, -1))
			if n == 0 {
				continue
			}
			rep.SubstitutionsMade += n
			text = c.Re.ReplaceAllLiteralString(text, c.Replacement)
			changed = true
			record(c.ID, fired, rep)
		}
	}
	if stripped {
		// strips leave doubled spaces and dangling blank lines behind
		text = normalize.CollapseSpaces(text)
	}
	return text, changed
}

func record(id string, fired map[string]bool, rep *Report) {
	if fired[id] {
		return
	}
	fired[id] = true
	rep.RuleIDs = append(rep.RuleIDs, id)
}
