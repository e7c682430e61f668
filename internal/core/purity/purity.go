// Package purity scores text against script-composition thresholds and
// terminology rules, classifying it as PASS, DEGRADED or REJECT.
package purity

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Verdict is the validation outcome class
type Verdict string

const (
	// VerdictPass means the text meets the strict purity bar
	VerdictPass Verdict = "PASS"
	// VerdictDegraded means the text is displayable but below the strict bar
	VerdictDegraded Verdict = "DEGRADED"
	// VerdictReject means the text must not be shown to a user
	VerdictReject Verdict = "REJECT"
)

// Policy holds the numeric thresholds. Policy is data, not code; the
// values ship as defaults and are overridable from PURITY_* env keys
type Policy struct {
	// PassTargetMin is the minimum target-script ratio for PASS
	PassTargetMin float64
	// PassForeignMax is the maximum third-script ratio tolerated for PASS
	PassForeignMax float64
	// DegradedTargetMin is the minimum target-script ratio for DEGRADED
	DegradedTargetMin float64
}

// DefaultPolicy is the 95/2/80 bar
func DefaultPolicy() Policy {
	return Policy{
		PassTargetMin:     0.95,
		PassForeignMax:    0.02,
		DegradedTargetMin: 0.80,
	}
}

// Score is the full composition breakdown for one validation.
// TargetRatio + SourceRatio + ForeignRatio + OtherRatio == 1 within
// floating tolerance whenever Letters > 0
type Score struct {
	TargetRatio  float64 `json:"target_ratio"`
	SourceRatio  float64 `json:"source_ratio"`
	ForeignRatio float64 `json:"foreign_ratio"`
	OtherRatio   float64 `json:"other_ratio"`
	Letters      int     `json:"letters"`
	Verdict      Verdict `json:"verdict"`

	// TermMismatches lists source terms whose canonical target rendering
	// was expected but absent; any entry demotes PASS to DEGRADED
	TermMismatches []string `json:"term_mismatches,omitempty"`
}

// Validator scores text for a configured policy and terminology table
type Validator struct {
	policy Policy
	terms  []Term
}

// New constructs a Validator with the builtin terminology table
func New(p Policy) (*Validator, error) {
	terms, err := LoadTerms()
	if err != nil {
		return nil, err
	}
	return &Validator{policy: p, terms: terms}, nil
}

// NewWithTerms constructs a Validator with an explicit terminology table
func NewWithTerms(p Policy, terms []Term) *Validator {
	return &Validator{policy: p, terms: terms}
}

// Policy returns the active thresholds
func (v *Validator) Policy() Policy { return v.policy }

// Validate scores text composition against the target language's script.
// Empty or whitespace-only text is always a REJECT
func (v *Validator) Validate(text, targetLang string) Score {
	if strings.TrimSpace(text) == "" {
		return Score{Verdict: VerdictReject}
	}

	target := FamilyForLang(targetLang)
	source := FamilyLatin
	if target == FamilyLatin {
		source = FamilyArabic
	}

	counts, letters := countFamilies(text)
	if letters == 0 {
		// digits/punctuation only; nothing to attest purity with
		return Score{Verdict: VerdictReject}
	}

	sc := Score{Letters: letters}
	n := float64(letters)
	sc.TargetRatio = float64(counts[target]) / n
	sc.SourceRatio = float64(counts[source]) / n
	foreign := letters - counts[target] - counts[source] - counts[FamilyOther]
	sc.ForeignRatio = float64(foreign) / n
	sc.OtherRatio = float64(counts[FamilyOther]) / n

	sc.Verdict = v.verdictFor(sc)
	return sc
}

// ValidateTranslation scores the translated text and additionally checks
// the terminology table against the source text: every known source term
// present in sourceText must surface as its canonical target rendering.
// A canonical mismatch demotes PASS to DEGRADED, never below
func (v *Validator) ValidateTranslation(sourceText, text, targetLang string) Score {
	sc := v.Validate(text, targetLang)
	if sc.Verdict == VerdictReject {
		return sc
	}
	mismatches := v.termMismatches(sourceText, text, targetLang)
	if len(mismatches) > 0 {
		sc.TermMismatches = mismatches
		if sc.Verdict == VerdictPass {
			sc.Verdict = VerdictDegraded
		}
	}
	return sc
}

func (v *Validator) verdictFor(sc Score) Verdict {
	switch {
	case sc.TargetRatio >= v.policy.PassTargetMin && sc.ForeignRatio <= v.policy.PassForeignMax:
		return VerdictPass
	case sc.TargetRatio >= v.policy.DegradedTargetMin:
		return VerdictDegraded
	default:
		return VerdictReject
	}
}

// termMismatches is a term-by-term dictionary lookup, not a statistical check
func (v *Validator) termMismatches(sourceText, text, targetLang string) []string {
	if len(v.terms) == 0 || sourceText == "" {
		return nil
	}
	srcFold := strings.ToLower(sourceText)
	var out []string
	for _, t := range v.terms {
		if t.TargetLang != targetLang {
			continue
		}
		if !containsTerm(srcFold, strings.ToLower(t.Source)) {
			continue
		}
		if !strings.Contains(text, t.Canonical) {
			out = append(out, t.Source)
		}
	}
	return out
}

// containsTerm reports whether term occurs in s as a whole word, so
// "juge" never fires inside "jugement". The canonical side stays a
// substring check: Arabic renderings legitimately carry attached
// articles and clitics (عقد inside العقد)
func containsTerm(s, term string) bool {
	for start := 0; ; {
		i := strings.Index(s[start:], term)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(term)
		if boundaryBefore(s, i) && boundaryAfter(s, end) {
			return true
		}
		start = end
	}
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !unicode.IsLetter(r)
}

func boundaryAfter(s string, i int) bool {
	if i == len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !unicode.IsLetter(r)
}
