package service

import (
	"regexp"
	"strings"

	"dragoman/internal/core/purity"
)

// knownLabels are interface strings that leak into model output whole;
// matching one beats any single-run signature
var knownLabels = []string{
	"copy to clipboard",
	"regenerate response",
	"document editor",
	"translate document",
	"loading...",
	"submit",
}

// minRunLetters is the shortest wrong-script run worth a rule; shorter
// residue is handled by scoring, not stripping
const minRunLetters = 3

// extractSignature mines the displayed text for a contamination pattern
// scoped to the report's target language. It returns the regex source
// and whether anything rule-worthy was found
func extractSignature(displayed, targetLang string) (string, bool) {
	lower := strings.ToLower(displayed)
	for _, label := range knownLabels {
		if strings.Contains(lower, label) {
			return "(?i)" + regexp.QuoteMeta(label), true
		}
	}

	target := purity.FamilyForLang(targetLang)
	families := []purity.Family{
		purity.FamilyLatin, purity.FamilyArabic, purity.FamilyCyrillic,
		purity.FamilyGreek, purity.FamilyHebrew, purity.FamilyHan,
	}

	best := ""
	for _, f := range families {
		if f == target {
			continue
		}
		for _, run := range purity.Runs(displayed, f) {
			if len([]rune(run)) < minRunLetters {
				break // runs come longest first
			}
			if len(run) > len(best) {
				best = run
			}
			break
		}
	}
	if best == "" {
		return "", false
	}
	return regexp.QuoteMeta(best), true
}
