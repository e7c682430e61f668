package purity

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed terms.json
var embeddedTerms []byte

// Term pins one legal term of art to its canonical target-language rendering
type Term struct {
	Source     string `json:"source"`
	Canonical  string `json:"canonical"`
	TargetLang string `json:"target_lang"`
}

type rawTermsFile struct {
	Version int    `json:"version"`
	Terms   []Term `json:"terms"`
}

// LoadTerms returns the embedded terminology table
func LoadTerms() ([]Term, error) {
	var f rawTermsFile
	if err := json.Unmarshal(embeddedTerms, &f); err != nil {
		return nil, fmt.Errorf("purity: parse terms.json: %w", err)
	}
	if f.Version != 1 {
		return nil, fmt.Errorf("purity: unsupported terms.json version %d (want 1)", f.Version)
	}
	out := make([]Term, 0, len(f.Terms))
	for _, t := range f.Terms {
		src := strings.TrimSpace(t.Source)
		can := strings.TrimSpace(t.Canonical)
		if src == "" || can == "" {
			continue
		}
		out = append(out, Term{Source: src, Canonical: can, TargetLang: strings.TrimSpace(t.TargetLang)})
	}
	return out, nil
}
