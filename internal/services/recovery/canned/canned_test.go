package canned

import (
	"testing"

	"dragoman/internal/core/purity"
)

func mustLoad(t *testing.T) *Corpus {
	t.Helper()
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestLookupExactAndFallback(t *testing.T) {
	c := mustLoad(t)

	if _, ok := c.Lookup("ar", "family-law"); !ok {
		t.Fatalf("missing ar/family-law entry")
	}
	// unknown hint falls back to the generic ar entry
	generic, ok := c.Lookup("ar", "maritime-law")
	if !ok {
		t.Fatalf("no generic ar fallback")
	}
	want, _ := c.Lookup("ar", "")
	if generic != want {
		t.Fatalf("hint fallback should return the generic entry")
	}
	if _, ok := c.Lookup("de", ""); ok {
		t.Fatalf("unexpected entry for unsupported language")
	}
}

func TestCorpusIsScriptPure(t *testing.T) {
	c := mustLoad(t)
	v, err := purity.New(purity.DefaultPolicy())
	if err != nil {
		t.Fatalf("purity.New: %v", err)
	}

	for _, lang := range []string{"ar", "fr"} {
		for _, hint := range []string{"", "family-law", "contracts"} {
			text, ok := c.Lookup(lang, hint)
			if !ok {
				continue
			}
			if score := v.Validate(text, lang); score.Verdict != purity.VerdictPass {
				t.Fatalf("canned %s/%s is not pure: %+v", lang, hint, score)
			}
		}
		if em := c.Emergency(lang); em == "" {
			t.Fatalf("missing emergency notice for %s", lang)
		} else if score := v.Validate(em, lang); score.Verdict != purity.VerdictPass {
			t.Fatalf("emergency %s is not pure: %+v", lang, score)
		}
	}
}

func TestEmergencyFallsBackToFamilyNotice(t *testing.T) {
	c := mustLoad(t)

	if got := c.Emergency("de"); got != c.Emergency("fr") {
		t.Fatalf("latin-script language should get the latin notice, got %q", got)
	}
	if got := c.Emergency("fa"); got != c.Emergency("ar") {
		t.Fatalf("arabic-script language should get the arabic notice, got %q", got)
	}
}
