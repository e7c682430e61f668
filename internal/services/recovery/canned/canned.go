// Package canned holds the reviewed fallback corpus. Every text in the
// embedded corpus is written by a human in the target language, so a
// canned answer is script-pure by construction
package canned

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"dragoman/internal/core/purity"
)

//go:embed corpus.json
var embedded []byte

type entry struct {
	TargetLang string `json:"target_lang"`
	DomainHint string `json:"domain_hint"`
	Text       string `json:"text"`
}

type rawCorpus struct {
	Version   int               `json:"version"`
	Entries   []entry           `json:"entries"`
	Emergency map[string]string `json:"emergency"`
}

// Corpus resolves canned texts by target language and domain hint
type Corpus struct {
	byKey     map[string]string
	emergency map[string]string
}

// Load parses the embedded corpus
func Load() (*Corpus, error) {
	var rc rawCorpus
	if err := json.Unmarshal(embedded, &rc); err != nil {
		return nil, fmt.Errorf("canned: parse corpus.json: %w", err)
	}
	if rc.Version != 1 {
		return nil, fmt.Errorf("canned: unsupported corpus version %d (want 1)", rc.Version)
	}
	for _, lang := range []string{"ar", "fr"} {
		if rc.Emergency[lang] == "" {
			return nil, fmt.Errorf("canned: missing emergency notice for %s", lang)
		}
	}
	c := &Corpus{byKey: make(map[string]string, len(rc.Entries)), emergency: rc.Emergency}
	for _, e := range rc.Entries {
		if e.TargetLang == "" || e.Text == "" {
			return nil, fmt.Errorf("canned: entry missing target_lang or text")
		}
		c.byKey[key(e.TargetLang, e.DomainHint)] = e.Text
	}
	return c, nil
}

// Lookup returns the canned text for (targetLang, domainHint), falling
// back to the language's generic entry when the hint has no match
func (c *Corpus) Lookup(targetLang, domainHint string) (string, bool) {
	if t, ok := c.byKey[key(targetLang, domainHint)]; ok {
		return t, true
	}
	if domainHint != "" {
		if t, ok := c.byKey[key(targetLang, "")]; ok {
			return t, true
		}
	}
	return "", false
}

// Emergency returns the last-resort notice for targetLang, falling back
// to the notice of the language's script family so the rung can never
// come up empty-handed
func (c *Corpus) Emergency(targetLang string) string {
	if t, ok := c.emergency[targetLang]; ok {
		return t
	}
	if purity.FamilyForLang(targetLang) == purity.FamilyArabic {
		return c.emergency["ar"]
	}
	return c.emergency["fr"]
}

func key(lang, hint string) string { return lang + "|" + hint }
