package rulelib

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed rules.json
var embedded []byte

type rawPack struct {
	Version int            `json:"version"`
	Meta    map[string]any `json:"meta"`
	Rules   []Rule         `json:"rules"`
}

// LoadBuiltin returns the rules from the embedded rules.json
func LoadBuiltin() ([]Rule, error) {
	var rp rawPack
	if err := json.Unmarshal(embedded, &rp); err != nil {
		return nil, fmt.Errorf("rulelib: parse rules.json: %w", err)
	}
	if rp.Version != 1 {
		return nil, fmt.Errorf("rulelib: unsupported rules.json version %d (want 1)", rp.Version)
	}
	for i := range rp.Rules {
		if rp.Rules[i].Provenance == "" {
			rp.Rules[i].Provenance = ProvenanceBuiltin
		}
	}
	return rp.Rules, nil
}
