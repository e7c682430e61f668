// Package llm is the adapter for the upstream translation model. It
// speaks the OpenAI-style chat completions wire format and returns raw
// model text. Script purity is not this package's job; the gateway
// cleans and validates whatever comes back.
package llm

import (
	"context"

	"dragoman/internal/platform/config"
)

// Strategy selects the prompt the model is driven with
type Strategy string

const (
	// StrategyStandard is the default translation prompt
	StrategyStandard Strategy = "standard"
	// StrategyStrict adds hard script constraints to the prompt. Used
	// by method-switching recovery after a contaminated first attempt
	StrategyStrict Strategy = "strict"
)

// Request is one translation call to the model
type Request struct {
	SourceText string
	SourceLang string
	TargetLang string
	DomainHint string
	Strategy   Strategy
}

// Result is the raw model output before any cleaning
type Result struct {
	Text  string
	Model string
	// Raw is the untouched completion content, kept for diagnostics
	Raw string
}

// Provider is the seam services depend on; Client implements it over
// HTTP and tests substitute fakes
type Provider interface {
	Translate(ctx context.Context, req Request) (Result, error)
}

// Config holds upstream connection settings
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
}

// ConfigFromEnv reads LLM_* settings
func ConfigFromEnv(cfg config.Conf) Config {
	v := cfg.Prefix("LLM_")
	return Config{
		BaseURL:     v.MayString("BASE_URL", "http://localhost:11434"),
		APIKey:      v.MayString("API_KEY", ""),
		Model:       v.MustString("MODEL"),
		Temperature: v.MayFloat64("TEMPERATURE", 0.2),
	}
}
