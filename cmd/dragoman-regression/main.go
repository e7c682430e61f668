// Command dragoman-regression replays the regression case library
// against the builtin rule pack and exits nonzero on any failure.
// Wired into CI so rule pack edits cannot land with regressed cases
package main

import (
	"context"
	"os"

	"dragoman/internal/core/purity"
	"dragoman/internal/core/rulelib"
	"dragoman/internal/platform/config"
	"dragoman/internal/platform/logger"
	"dragoman/internal/services/api"
	regressionsvc "dragoman/internal/services/regression/service"
)

func main() {
	root := config.New()
	l := logger.Get()

	builtin, err := rulelib.LoadBuiltin()
	if err != nil {
		l.Panic().Err(err).Msg("builtin rule pack failed to load")
	}
	rules, err := rulelib.NewStore(builtin)
	if err != nil {
		l.Panic().Err(err).Msg("builtin rule pack failed to compile")
	}
	validator, err := purity.New(api.PolicyFromConfig(root))
	if err != nil {
		l.Panic().Err(err).Msg("terminology table failed to load")
	}

	runner, err := regressionsvc.New(rules, validator, nil, nil)
	if err != nil {
		l.Panic().Err(err).Msg("regression suite failed to load")
	}

	res, err := runner.RunSuite(context.Background())
	if err != nil {
		l.Panic().Err(err).Msg("regression run failed")
	}

	for _, r := range res.Results {
		ev := l.Info()
		if !r.Passed {
			ev = l.Error().Str("detail", r.Detail)
		}
		ev.Str("case", r.Name).Str("got", string(r.Got)).Bool("passed", r.Passed).Msg("replayed")
	}

	l.Info().
		Uint64("rules_version", res.RulesVersion).
		Int("total", res.Total).
		Int("passed", res.Passed).
		Int("failed", res.Failed).
		Int64("duration_ms", res.DurationMs).
		Msg("suite complete")

	if !res.Ok() {
		os.Exit(1)
	}
}
