package domain

import (
	"context"

	"dragoman/internal/core/rulelib"
)

// RunnerPort replays the case library against rule snapshots
type RunnerPort interface {
	// RunSuite replays every case against the active snapshot
	RunSuite(ctx context.Context) (SuiteResult, error)

	// Gate replays every case against a trial snapshot and returns a
	// conflict error when any case regresses. Shaped for rulelib.Activate
	Gate(ctx context.Context, snap *rulelib.Snapshot) error

	// Cases lists the full case library, seed and minted alike
	Cases(ctx context.Context) ([]Case, error)

	// AddCase stores a new replayable case, assigning an ID when absent
	AddCase(ctx context.Context, c Case) (Case, error)

	// Deactivate retires a case with a recorded justification. The row
	// is kept; the suite simply stops replaying it
	Deactivate(ctx context.Context, id, reason string) error
}
