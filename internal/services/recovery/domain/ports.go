package domain

import "context"

// CoordinatorPort runs the recovery ladder for a failed translation.
// The error return is for context cancellation only; every other path
// ends in a Result
type CoordinatorPort interface {
	Recover(ctx context.Context, in Input) (Result, error)
}
