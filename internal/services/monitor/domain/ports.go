package domain

import "context"

// RecorderPort accepts finished outcomes from the gateway
type RecorderPort interface {
	Record(ctx context.Context, o Outcome)
}

// ReaderPort serves the windowed quality view
type ReaderPort interface {
	Stats(ctx context.Context) Stats
	Health(ctx context.Context) Health
}
