package domain

import "context"

// ReporterPort is the feedback intake surface
type ReporterPort interface {
	// Submit files a new report and returns it with ID and state set
	Submit(ctx context.Context, r Report) (Report, error)

	// Status returns the report's current lifecycle position
	Status(ctx context.Context, id string) (Report, error)
}
