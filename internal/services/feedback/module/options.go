package module

import (
	"time"

	"dragoman/internal/platform/config"
)

// Options holds configuration settings for the feedback module
type Options struct {
	Interval    time.Duration
	Batch       int
	Lease       time.Duration
	Concurrency int
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	fb := cfg.Prefix("FEEDBACK_")
	return Options{
		Interval:    fb.MayDuration("INTERVAL", 5*time.Second),
		Batch:       fb.MayInt("BATCH", 10),
		Lease:       fb.MayDuration("LEASE", time.Minute),
		Concurrency: fb.MayInt("CONCURRENCY", 2),
	}
}
