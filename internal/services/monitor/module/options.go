package module

import "dragoman/internal/platform/config"

// Options holds configuration settings for the monitor module
type Options struct {
	Window        int
	FallbackAlert float64
	MinSample     int
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	mf := cfg.Prefix("MONITOR_")
	return Options{
		Window:        mf.MayInt("WINDOW", 500),
		FallbackAlert: mf.MayFloat64("FALLBACK_ALERT", 0.25),
		MinSample:     mf.MayInt("MIN_SAMPLE", 20),
	}
}
