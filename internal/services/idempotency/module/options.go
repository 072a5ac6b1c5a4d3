package module

import (
	"time"

	"quill/internal/platform/config"
)

// Options controls idempotency key retention
type Options struct {
	TTL      time.Duration
	Interval time.Duration
}

// FromConfig reads with IDEM_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("IDEM_")
	return Options{
		TTL:      c.MayDuration("TTL", 24*time.Hour),
		Interval: c.MayDuration("SWEEP", time.Hour),
	}
}
