package module

import (
	"time"

	"quill/internal/platform/config"
)

// Options controls the outbox drain worker
type Options struct {
	Interval    time.Duration
	TakeBatch   int
	MaxAttempts int
}

// FromConfig reads with OUTBOX_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("OUTBOX_")
	return Options{
		Interval:    c.MayDuration("INTERVAL", 500*time.Millisecond),
		TakeBatch:   c.MayInt("TAKE_BATCH", 64),
		MaxAttempts: c.MayInt("MAX_ATTEMPTS", 10),
	}
}
