package store

import (
	"time"

	"quill/internal/platform/retry"
)

// Config aggregates backend configuration
type Config struct {
	AppName string

	Lite  LiteConfig
	Retry retry.Policy
}

// LiteConfig configures the embedded SQLite engine and tracing
type LiteConfig struct {
	Path        string
	BusyTimeout time.Duration
	LogSQL      bool
	SlowQueryMs int
}
