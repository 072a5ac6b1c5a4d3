package module

import (
	"time"

	"quill/internal/platform/config"
	"quill/internal/services/writer/domain"
)

// Options controls the write coalescing worker
type Options struct {
	QueueCap   int
	BatchMax   int
	Window     time.Duration
	Partitions int
	Mode       domain.Mode
}

// FromConfig reads with WRITER_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("WRITER_")
	return Options{
		QueueCap:   c.MayInt("QUEUE_CAP", 256),
		BatchMax:   c.MayInt("BATCH_MAX", 32),
		Window:     c.MayDuration("WINDOW", 50*time.Millisecond),
		Partitions: c.MayInt("PARTITIONS", 1),
		Mode: domain.Mode(cfg.MayEnum("INDEX_MODE", string(domain.ModeSameTx),
			string(domain.ModeSameTx), string(domain.ModeOutbox))),
	}
}
