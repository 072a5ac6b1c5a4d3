package modkit

import (
	"quill/internal/modkit/repokit"
	"quill/internal/platform/clock"
	"quill/internal/platform/config"
	"quill/internal/platform/events"
	"quill/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log   logger.Logger
	Cfg   config.Conf
	DB    repokit.TxRunner
	Clock clock.Clock
	Bus   *events.Bus
}
