package lite

import (
	"context"

	"quill/internal/platform/logger"
)

// QueryEvent is one traced statement execution
type QueryEvent struct {
	SQL       string
	Args      []any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives query events from the adapters
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer returns a QueryTracer that logs statements through the given logger
func Tracer(log logger.Logger) QueryTracer { return logTracer{log: log} }

type logTracer struct{ log logger.Logger }

func (t logTracer) OnQuery(_ context.Context, ev QueryEvent) {
	e := t.log.Debug()
	if ev.Err != nil {
		e = t.log.Warn().Err(ev.Err)
	} else if ev.Slow {
		e = t.log.Warn().Bool("slow", true)
	}
	e.Str("sql", ev.SQL).Int64("elapsed_us", ev.ElapsedUS).Msg("query")
}
