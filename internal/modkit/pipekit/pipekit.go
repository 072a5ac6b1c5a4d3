// Package pipekit composes request handling as an explicit ordered chain of
// middleware functions around a core operation. Each behavior receives the
// rest of the pipeline as a continuation; there is no runtime inspection of
// response shapes anywhere in the chain
package pipekit

import (
	"context"
)

// Handler is the core operation a pipeline wraps
type Handler[Req, Res any] func(ctx context.Context, req Req) (Res, error)

// Behavior wraps a handler with one concern (logging, validation, idempotency)
type Behavior[Req, Res any] func(next Handler[Req, Res]) Handler[Req, Res]

// Chain composes behaviors around h. The first behavior listed is the
// outermost: Chain(h, a, b) runs a -> b -> h
func Chain[Req, Res any](h Handler[Req, Res], behaviors ...Behavior[Req, Res]) Handler[Req, Res] {
	for i := len(behaviors) - 1; i >= 0; i-- {
		h = behaviors[i](h)
	}
	return h
}
