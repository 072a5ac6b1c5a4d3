// Package events provides a minimal in-process publish/subscribe bus.
// Publication is strictly best-effort: it happens after storage effects are
// final, so subscriber failures are logged and swallowed, never propagated
package events

import (
	"context"
	"sync"

	"quill/internal/platform/logger"
)

// Handler consumes one published event; a non-nil error is logged, not returned
type Handler func(ctx context.Context, evt any) error

// Bus fans events out to subscribers by kind
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]Handler
	log  logger.Logger
}

// New constructs a Bus
func New(log logger.Logger) *Bus {
	return &Bus{subs: map[string][]Handler{}, log: log}
}

// Subscribe registers a handler for the given event kind
func (b *Bus) Subscribe(kind string, h Handler) {
	b.mu.Lock()
	b.subs[kind] = append(b.subs[kind], h)
	b.mu.Unlock()
}

// Publish delivers evt to every subscriber of kind.
// Handler errors and panics are logged and swallowed
func (b *Bus) Publish(ctx context.Context, kind string, evt any) {
	b.mu.RLock()
	hs := b.subs[kind]
	b.mu.RUnlock()

	for _, h := range hs {
		b.deliver(ctx, kind, h, evt)
	}
}

func (b *Bus) deliver(ctx context.Context, kind string, h Handler, evt any) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Str("kind", kind).Any("panic", r).Msg("event subscriber panicked")
		}
	}()
	if err := h(ctx, evt); err != nil {
		b.log.Warn().Err(err).Str("kind", kind).Msg("event subscriber failed")
	}
}
