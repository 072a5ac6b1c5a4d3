// Package service implements the outbox drain worker
package service

import (
	"context"
	"time"

	"quill/internal/modkit/repokit"
	"quill/internal/platform/clock"
	perr "quill/internal/platform/errors"
	"quill/internal/platform/logger"
	"quill/internal/services/outbox/domain"
	"quill/internal/services/outbox/repo"
	writerdom "quill/internal/services/writer/domain"
)

// Config controls the drain worker
type Config struct {
	Interval    time.Duration
	TakeBatch   int
	MaxAttempts int
}

// Svc drains outbox entries into the full-text index. Each entry settles in
// its own transaction so one poisoned entry cannot hold up the rest
type Svc struct {
	db    repokit.TxRunner
	store repo.Store
	docs  writerdom.DocSource
	index writerdom.IndexPort
	clk   clock.Clock
	cfg   Config
	log   logger.Logger
}

// New constructs the drain worker
func New(db repokit.TxRunner, docs writerdom.DocSource, index writerdom.IndexPort, clk clock.Clock, cfg Config, log logger.Logger) *Svc {
	if cfg.Interval <= 0 {
		cfg.Interval = 500 * time.Millisecond
	}
	if cfg.TakeBatch <= 0 {
		cfg.TakeBatch = 64
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	return &Svc{db: db, store: repo.NewStore(), docs: docs, index: index, clk: clk, cfg: cfg, log: log}
}

// Run implements domain.DrainerPort
func (s *Svc) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.DrainOnce(ctx); err != nil {
				s.log.Error().Err(err).Msg("outbox drain failed")
			}
		}
	}
}

// DrainOnce settles one batch of pending entries and reports how many
// completed
func (s *Svc) DrainOnce(ctx context.Context) (int, error) {
	entries, err := s.store.Take(ctx, s.db, s.cfg.TakeBatch, s.cfg.MaxAttempts)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if err := s.settle(ctx, e); err != nil {
			s.log.Warn().Err(err).Str("entry_id", e.ID).Str("type", e.Type).Int("attempts", e.Attempts).Msg("outbox entry failed")
			if ferr := s.store.Fail(ctx, s.db, e.ID, err); ferr != nil {
				return done, ferr
			}
			continue
		}
		done++
	}
	return done, nil
}

// settle applies one entry and completes it in a single transaction
func (s *Svc) settle(ctx context.Context, e domain.Entry) error {
	return repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		if err := s.apply(ctx, q, e); err != nil {
			return err
		}
		return s.store.Complete(ctx, q, e.ID)
	})
}

func (s *Svc) apply(ctx context.Context, q repokit.Queryer, e domain.Entry) error {
	switch e.Type {
	case domain.TypeIndexDelete:
		return s.index.Delete(ctx, q, e.Payload.DocID)
	case domain.TypeIndexUpsert:
		doc, err := s.docs.Get(ctx, q, e.Payload.DocID)
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			// deleted after the upsert was queued; drop any stale projection
			return s.index.Delete(ctx, q, e.Payload.DocID)
		}
		if err != nil {
			return err
		}
		if !doc.SearchStale {
			return nil
		}
		if err := s.index.IndexDocument(ctx, q, doc); err != nil {
			return err
		}
		return s.docs.StampIndexed(ctx, q, doc.ID, s.index.SchemaVersion(), s.clk.Now())
	default:
		return perr.InvalidArgf("unknown outbox entry type %q", e.Type)
	}
}
