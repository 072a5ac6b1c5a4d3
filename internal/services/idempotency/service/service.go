// Package service implements the idempotency key sweeper
package service

import (
	"context"
	"time"

	"quill/internal/modkit/repokit"
	"quill/internal/platform/clock"
	"quill/internal/platform/logger"
	"quill/internal/services/idempotency/repo"
)

// Config controls the sweeper
type Config struct {
	// TTL is how long a claimed key blocks replays
	TTL time.Duration
	// Interval is how often expired keys are purged
	Interval time.Duration
}

// Sweeper expires idempotency keys past their TTL. After expiry a replayed
// request executes again; callers needing longer protection raise the TTL
type Sweeper struct {
	db    repokit.TxRunner
	store repo.Store
	clk   clock.Clock
	cfg   Config
	log   logger.Logger
}

// NewSweeper constructs a Sweeper
func NewSweeper(db repokit.TxRunner, clk clock.Clock, cfg Config, log logger.Logger) *Sweeper {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	return &Sweeper{db: db, store: repo.NewStore(), clk: clk, cfg: cfg, log: log}
}

// Run implements domain.SweeperPort
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := s.SweepOnce(ctx)
			if err != nil {
				s.log.Error().Err(err).Msg("idempotency sweep failed")
				continue
			}
			if n > 0 {
				s.log.Debug().Int64("purged", n).Msg("idempotency keys expired")
			}
		}
	}
}

// SweepOnce purges keys older than the TTL and reports how many
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	cutoff := s.clk.Now().Add(-s.cfg.TTL)
	return s.store.PurgeOlderThan(ctx, s.db, cutoff)
}
