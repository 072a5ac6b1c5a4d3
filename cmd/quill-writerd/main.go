// quill-writerd runs the coalescing write path: the write queue and its
// worker partitions, the idempotency key sweeper, and (in outbox mode) the
// outbox drain worker
package main

import (
	"context"
	"errors"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"quill/internal/modkit"
	"quill/internal/modkit/module"
	"quill/internal/modkit/repokit"
	"quill/internal/platform/clock"
	"quill/internal/platform/config"
	"quill/internal/platform/events"
	"quill/internal/platform/logger"
	"quill/internal/platform/retry"
	"quill/internal/platform/store"

	docsmod "quill/internal/services/docs/module"
	idemmod "quill/internal/services/idempotency/module"
	outboxmod "quill/internal/services/outbox/module"
	searchmod "quill/internal/services/search/module"
	writerdom "quill/internal/services/writer/domain"
	writermod "quill/internal/services/writer/module"
)

func main() {
	root := config.New().Prefix("QUILL_")
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.Config{
		AppName: "quill-writerd",
		Lite: store.LiteConfig{
			Path:        root.MayString("DB_PATH", "quill.db"),
			BusyTimeout: root.MayDuration("DB_BUSY_TIMEOUT", 5*time.Second),
			LogSQL:      root.MayBool("DB_LOG_SQL", false),
			SlowQueryMs: root.MayInt("DB_SLOW_MS", 200),
		},
		Retry: retry.Policy{
			MaxAttempts: uint64(root.MayInt("RETRY_MAX_ATTEMPTS", 8)),
			Base:        root.MayDuration("RETRY_BASE", 25*time.Millisecond),
			MaxDelay:    root.MayDuration("RETRY_MAX_DELAY", 500*time.Millisecond),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	created, err := st.EnsureInitialized(ctx)
	if err != nil {
		l.Panic().Err(err).Msg("schema init failed")
	}
	if created {
		l.Info().Msg("schema initialized")
	}
	repokit.MustGuard(ctx, st)

	deps := modkit.Deps{
		Log:   *l,
		Cfg:   root,
		DB:    st.DB,
		Clock: clock.System{},
		Bus:   events.New(*l),
	}

	// modules; construction order follows the dependency arrows
	idemMod := idemmod.New(deps)
	searchMod := searchmod.New(deps)
	searchPorts := module.MustPortsOf[searchmod.Ports](searchMod)

	source := docsmod.NewSource()
	outboxMod := outboxmod.New(deps, source, searchPorts.Indexer)
	outboxPorts := module.MustPortsOf[outboxmod.Ports](outboxMod)

	writerMod := writermod.New(deps, writermod.Options{}, writermod.Wiring{
		Docs:   source,
		Index:  searchPorts.Indexer,
		Outbox: outboxPorts.Appender,
	})
	writerPorts := module.MustPortsOf[writermod.Ports](writerMod)
	idemPorts := module.MustPortsOf[idemmod.Ports](idemMod)

	docsMod := docsmod.New(deps, writerPorts.Queue, idemPorts.Keys)

	for _, m := range []module.Module{idemMod, searchMod, outboxMod, writerMod, docsMod} {
		module.Register(m.Name(), m.Ports())
	}

	mode := writermod.FromConfig(root).Mode

	var wg sync.WaitGroup
	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := idemPorts.Sweeper.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			l.Error().Err(err).Msg("idempotency sweeper failed")
		}
	}()

	if mode == writerdom.ModeOutbox {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := outboxPorts.Drainer.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				l.Error().Err(err).Msg("outbox drainer failed")
			}
		}()
	}

	// the worker partitions run on their own context so a signal can first
	// close the queue and let in-flight batches drain before they stop
	done := make(chan error, 1)
	go func() { done <- writerPorts.Runner.Run(runCtx) }()

	l.Info().Str("mode", string(mode)).Msg("quill-writerd running")

	select {
	case <-ctx.Done():
		l.Info().Msg("shutdown requested; draining write queue")
		writerPorts.Runner.Close()

		drain := time.NewTimer(root.MayDuration("SHUTDOWN_GRACE", 10*time.Second))
		defer drain.Stop()
		select {
		case err := <-done:
			if err != nil && !errors.Is(err, context.Canceled) {
				l.Error().Err(err).Msg("writer exited with error")
			}
		case <-drain.C:
			l.Warn().Msg("drain grace expired; aborting in-flight work")
		}
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			l.Fatal().Err(err).Msg("writer failed")
		}
	}

	cancel()
	wg.Wait()
	l.Info().Msg("quill-writerd stopped")
}
