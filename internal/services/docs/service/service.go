// Package service implements the documents command and read surfaces.
// Writes never touch storage directly: each command becomes a unit of work
// on the write queue and blocks until its batch settles
package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"quill/internal/modkit/pipekit"
	"quill/internal/modkit/repokit"
	"quill/internal/platform/clock"
	perr "quill/internal/platform/errors"
	"quill/internal/platform/logger"
	"quill/internal/services/docs/domain"
	"quill/internal/services/docs/repo"
	idemdom "quill/internal/services/idempotency/domain"
	writerdom "quill/internal/services/writer/domain"
)

// Svc implements domain.CommandPort and domain.ReaderPort
type Svc struct {
	queue writerdom.QueuePort
	keys  idemdom.KeyPort
	bind  repokit.Binder[repo.Storage]
	db    repokit.Queryer
	clk   clock.Clock
	log   logger.Logger
	newID func() string

	create  pipekit.Handler[domain.CreateDocumentCmd, domain.Document]
	rename  pipekit.Handler[domain.RenameDocumentCmd, domain.Document]
	update  pipekit.Handler[domain.UpdateContentCmd, domain.Document]
	remove  pipekit.Handler[domain.DeleteDocumentCmd, string]
	reindex pipekit.Handler[domain.ReindexDocumentCmd, string]
}

// New constructs the documents service with its command pipelines
func New(queue writerdom.QueuePort, keys idemdom.KeyPort, db repokit.Queryer, clk clock.Clock, log logger.Logger) *Svc {
	v := validator.New(validator.WithRequiredStructEnabled())

	s := &Svc{
		queue: queue,
		keys:  keys,
		bind:  repo.NewLite(),
		db:    db,
		clk:   clk,
		log:   log,
		newID: uuid.NewString,
	}

	s.create = pipekit.Chain(s.doCreate,
		pipekit.Logging[domain.CreateDocumentCmd, domain.Document](log, "docs.create"),
		pipekit.Recover[domain.CreateDocumentCmd, domain.Document](log, "docs.create"),
		pipekit.Validate[domain.CreateDocumentCmd, domain.Document](v),
	)
	s.rename = pipekit.Chain(s.doRename,
		pipekit.Logging[domain.RenameDocumentCmd, domain.Document](log, "docs.rename"),
		pipekit.Recover[domain.RenameDocumentCmd, domain.Document](log, "docs.rename"),
		pipekit.Validate[domain.RenameDocumentCmd, domain.Document](v),
	)
	s.update = pipekit.Chain(s.doUpdateContent,
		pipekit.Logging[domain.UpdateContentCmd, domain.Document](log, "docs.update_content"),
		pipekit.Recover[domain.UpdateContentCmd, domain.Document](log, "docs.update_content"),
		pipekit.Validate[domain.UpdateContentCmd, domain.Document](v),
	)
	s.remove = pipekit.Chain(s.doDelete,
		pipekit.Logging[domain.DeleteDocumentCmd, string](log, "docs.delete"),
		pipekit.Recover[domain.DeleteDocumentCmd, string](log, "docs.delete"),
		pipekit.Validate[domain.DeleteDocumentCmd, string](v),
	)
	s.reindex = pipekit.Chain(s.doReindex,
		pipekit.Logging[domain.ReindexDocumentCmd, string](log, "docs.reindex"),
		pipekit.Recover[domain.ReindexDocumentCmd, string](log, "docs.reindex"),
		pipekit.Validate[domain.ReindexDocumentCmd, string](v),
	)
	return s
}

// Create implements domain.CommandPort
func (s *Svc) Create(ctx context.Context, cmd domain.CreateDocumentCmd) (domain.Document, error) {
	return s.create(ctx, cmd)
}

// Rename implements domain.CommandPort
func (s *Svc) Rename(ctx context.Context, cmd domain.RenameDocumentCmd) (domain.Document, error) {
	return s.rename(ctx, cmd)
}

// UpdateContent implements domain.CommandPort
func (s *Svc) UpdateContent(ctx context.Context, cmd domain.UpdateContentCmd) (domain.Document, error) {
	return s.update(ctx, cmd)
}

// Delete implements domain.CommandPort
func (s *Svc) Delete(ctx context.Context, cmd domain.DeleteDocumentCmd) error {
	_, err := s.remove(ctx, cmd)
	return err
}

// Reindex implements domain.CommandPort
func (s *Svc) Reindex(ctx context.Context, cmd domain.ReindexDocumentCmd) error {
	_, err := s.reindex(ctx, cmd)
	return err
}

// Get implements domain.ReaderPort
func (s *Svc) Get(ctx context.Context, id string) (domain.Document, error) {
	if id == "" {
		return domain.Document{}, perr.InvalidArgf("empty document id")
	}
	return s.bind.Bind(s.db).Get(ctx, id)
}

// duplicate is the in-band marker a unit returns when its request id was
// already claimed. A marker instead of an error keeps the batch healthy;
// the duplicate surfaces to its own caller only
type duplicate struct{ requestID string }

// submit enqueues fn and waits for its batch to settle. On success the
// request's claim timestamp is refreshed so the retention window runs from
// completion. Failure releases nothing here: every claim rides the batch
// transaction, so the rollback that failed this attempt already removed any
// claim the attempt made, and a claim that survives the abort belongs to an
// earlier committed request and must keep blocking replays
func submit[T any](ctx context.Context, s *Svc, reqID string, fn writerdom.WriteFunc) (T, error) {
	var zero T
	pending, err := s.queue.Enqueue(ctx, fn)
	if err != nil {
		return zero, err
	}
	v, err := pending.Wait(ctx)
	if err != nil {
		return zero, err
	}
	if d, ok := v.(duplicate); ok {
		return zero, perr.DuplicateKeyf("request %s already processed", d.requestID)
	}
	if merr := s.keys.MarkProcessed(ctx, s.db, reqID, s.clk.Now()); merr != nil {
		s.log.Warn().Err(merr).Str("request_id", reqID).Msg("idempotency touch failed")
	}
	return v.(T), nil
}
