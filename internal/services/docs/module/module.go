// Package module wires the documents module and exposes its ports
package module

import (
	"quill/internal/modkit"
	"quill/internal/services/docs/domain"
	"quill/internal/services/docs/repo"
	"quill/internal/services/docs/service"
	idemdom "quill/internal/services/idempotency/domain"
	writerdom "quill/internal/services/writer/domain"
)

// Ports exposed by the documents module. Source is the transaction-explicit
// document access the writer coordinator and outbox drainer share
type Ports struct {
	Commands domain.CommandPort
	Reader   domain.ReaderPort
	Source   writerdom.DocSource
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// NewSource builds the transaction-explicit document access on its own.
// The writer and outbox modules need it before the full documents module
// can exist, because the documents module itself depends on the write queue
func NewSource() writerdom.DocSource { return repo.NewTxStore() }

// New constructs the documents module over the write queue
func New(deps modkit.Deps, queue writerdom.QueuePort, keys idemdom.KeyPort) *Module {
	svc := service.New(queue, keys, deps.DB, deps.Clock,
		deps.Log.With().Str("component", "docs").Logger())

	m := &Module{deps: deps}
	m.ports = Ports{
		Commands: svc,
		Reader:   svc,
		Source:   repo.NewTxStore(),
	}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "docs" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }
