// Package module wires the outbox drain worker and exposes its ports
package module

import (
	"quill/internal/modkit"
	"quill/internal/services/outbox/domain"
	"quill/internal/services/outbox/repo"
	"quill/internal/services/outbox/service"
	writerdom "quill/internal/services/writer/domain"
)

// Ports holds the ports exposed by the outbox module
type Ports struct {
	Appender writerdom.OutboxPort
	Drainer  domain.DrainerPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the outbox module. The drainer needs the docs and index
// ports from sibling modules
func New(deps modkit.Deps, docs writerdom.DocSource, index writerdom.IndexPort) *Module {
	opts := FromConfig(deps.Cfg)

	drainer := service.New(deps.DB, docs, index, deps.Clock, service.Config{
		Interval:    opts.Interval,
		TakeBatch:   opts.TakeBatch,
		MaxAttempts: opts.MaxAttempts,
	}, deps.Log.With().Str("component", "outbox").Logger())

	m := &Module{deps: deps}
	m.ports = Ports{Appender: repo.NewStore(), Drainer: drainer}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "outbox" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }
