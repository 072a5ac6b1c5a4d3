// Package module wires the write coalescing service and exposes its ports
package module

import (
	"quill/internal/modkit"
	"quill/internal/services/writer/domain"
	"quill/internal/services/writer/service"
)

// Wiring carries the cross-module ports the coordinator drives at commit
// time. They come from sibling modules, so the caller supplies them
type Wiring struct {
	Docs   domain.DocSource
	Index  domain.IndexPort
	Outbox domain.OutboxPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the writer module
func New(deps modkit.Deps, overrides Options, w Wiring) *Module {
	opts := FromConfig(deps.Cfg)

	if overrides.QueueCap != 0 {
		opts.QueueCap = overrides.QueueCap
	}
	if overrides.BatchMax != 0 {
		opts.BatchMax = overrides.BatchMax
	}
	if overrides.Window != 0 {
		opts.Window = overrides.Window
	}
	if overrides.Partitions != 0 {
		opts.Partitions = overrides.Partitions
	}
	if overrides.Mode != "" {
		opts.Mode = overrides.Mode
	}

	runner := service.NewRunner(domain.Config{
		QueueCap:   opts.QueueCap,
		BatchMax:   opts.BatchMax,
		Window:     opts.Window,
		Partitions: opts.Partitions,
		Mode:       opts.Mode,
	}, deps.DB, w.Docs, w.Index, w.Outbox, deps.Bus, deps.Clock, deps.Log)

	m := &Module{deps: deps}
	m.ports = Ports{Queue: runner.Queue(), Runner: runner}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "writer" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }
