// Package module wires the search module and exposes its ports
package module

import (
	"quill/internal/modkit"
	"quill/internal/services/search/domain"
	"quill/internal/services/search/service"
	writerdom "quill/internal/services/writer/domain"
)

// Ports exposed by the search module
type Ports struct {
	Indexer writerdom.IndexPort
	Query   domain.QueryPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the search module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	m := &Module{deps: deps}
	m.ports = Ports{
		Indexer: service.NewIndexer(service.PlainExtractor{}),
		Query:   service.NewQuery(deps.DB, opts.HardLimit),
	}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "search" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }
