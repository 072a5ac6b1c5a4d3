// Package module wires the idempotency service and exposes its ports
package module

import (
	"quill/internal/modkit"
	"quill/internal/services/idempotency/domain"
	"quill/internal/services/idempotency/repo"
	"quill/internal/services/idempotency/service"
)

// Ports holds the ports exposed by the idempotency module
type Ports struct {
	Keys    domain.KeyPort
	Sweeper domain.SweeperPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the idempotency module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	sweeper := service.NewSweeper(deps.DB, deps.Clock, service.Config{
		TTL:      opts.TTL,
		Interval: opts.Interval,
	}, deps.Log.With().Str("component", "idempotency").Logger())

	m := &Module{deps: deps}
	m.ports = Ports{Keys: repo.NewStore(), Sweeper: sweeper}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "idempotency" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }
