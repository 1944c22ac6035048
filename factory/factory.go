// Package factory is the single place that turns an enginecore.Config
// into a running quadfusion.Engine, the dependency-injection seam
// Engine itself stays deliberately ignorant of: the root package never
// imports internal/memstore or internal/pgstore directly, so every
// concrete storage backend is wired up here instead, mirroring the
// teacher's own factory.NewEntityManagerWithConfig boundary between
// "how to build one" and "what it does once built."
package factory

import (
	"context"
	"fmt"

	"github.com/quadfusion/engine"
	"github.com/quadfusion/engine/internal/memstore"
	"github.com/quadfusion/engine/internal/pgstore"
)

// New builds an Engine from cfg, selecting and constructing the
// QuadStorage backend named by cfg.Storage.Backend.
//
// Usage:
//
//	cfg := quadfusion.DefaultConfig()
//	cfg.Storage.Backend = quadfusion.StorageBackendPostgres
//	cfg.Postgres.ConnString = "postgres://..."
//	e, err := factory.New(ctx, cfg)
func New(ctx context.Context, cfg *quadfusion.Config) (*quadfusion.Engine, error) {
	if cfg == nil {
		cfg = quadfusion.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	storage, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return quadfusion.NewEngine(cfg, storage)
}

func newStorage(ctx context.Context, cfg *quadfusion.Config) (quadfusion.QuadStorage, error) {
	switch cfg.Storage.Backend {
	case "", quadfusion.StorageBackendMemory:
		return memstore.New(), nil
	case quadfusion.StorageBackendPostgres:
		return pgstore.NewFromConfig(ctx, cfg.Postgres)
	default:
		return nil, fmt.Errorf("factory: unknown storage backend %q", cfg.Storage.Backend)
	}
}
