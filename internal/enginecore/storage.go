package enginecore

import (
	"context"

	"github.com/quadfusion/engine/model"
)

// QuadIterator streams quads matching a pattern from a storage backend or
// snapshot. Next advances and reports whether a quad is available; Quad
// is only valid after a true return from Next. Implementations must
// release any backing resources (cursors, connections) in Close.
type QuadIterator interface {
	Next(ctx context.Context) (bool, error)
	Quad() model.Quad
	Close() error
}

// QuadStorage is the contract both internal/memstore and internal/pgstore
// implement; internal/storagetest runs one black-box suite
// against both. All operations are relative to a single named graph
// partition except where the pattern's GraphName is nil (search across
// all graphs).
type QuadStorage interface {
	// InsertQuad adds q if absent. It reports whether the quad was newly
	// inserted (false if it was already present — insertion is idempotent).
	InsertQuad(ctx context.Context, q model.Quad) (inserted bool, err error)

	// RemoveQuad deletes q if present, reporting whether it was removed.
	RemoveQuad(ctx context.Context, q model.Quad) (removed bool, err error)

	// ContainsQuad reports whether q is currently present.
	ContainsQuad(ctx context.Context, q model.Quad) (bool, error)

	// QuadsForPattern returns an iterator over every quad matching pattern.
	QuadsForPattern(ctx context.Context, pattern model.QuadPattern) (QuadIterator, error)

	// Len returns the total number of quads across all graphs.
	Len(ctx context.Context) (int64, error)

	// NamedGraphs lists every distinct non-default graph name in the
	// named-graph set: graphs holding at least one quad, plus, in the
	// memstore and pgstore backends, graphs created empty or emptied by
	// ClearGraph and not since dropped.
	NamedGraphs(ctx context.Context) ([]model.Term, error)

	// ClearGraph removes every quad naming graph (or, for the default
	// graph term, every quad asserted in the default graph).
	ClearGraph(ctx context.Context, graph model.Term) error

	// Snapshot returns a read-consistent view of the store as of the call
	// time; subsequent writes to the live store are not visible through
	// it, matching the snapshot-isolation contract.
	Snapshot(ctx context.Context) (QuadStorage, error)
}

// BulkLoader is an optional capability a QuadStorage backend may support
// for efficient initial loads, bypassing per-quad transaction overhead.
// internal/memstore and internal/pgstore both implement it (pgstore with
// batched INSERTs).
type BulkLoader interface {
	BulkInsert(ctx context.Context, quads []model.Quad) (inserted int64, err error)
}

// NamedGraphManager is an optional capability for creating and dropping
// named graphs independently of quad insertion — the side named-graph
// set may hold graphs with zero quads, which InsertQuad/RemoveQuad alone
// cannot express. internal/memstore implements it directly.
type NamedGraphManager interface {
	InsertNamedGraph(ctx context.Context, graph model.Term) error
	DropNamedGraph(ctx context.Context, graph model.Term) error
	ContainsNamedGraph(ctx context.Context, graph model.Term) (bool, error)
}
