package quadfusion

import (
	"context"

	"go.uber.org/zap"

	"github.com/quadfusion/engine/model"
)

// StorageHandle is the mutation surface spec.md §6.1's storage() call
// returns: every write path into an Engine's backing QuadStorage.
// Engine.ExecuteQuery never mutates storage, so all of that surface
// lives here instead of on Engine directly, the same separation forma
// draws between its read-oriented repository methods and its
// transactional entity-manager ones.
type StorageHandle struct {
	storage QuadStorage
	log     *zap.SugaredLogger
}

// Extend inserts every quad in quads, reporting how many were newly
// added (duplicates under sameTerm are silently skipped, matching
// InsertQuad's idempotence).
func (h *StorageHandle) Extend(ctx context.Context, quads []model.Quad) (inserted int64, err error) {
	if loader, ok := h.storage.(BulkLoader); ok {
		return loader.BulkInsert(ctx, quads)
	}
	var n int64
	for _, q := range quads {
		ok, err := h.storage.InsertQuad(ctx, q)
		if err != nil {
			return n, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// Remove deletes q if present, reporting whether it was removed.
func (h *StorageHandle) Remove(ctx context.Context, q model.Quad) (bool, error) {
	return h.storage.RemoveQuad(ctx, q)
}

// Clear empties every graph, default and named alike, leaving the
// named-graph set itself intact (an emptied graph is still a member of
// it, per ClearGraph's contract).
func (h *StorageHandle) Clear(ctx context.Context) error {
	if err := h.storage.ClearGraph(ctx, model.DefaultGraph); err != nil {
		return err
	}
	graphs, err := h.storage.NamedGraphs(ctx)
	if err != nil {
		return err
	}
	for _, g := range graphs {
		if err := h.storage.ClearGraph(ctx, g); err != nil {
			return err
		}
	}
	return nil
}

// ClearGraph empties graph (default or named) without removing it from
// the named-graph set.
func (h *StorageHandle) ClearGraph(ctx context.Context, graph model.Term) error {
	return h.storage.ClearGraph(ctx, graph)
}

// InsertNamedGraph adds graph to the named-graph set with no quads.
// Requires a backend implementing NamedGraphManager; returns
// ErrCodeUnsupportedCapability otherwise.
func (h *StorageHandle) InsertNamedGraph(ctx context.Context, graph model.Term) error {
	mgr, ok := h.storage.(NamedGraphManager)
	if !ok {
		return NewStorageError(ErrCodeUnsupportedCapability, "storage backend does not support explicit named-graph management", nil)
	}
	return mgr.InsertNamedGraph(ctx, graph)
}

// DropNamedGraph removes graph (and any quads it holds) from the
// named-graph set entirely. Requires a backend implementing
// NamedGraphManager; returns ErrCodeUnsupportedCapability otherwise.
func (h *StorageHandle) DropNamedGraph(ctx context.Context, graph model.Term) error {
	mgr, ok := h.storage.(NamedGraphManager)
	if !ok {
		return NewStorageError(ErrCodeUnsupportedCapability, "storage backend does not support explicit named-graph management", nil)
	}
	return mgr.DropNamedGraph(ctx, graph)
}

// NamedGraphs lists every distinct non-default graph currently in the
// named-graph set, including graphs with zero quads when the backend
// tracks that (see NamedGraphManager).
func (h *StorageHandle) NamedGraphs(ctx context.Context) ([]model.Term, error) {
	return h.storage.NamedGraphs(ctx)
}

// ContainsNamedGraph reports whether graph is a member of the
// named-graph set. Backends without NamedGraphManager fall back to
// "does it currently hold at least one quad", which undercounts graphs
// explicitly created empty but never populated.
func (h *StorageHandle) ContainsNamedGraph(ctx context.Context, graph model.Term) (bool, error) {
	if mgr, ok := h.storage.(NamedGraphManager); ok {
		return mgr.ContainsNamedGraph(ctx, graph)
	}
	graphs, err := h.storage.NamedGraphs(ctx)
	if err != nil {
		return false, err
	}
	for _, g := range graphs {
		if g.SameTerm(graph) {
			return true, nil
		}
	}
	return false, nil
}

// Snapshot returns a new StorageHandle over a read-consistent view of
// the store as of the call time; writes through the returned handle
// fail since QuadStorage.Snapshot's contract returns a read-only view.
func (h *StorageHandle) Snapshot(ctx context.Context) (*StorageHandle, error) {
	snap, err := h.storage.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &StorageHandle{storage: snap, log: h.log}, nil
}

// Validate performs a best-effort self-check of the storage invariants
// spec.md §8 lists: Len matches the multiset size a full pattern scan
// reports, and the default graph is never itself a member of the
// named-graph set. It does not attempt the full per-index
// cross-validation a background auditor would run.
func (h *StorageHandle) Validate(ctx context.Context) error {
	reported, err := h.storage.Len(ctx)
	if err != nil {
		return err
	}
	scanned, err := h.countAll(ctx)
	if err != nil {
		return err
	}
	if reported != scanned {
		return NewStorageError(ErrCodeInternal, "len() disagrees with a full pattern scan", nil).
			WithDetail("len", reported).WithDetail("scanned", scanned)
	}
	graphs, err := h.storage.NamedGraphs(ctx)
	if err != nil {
		return err
	}
	for _, g := range graphs {
		if g.IsDefaultGraph() {
			return NewStorageError(ErrCodeInternal, "default graph must never appear in the named-graph set", nil)
		}
	}
	return nil
}

func (h *StorageHandle) countAll(ctx context.Context) (int64, error) {
	it, err := h.storage.QuadsForPattern(ctx, model.QuadPattern{})
	if err != nil {
		return 0, err
	}
	defer it.Close()
	var n int64
	for {
		ok, err := it.Next(ctx)
		if err != nil {
			return n, err
		}
		if !ok {
			return n, nil
		}
		n++
	}
}
