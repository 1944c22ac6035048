package memstore

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/quadfusion/engine/encoding"
	"github.com/quadfusion/engine/internal/enginecore"
	"github.com/quadfusion/engine/internal/objectid"
	"github.com/quadfusion/engine/model"
)

// MemQuadStorage is the in-memory QuadStorage backend: an object-id
// mapping shared by three sorted index permutations (GSPO, GPOS, GOSP)
// and a single-writer version log. It implements enginecore.QuadStorage
// and enginecore.BulkLoader.
type MemQuadStorage struct {
	mapping *objectid.Mapping
	log     *MemLog

	mu   sync.RWMutex // guards graphs and the three indexes together
	gspo *MemQuadIndex
	gpos *MemQuadIndex
	gosp *MemQuadIndex

	// graphs tracks the live quad count per named graph, read by
	// InsertNamedGraph and ContainsNamedGraph; NamedGraphs and ClearGraph
	// scan the GSPO index instead.
	graphs map[encoding.ObjectID]int64

	// emptyGraphs holds named graphs explicitly created (InsertNamedGraph)
	// or emptied (ClearGraph) that currently hold no quads; the index scan
	// in namedGraphsAt alone cannot see these. Live-state only — not part of
	// any snapshot's versioned view, since membership-of-an-empty-graph
	// has no quad insertion/removal to hang a version off of.
	emptyGraphs map[encoding.ObjectID]bool

	logger *zap.SugaredLogger
}

var (
	_ enginecore.QuadStorage       = (*MemQuadStorage)(nil)
	_ enginecore.BulkLoader        = (*MemQuadStorage)(nil)
	_ enginecore.NamedGraphManager = (*MemQuadStorage)(nil)
	_ enginecore.QuadIterator      = (*patternIterator)(nil)
	_ enginecore.QuadStorage       = (*snapshotView)(nil)
)

// New constructs an empty store.
func New() *MemQuadStorage {
	return &MemQuadStorage{
		mapping: objectid.NewMapping(),
		log:     NewMemLog(),
		gspo:    newMemQuadIndex(PermutationGSPO),
		gpos:    newMemQuadIndex(PermutationGPOS),
		gosp:    newMemQuadIndex(PermutationGOSP),
		graphs:      make(map[encoding.ObjectID]int64),
		emptyGraphs: make(map[encoding.ObjectID]bool),
		logger:      zap.S().Named("memstore.storage"),
	}
}

func (s *MemQuadStorage) encode(q model.Quad) EncodedQuad {
	return EncodedQuad{
		Graph:     s.mapping.GetOrIntern(q.GraphName),
		Subject:   s.mapping.GetOrIntern(q.Subject),
		Predicate: s.mapping.GetOrIntern(q.Predicate),
		Object:    s.mapping.GetOrIntern(q.Object),
	}
}

func (s *MemQuadStorage) decode(eq EncodedQuad) (model.Quad, bool) {
	g, ok := s.mapping.Resolve(eq.Graph)
	if !ok {
		return model.Quad{}, false
	}
	sub, ok := s.mapping.Resolve(eq.Subject)
	if !ok {
		return model.Quad{}, false
	}
	p, ok := s.mapping.Resolve(eq.Predicate)
	if !ok {
		return model.Quad{}, false
	}
	o, ok := s.mapping.Resolve(eq.Object)
	if !ok {
		return model.Quad{}, false
	}
	return model.Quad{Subject: sub, Predicate: p, Object: o, GraphName: g}, true
}

// InsertQuad implements enginecore.QuadStorage.
func (s *MemQuadStorage) InsertQuad(ctx context.Context, q model.Quad) (bool, error) {
	var inserted bool
	err := s.log.Transaction(func(version uint64) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		eq := s.encode(q)
		if s.liveInGSPO(eq) {
			inserted = false
			return nil
		}
		s.gspo.Insert(eq, version)
		s.gpos.Insert(eq, version)
		s.gosp.Insert(eq, version)
		if !q.GraphName.IsDefaultGraph() {
			s.graphs[eq.Graph]++
			delete(s.emptyGraphs, eq.Graph)
		}
		inserted = true
		return nil
	})
	if err != nil {
		return false, enginecore.NewStorageError(enginecore.ErrCodeStorageIO, "insert failed", err)
	}
	return inserted, nil
}

func (s *MemQuadStorage) liveInGSPO(eq EncodedQuad) bool {
	e, ok := s.gspo.byKey[s.gspo.perm.orderKey(eq)]
	return ok && e.liveAt(s.log.CurrentVersion())
}

// RemoveQuad implements enginecore.QuadStorage.
func (s *MemQuadStorage) RemoveQuad(ctx context.Context, q model.Quad) (bool, error) {
	var removed bool
	err := s.log.Transaction(func(version uint64) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		g, ok := s.mapping.Lookup(q.GraphName)
		if !ok {
			return nil
		}
		sub, ok := s.mapping.Lookup(q.Subject)
		if !ok {
			return nil
		}
		p, ok := s.mapping.Lookup(q.Predicate)
		if !ok {
			return nil
		}
		o, ok := s.mapping.Lookup(q.Object)
		if !ok {
			return nil
		}
		eq := EncodedQuad{Graph: g, Subject: sub, Predicate: p, Object: o}
		if !s.liveInGSPO(eq) {
			return nil
		}
		s.gspo.Remove(eq, version)
		s.gpos.Remove(eq, version)
		s.gosp.Remove(eq, version)
		if !q.GraphName.IsDefaultGraph() {
			if n := s.graphs[eq.Graph]; n > 0 {
				s.graphs[eq.Graph] = n - 1
			}
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, enginecore.NewStorageError(enginecore.ErrCodeStorageIO, "remove failed", err)
	}
	return removed, nil
}

// ContainsQuad implements enginecore.QuadStorage.
func (s *MemQuadStorage) ContainsQuad(ctx context.Context, q model.Quad) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.containsLocked(q)
}

func (s *MemQuadStorage) containsLocked(q model.Quad) (bool, error) {
	g, ok := s.mapping.Lookup(q.GraphName)
	if !ok {
		return false, nil
	}
	sub, ok := s.mapping.Lookup(q.Subject)
	if !ok {
		return false, nil
	}
	p, ok := s.mapping.Lookup(q.Predicate)
	if !ok {
		return false, nil
	}
	o, ok := s.mapping.Lookup(q.Object)
	if !ok {
		return false, nil
	}
	return s.liveInGSPO(EncodedQuad{Graph: g, Subject: sub, Predicate: p, Object: o}), nil
}

// Len implements enginecore.QuadStorage.
func (s *MemQuadStorage) Len(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lenAt(s.log.CurrentVersion()), nil
}

func (s *MemQuadStorage) lenAt(version uint64) int64 {
	var n int64
	s.gspo.Scan(nil, version, func(EncodedQuad) bool {
		n++
		return true
	})
	return n
}

// NamedGraphs implements enginecore.QuadStorage. The result includes
// graphs holding at least one quad at the current version plus any
// graph explicitly created empty (InsertNamedGraph) or emptied
// (ClearGraph) and not since dropped.
func (s *MemQuadStorage) NamedGraphs(ctx context.Context) ([]model.Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.namedGraphsAt(s.log.CurrentVersion())
	seen := make(map[encoding.ObjectID]bool, len(out))
	for _, t := range out {
		if gid, ok := s.mapping.Lookup(t); ok {
			seen[gid] = true
		}
	}
	for gid := range s.emptyGraphs {
		if seen[gid] {
			continue
		}
		if t, ok := s.mapping.Resolve(gid); ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// InsertNamedGraph adds graph to the named-graph set with no quads, a
// no-op if it already holds at least one quad or was already created.
// Not part of enginecore.QuadStorage; the engine facade's storage
// mutation handle detects it via the enginecore.NamedGraphManager
// capability interface, the same optional-interface pattern as
// enginecore.BulkLoader.
func (s *MemQuadStorage) InsertNamedGraph(ctx context.Context, graph model.Term) error {
	if graph.IsDefaultGraph() {
		return enginecore.NewStorageError(enginecore.ErrCodeStorageIO, "cannot insert the default graph into the named-graph set", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	gid := s.mapping.GetOrIntern(graph)
	if s.graphs[gid] == 0 {
		s.emptyGraphs[gid] = true
	}
	return nil
}

// DropNamedGraph removes graph from the named-graph set entirely,
// clearing any quads it holds first. Not part of enginecore.QuadStorage;
// see InsertNamedGraph.
func (s *MemQuadStorage) DropNamedGraph(ctx context.Context, graph model.Term) error {
	if err := s.ClearGraph(ctx, graph); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if gid, ok := s.mapping.Lookup(graph); ok {
		delete(s.emptyGraphs, gid)
	}
	return nil
}

// ContainsNamedGraph reports whether graph is currently a member of the
// named-graph set, including graphs with zero quads. Not part of
// enginecore.QuadStorage; see InsertNamedGraph.
func (s *MemQuadStorage) ContainsNamedGraph(ctx context.Context, graph model.Term) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	gid, ok := s.mapping.Lookup(graph)
	if !ok {
		return false, nil
	}
	if s.emptyGraphs[gid] {
		return true, nil
	}
	return s.graphs[gid] > 0, nil
}

func (s *MemQuadStorage) namedGraphsAt(version uint64) []model.Term {
	var out []model.Term
	seen := make(map[encoding.ObjectID]bool)
	s.gspo.Scan(nil, version, func(eq EncodedQuad) bool {
		if eq.Graph == encoding.DefaultGraphID || seen[eq.Graph] {
			return true
		}
		seen[eq.Graph] = true
		if t, ok := s.mapping.Resolve(eq.Graph); ok {
			out = append(out, t)
		}
		return true
	})
	return out
}

// ClearGraph implements enginecore.QuadStorage.
func (s *MemQuadStorage) ClearGraph(ctx context.Context, graph model.Term) error {
	err := s.log.Transaction(func(version uint64) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		gid, ok := s.mapping.Lookup(graph)
		if !ok {
			return nil
		}
		var victims []EncodedQuad
		s.gspo.Scan([]ScanInstruction{{Kind: InstructionEqualTo, Eq: gid}}, version-1, func(q EncodedQuad) bool {
			victims = append(victims, q)
			return true
		})
		for _, eq := range victims {
			s.gspo.Remove(eq, version)
			s.gpos.Remove(eq, version)
			s.gosp.Remove(eq, version)
		}
		delete(s.graphs, gid)
		s.emptyGraphs[gid] = true
		return nil
	})
	if err != nil {
		return enginecore.NewStorageError(enginecore.ErrCodeStorageIO, "clear graph failed", err)
	}
	return nil
}

// Snapshot implements enginecore.QuadStorage. The in-memory backend's
// indexes already carry full version history, so a snapshot is simply a
// fixed version number captured at call time; no copy is made.
func (s *MemQuadStorage) Snapshot(ctx context.Context) (enginecore.QuadStorage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &snapshotView{store: s, version: s.log.CurrentVersion()}, nil
}

// BulkInsert implements enginecore.BulkLoader, committing all quads in a
// single transaction to avoid per-quad version-log overhead.
func (s *MemQuadStorage) BulkInsert(ctx context.Context, quads []model.Quad) (int64, error) {
	var inserted int64
	err := s.log.Transaction(func(version uint64) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		batch := make(map[[4]encoding.ObjectID]bool, len(quads))
		for _, q := range quads {
			eq := s.encode(q)
			key := s.gspo.perm.orderKey(eq)
			if batch[key] || s.liveInGSPO(eq) {
				continue
			}
			batch[key] = true
			s.gspo.Insert(eq, version)
			s.gpos.Insert(eq, version)
			s.gosp.Insert(eq, version)
			if !q.GraphName.IsDefaultGraph() {
				s.graphs[eq.Graph]++
				delete(s.emptyGraphs, eq.Graph)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, enginecore.NewStorageError(enginecore.ErrCodeStorageIO, "bulk insert failed", err)
	}
	return inserted, nil
}

// QuadsForPattern implements enginecore.QuadStorage.
func (s *MemQuadStorage) QuadsForPattern(ctx context.Context, pattern model.QuadPattern) (enginecore.QuadIterator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scanAt(pattern, s.log.CurrentVersion())
}

func (s *MemQuadStorage) scanAt(pattern model.QuadPattern, version uint64) (*patternIterator, error) {
	var gID, sID, pID, oID *encoding.ObjectID
	if pattern.GraphName != nil {
		if id, ok := s.mapping.Lookup(*pattern.GraphName); ok {
			gID = &id
		} else {
			return &patternIterator{}, nil // referenced term never interned: no matches
		}
	}
	if pattern.Subject != nil {
		if id, ok := s.mapping.Lookup(*pattern.Subject); ok {
			sID = &id
		} else {
			return &patternIterator{}, nil
		}
	}
	if pattern.Predicate != nil {
		if id, ok := s.mapping.Lookup(*pattern.Predicate); ok {
			pID = &id
		} else {
			return &patternIterator{}, nil
		}
	}
	if pattern.Object != nil {
		if id, ok := s.mapping.Lookup(*pattern.Object); ok {
			oID = &id
		} else {
			return &patternIterator{}, nil
		}
	}

	best, bestScore := s.gspo, -1
	for _, idx := range []*MemQuadIndex{s.gspo, s.gpos, s.gosp} {
		instr := idx.PatternInstructions(gID, sID, pID, oID)
		if score := computeScanScore(instr); score > bestScore {
			best, bestScore = idx, score
		}
	}

	var results []model.Quad
	best.Scan(best.PatternInstructions(gID, sID, pID, oID), version, func(eq EncodedQuad) bool {
		q, ok := s.decode(eq)
		if ok && pattern.Matches(q) {
			results = append(results, q)
		}
		return true
	})
	return &patternIterator{quads: results}, nil
}

// patternIterator implements enginecore.QuadIterator over a buffered
// result slice; the in-memory backend's scans are cheap enough that
// streaming from the index directly is not worth the added complexity.
type patternIterator struct {
	quads []model.Quad
	pos   int
	cur   model.Quad
}

func (it *patternIterator) Next(ctx context.Context) (bool, error) {
	if it.pos >= len(it.quads) {
		return false, nil
	}
	it.cur = it.quads[it.pos]
	it.pos++
	return true, nil
}

func (it *patternIterator) Quad() model.Quad { return it.cur }
func (it *patternIterator) Close() error     { return nil }

// snapshotView is a read-only view of a MemQuadStorage pinned to a single
// version. Its mutating methods report a storage error rather than
// panicking, since the snapshot-isolation contract treats a snapshot as
// a frozen read surface, not a sibling writable store.
type snapshotView struct {
	store   *MemQuadStorage
	version uint64
}

var errSnapshotReadOnly = enginecore.NewStorageError(enginecore.ErrCodeStorageClosed, "snapshot views are read-only", nil)

func (v *snapshotView) InsertQuad(ctx context.Context, q model.Quad) (bool, error) {
	return false, errSnapshotReadOnly
}

func (v *snapshotView) RemoveQuad(ctx context.Context, q model.Quad) (bool, error) {
	return false, errSnapshotReadOnly
}

func (v *snapshotView) ContainsQuad(ctx context.Context, q model.Quad) (bool, error) {
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	g, ok := v.store.mapping.Lookup(q.GraphName)
	if !ok {
		return false, nil
	}
	sub, ok := v.store.mapping.Lookup(q.Subject)
	if !ok {
		return false, nil
	}
	p, ok := v.store.mapping.Lookup(q.Predicate)
	if !ok {
		return false, nil
	}
	o, ok := v.store.mapping.Lookup(q.Object)
	if !ok {
		return false, nil
	}
	eq := EncodedQuad{Graph: g, Subject: sub, Predicate: p, Object: o}
	e, ok := v.store.gspo.byKey[v.store.gspo.perm.orderKey(eq)]
	return ok && e.liveAt(v.version), nil
}

func (v *snapshotView) QuadsForPattern(ctx context.Context, pattern model.QuadPattern) (enginecore.QuadIterator, error) {
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	return v.store.scanAt(pattern, v.version)
}

func (v *snapshotView) Len(ctx context.Context) (int64, error) {
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	return v.store.lenAt(v.version), nil
}

func (v *snapshotView) NamedGraphs(ctx context.Context) ([]model.Term, error) {
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	return v.store.namedGraphsAt(v.version), nil
}

func (v *snapshotView) ClearGraph(ctx context.Context, graph model.Term) error {
	return errSnapshotReadOnly
}

func (v *snapshotView) Snapshot(ctx context.Context) (enginecore.QuadStorage, error) {
	return v, nil
}
