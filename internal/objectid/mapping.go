// Package objectid implements the bidirectional term<->id interning
// service that backs the object-id term encoding: a thread-safe,
// monotonically increasing counter mapping each distinct term ever seen
// by the engine to a stable uint64, and back.
package objectid

import (
	"sync"

	"go.uber.org/zap"

	"github.com/quadfusion/engine/encoding"
	"github.com/quadfusion/engine/model"
)

// Mapping is the term <-> ObjectID interning table. The zero value is not
// usable; construct one with NewMapping. A Mapping is safe for concurrent
// use by multiple readers and a single writer, matching the engine's
// single-writer concurrency model.
type Mapping struct {
	mu     sync.RWMutex
	byTerm map[model.Term]encoding.ObjectID
	byID   map[encoding.ObjectID]model.Term
	nextID uint64
	log    *zap.SugaredLogger
}

// NewMapping constructs an empty mapping. ID 0 is pre-reserved for the
// default graph sentinel and is never returned by GetOrIntern for a term.
func NewMapping() *Mapping {
	m := &Mapping{
		byTerm: make(map[model.Term]encoding.ObjectID),
		byID:   make(map[encoding.ObjectID]model.Term),
		nextID: 1,
		log:    zap.S().Named("objectid"),
	}
	m.byID[encoding.DefaultGraphID] = model.DefaultGraph
	return m
}

// GetOrIntern returns the ObjectID for t, assigning a fresh one on first
// sight. Concurrent callers racing to intern the same new term are
// serialized by the write lock; one wins and the rest observe its id.
func (m *Mapping) GetOrIntern(t model.Term) encoding.ObjectID {
	if t.IsDefaultGraph() {
		return encoding.DefaultGraphID
	}
	m.mu.RLock()
	if id, ok := m.byTerm[t]; ok {
		m.mu.RUnlock()
		return id
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.byTerm[t]; ok {
		return id
	}
	id := encoding.ObjectID(m.nextID)
	m.nextID++
	m.byTerm[t] = id
	m.byID[id] = t
	return id
}

// Lookup resolves an existing term to its ObjectID without interning; the
// second return value is false if the term has never been seen.
func (m *Mapping) Lookup(t model.Term) (encoding.ObjectID, bool) {
	if t.IsDefaultGraph() {
		return encoding.DefaultGraphID, true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byTerm[t]
	return id, ok
}

// Resolve returns the term for a previously interned ObjectID.
func (m *Mapping) Resolve(id encoding.ObjectID) (model.Term, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.byID[id]
	return t, ok
}

// Len returns the number of distinct non-default-graph terms interned.
func (m *Mapping) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byTerm)
}
