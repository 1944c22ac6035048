package memstore

import (
	"sync"

	"go.uber.org/zap"
)

// unsetVersion marks a log entry that has not (yet, or ever) been deleted.
const unsetVersion = ^uint64(0)

// versionRange is one insert/delete span of an entry's lifetime: the
// entry is live for any snapshot version v with InsertedAt <= v < DeletedAt.
// A quad can be inserted, deleted, and reinserted; each cycle appends a
// new range rather than overwriting the old one, so a snapshot taken
// mid-history still sees the state that was true at its version.
type versionRange struct {
	InsertedAt uint64
	DeletedAt  uint64
}

func (r versionRange) liveAt(v uint64) bool {
	return r.InsertedAt <= v && v < r.DeletedAt
}

// MemLog is the append/delete log underlying the in-memory store: a
// monotonic version counter and single-writer transaction protocol. Quad
// liveness itself is tracked per-entry in MemQuadIndex (one versionRange
// list per distinct quad); the log's job is only to hand out and commit
// version numbers under mutual exclusion, matching a single-writer/
// many-reader contract.
type MemLog struct {
	mu      sync.Mutex
	current uint64
	log     *zap.SugaredLogger
}

// NewMemLog creates an empty log at version 0.
func NewMemLog() *MemLog {
	return &MemLog{log: zap.S().Named("memstore.log")}
}

// CurrentVersion returns the most recently committed version, the version
// a new Snapshot should read at.
func (l *MemLog) CurrentVersion() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Transaction serializes writers: fn runs with exclusive access to the
// store and is handed the version number its writes will commit at. If fn
// returns an error, the version counter is not advanced; callers that
// already mutated index entries under this version must treat it as
// reverted (MemQuadStorage.InsertQuad/BulkInsert write index entries
// directly inside fn, and their fn never returns an error).
func (l *MemLog) Transaction(fn func(version uint64) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	next := l.current + 1
	if err := fn(next); err != nil {
		return err
	}
	l.current = next
	l.log.Debugw("committed transaction", "version", next)
	return nil
}
