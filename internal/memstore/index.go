package memstore

import (
	"sort"

	"github.com/quadfusion/engine/encoding"
)

// indexEntry is one distinct quad's full lifetime within a single
// permutation's index: its sort key, the original quad (so a scan can
// recover columns that were not part of the prefix the permutation's key
// order exposes), and the version ranges across which it has been live.
type indexEntry struct {
	key [4]encoding.ObjectID
	quad EncodedQuad
	ranges []versionRange
}

func (e *indexEntry) liveAt(v uint64) bool {
	for _, r := range e.ranges {
 if r.liveAt(v) {
 return true
 }
	}
	return false
}

// MemQuadIndex is one sorted permutation of the quad set. Entries are
// kept in a slice ordered by key for range scans, and in a map for O(1)
// point lookup on insert/remove; both refer to the same *indexEntry so
// updating liveness through either path stays consistent.
type MemQuadIndex struct {
	perm Permutation
	entries []*indexEntry
	byKey map[[4]encoding.ObjectID]*indexEntry
}

func newMemQuadIndex(perm Permutation) *MemQuadIndex {
	return &MemQuadIndex{
 perm: perm,
 byKey: make(map[[4]encoding.ObjectID]*indexEntry),
	}
}

// Insert records q as live as of version, appending a fresh version range
// if q was previously deleted (or never seen) and no-oping if it is
// already live — insertion is idempotent within a single live span.
func (idx *MemQuadIndex) Insert(q EncodedQuad, version uint64) {
	key := idx.perm.orderKey(q)
	if e, ok := idx.byKey[key]; ok {
 if n := len(e.ranges); n > 0 && e.ranges[n-1].DeletedAt == unsetVersion {
 return // already live
 }
 e.ranges = append(e.ranges, versionRange{InsertedAt: version, DeletedAt: unsetVersion})
 return
	}
	e := &indexEntry{key: key, quad: q, ranges: []versionRange{{InsertedAt: version, DeletedAt: unsetVersion}}}
	idx.byKey[key] = e
	i := sort.Search(len(idx.entries), func(i int) bool {
 return compareKeys(idx.entries[i].key, key) >= 0
	})
	idx.entries = append(idx.entries, nil)
	copy(idx.entries[i+1:], idx.entries[i:])
	idx.entries[i] = e
}

// Remove closes q's current live span as of version. It is a no-op if q
// is not currently live (removing an absent quad is not an error at this
// layer; MemQuadStorage decides whether that is a caller error).
func (idx *MemQuadIndex) Remove(q EncodedQuad, version uint64) {
	key := idx.perm.orderKey(q)
	e, ok := idx.byKey[key]
	if !ok {
 return
	}
	if n := len(e.ranges); n > 0 && e.ranges[n-1].DeletedAt == unsetVersion {
 e.ranges[n-1].DeletedAt = version
	}
}

// ScanInstructionKind names how a scan restricts one column's values.
type ScanInstructionKind uint8

const (
	InstructionNone ScanInstructionKind = iota
	InstructionEqualTo
	InstructionIn
	InstructionBetween
)

// ScanInstruction restricts one column of a permutation's key order: an
// exact value, a small set of values, a [Low, High) range, or no
// restriction at all (None), from which the scan planner derives both a
// selectivity score and the concrete slice range to walk.
type ScanInstruction struct {
	Kind ScanInstructionKind
	Eq encoding.ObjectID
	In []encoding.ObjectID
	Low encoding.ObjectID
	High encoding.ObjectID
}

// computeScanScore rewards instruction lists that narrow a contiguous
// key-ordered prefix: each EqualTo column is worth more the earlier it
// appears (since it composes with every column after it), while a Between
// or In ends the usable prefix — the index can narrow to that range, but
// cannot additionally binary-search within it on a later column because
// the range is not a single point. A None column ends scoring immediately
// since no column after an unbound one contributes to the key prefix.
func computeScanScore(instructions []ScanInstruction) int {
	score := 0
	for i, instr := range instructions {
 remaining := len(instructions) - i
 switch instr.Kind {
 case InstructionNone:
 return score
 case InstructionEqualTo:
 score += 2 * remaining
 case InstructionIn:
 score += remaining
 return score
 case InstructionBetween:
 if remaining == len(instructions) {
 score += 2
 } else {
 score += 1
 }
 return score
 }
	}
	return score
}

// PatternInstructions derives this permutation's instruction list from a
// quad pattern with optionally-bound columns, in this permutation's key
// order (graph always leads, per the per-named-graph partitioning).
func (idx *MemQuadIndex) PatternInstructions(g, s, p, o *encoding.ObjectID) []ScanInstruction {
	cols := idx.perm.orderColumns(g, s, p, o)
	instructions := make([]ScanInstruction, 4)
	for i, c := range cols {
 if c == nil {
 instructions[i] = ScanInstruction{Kind: InstructionNone}
 } else {
 instructions[i] = ScanInstruction{Kind: InstructionEqualTo, Eq: *c}
 }
	}
	return instructions
}

// orderColumns returns g/s/p/o reordered into this permutation's key
// order, mirroring orderKey but over optional pointers for pattern scans.
func (p Permutation) orderColumns(g, s, pr, o *encoding.ObjectID) [4]*encoding.ObjectID {
	switch p {
	case PermutationGSPO:
 return [4]*encoding.ObjectID{g, s, pr, o}
	case PermutationGPOS:
 return [4]*encoding.ObjectID{g, pr, o, s}
	case PermutationGOSP:
 return [4]*encoding.ObjectID{g, o, s, pr}
	default:
 panic("memstore: unknown permutation")
	}
}

// Scan walks every entry whose key matches the bound prefix of
// instructions (trailing None columns are left for the caller to filter,
// since they carry no ordering information) and calls visit for each one
// live at snapshotVersion.
func (idx *MemQuadIndex) Scan(instructions []ScanInstruction, snapshotVersion uint64, visit func(EncodedQuad) bool) {
	prefixLen := 0
	for _, instr := range instructions {
 if instr.Kind != InstructionEqualTo {
 break
 }
 prefixLen++
	}
	var prefix [4]encoding.ObjectID
	for i := 0; i < prefixLen; i++ {
 prefix[i] = instructions[i].Eq
	}

	lo := sort.Search(len(idx.entries), func(i int) bool {
 return comparePrefix(idx.entries[i].key, prefix, prefixLen) >= 0
	})
	for i := lo; i < len(idx.entries); i++ {
 e := idx.entries[i]
 if !keyHasPrefix(e.key, prefix, prefixLen) {
 break
 }
 if !e.liveAt(snapshotVersion) {
 continue
 }
 if !visit(e.quad) {
 return
 }
	}
}

// comparePrefix compares only the first n columns of key against prefix.
func comparePrefix(key, prefix [4]encoding.ObjectID, n int) int {
	for i := 0; i < n; i++ {
 if key[i] != prefix[i] {
 if key[i] < prefix[i] {
 return -1
 }
 return 1
 }
	}
	return 0
}

func keyHasPrefix(key, prefix [4]encoding.ObjectID, n int) bool {
	for i := 0; i < n; i++ {
 if key[i] != prefix[i] {
 return false
 }
	}
	return true
}
