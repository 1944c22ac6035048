// Package memstore implements the in-memory quad storage backend:
// MVCC-style append/delete log plus three sorted index
// permutations (GSPO, GPOS, GOSP) used to answer quad-pattern scans
// without a full table scan.
package memstore

import "github.com/quadfusion/engine/encoding"

// EncodedQuad is a quad after object-id interning: four ObjectIDs in
// Graph-Subject-Predicate-Object order, the engine's canonical in-memory
// representation once a term has passed through internal/objectid.
type EncodedQuad struct {
	Graph encoding.ObjectID
	Subject encoding.ObjectID
	Predicate encoding.ObjectID
	Object encoding.ObjectID
}

// Permutation names one of the three sorted orderings the index
// maintains. Each permutation makes a different set of leading bound
// columns answerable by a contiguous range scan.
type Permutation uint8

const (
	PermutationGSPO Permutation = iota
	PermutationGPOS
	PermutationGOSP
)

func (p Permutation) String() string {
	switch p {
	case PermutationGSPO:
 return "GSPO"
	case PermutationGPOS:
 return "GPOS"
	case PermutationGOSP:
 return "GOSP"
	default:
 return "?"
	}
}

// orderKey projects an EncodedQuad's four columns into the column order
// used by this permutation, the sort key for that index's slice.
func (p Permutation) orderKey(q EncodedQuad) [4]encoding.ObjectID {
	switch p {
	case PermutationGSPO:
 return [4]encoding.ObjectID{q.Graph, q.Subject, q.Predicate, q.Object}
	case PermutationGPOS:
 return [4]encoding.ObjectID{q.Graph, q.Predicate, q.Object, q.Subject}
	case PermutationGOSP:
 return [4]encoding.ObjectID{q.Graph, q.Object, q.Subject, q.Predicate}
	default:
 panic("memstore: unknown permutation")
	}
}

func compareKeys(a, b [4]encoding.ObjectID) int {
	for i := 0; i < 4; i++ {
 if a[i] != b[i] {
 if a[i] < b[i] {
 return -1
 }
 return 1
 }
	}
	return 0
}
