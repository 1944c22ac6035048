package encoding

import (
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ObjectID is an interned term identifier (internal/objectid). ID 0 is
// reserved as the default-graph sentinel; it is never assigned to a real
// term by the mapping service.
type ObjectID uint64

// DefaultGraphID is the reserved sentinel identifying the default graph
// in the graph-name column of an encoded quad.
const DefaultGraphID ObjectID = 0

// ObjectIDBuilder appends ObjectID values into a dense Arrow Uint64 array.
// Unlike the other three encodings, object-id columns carry no nulls: a
// term that has not yet been interned is an error at the call site, not
// a representable column value.
type ObjectIDBuilder struct {
	b *array.Uint64Builder
}

func NewObjectIDBuilder(mem memory.Allocator) *ObjectIDBuilder {
	return &ObjectIDBuilder{b: array.NewUint64Builder(mem)}
}

func (ob *ObjectIDBuilder) Append(id ObjectID) { ob.b.Append(uint64(id)) }

func (ob *ObjectIDBuilder) NewArray() *ObjectIDArray {
	return &ObjectIDArray{arr: ob.b.NewUint64Array()}
}

func (ob *ObjectIDBuilder) Release() { ob.b.Release() }

// ObjectIDArray is a read-only view over a built object-id column.
type ObjectIDArray struct {
	arr *array.Uint64
}

func (a *ObjectIDArray) Len() int { return a.arr.Len() }

func (a *ObjectIDArray) Value(i int) ObjectID { return ObjectID(a.arr.Value(i)) }

func (a *ObjectIDArray) Release() { a.arr.Release() }

// EncodeObjectIDs builds a single ObjectIDArray from a slice of ids, the
// common case for turning a resolved join key column into a record batch.
func EncodeObjectIDs(mem memory.Allocator, ids []ObjectID) *ObjectIDArray {
	b := NewObjectIDBuilder(mem)
	defer b.Release()
	for _, id := range ids {
		b.Append(id)
	}
	return b.NewArray()
}
