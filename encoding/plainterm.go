// Package encoding implements the columnar term encodings used across
// the engine as Apache Arrow arrays: plain-term (human-readable, for
// serialization), typed-value (decoded value model, for expression
// evaluation), object-id (interned integers, for joins/storage), and
// sortable (binary-comparable, for ORDER BY and index key construction).
package encoding

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/quadfusion/engine/model"
)

// plainTermKind mirrors model.TermKind as a single byte column so the
// struct array needs no separate null/kind bitmap bookkeeping.
const (
	ptKindNamedNode    uint8 = 0
	ptKindBlankNode    uint8 = 1
	ptKindLiteral      uint8 = 2
	ptKindDefaultGraph uint8 = 3
)

// PlainTermSchema is the Arrow struct layout backing a plain-term column:
// Kind(uint8), Value(utf8, the IRI/label/lexical form), Datatype(utf8,
// literals only), Language(utf8, langString literals only).
var PlainTermSchema = arrow.StructOf(
	arrow.Field{Name: "kind", Type: arrow.PrimitiveTypes.Uint8},
	arrow.Field{Name: "value", Type: arrow.BinaryTypes.String},
	arrow.Field{Name: "datatype", Type: arrow.BinaryTypes.String, Nullable: true},
	arrow.Field{Name: "language", Type: arrow.BinaryTypes.String, Nullable: true},
)

// PlainTermBuilder appends model.Term values into an Arrow struct array.
type PlainTermBuilder struct {
	b *array.StructBuilder
}

func NewPlainTermBuilder(mem memory.Allocator) *PlainTermBuilder {
	return &PlainTermBuilder{b: array.NewStructBuilder(mem, PlainTermSchema)}
}

func (pb *PlainTermBuilder) Append(t model.Term) {
	pb.b.Append(true)
	kindBuilder := pb.b.FieldBuilder(0).(*array.Uint8Builder)
	valueBuilder := pb.b.FieldBuilder(1).(*array.StringBuilder)
	datatypeBuilder := pb.b.FieldBuilder(2).(*array.StringBuilder)
	langBuilder := pb.b.FieldBuilder(3).(*array.StringBuilder)

	switch t.Kind() {
	case model.KindNamedNode:
		kindBuilder.Append(ptKindNamedNode)
		valueBuilder.Append(t.IRI())
		datatypeBuilder.AppendNull()
		langBuilder.AppendNull()
	case model.KindBlankNode:
		kindBuilder.Append(ptKindBlankNode)
		valueBuilder.Append(t.BlankNodeLabel())
		datatypeBuilder.AppendNull()
		langBuilder.AppendNull()
	case model.KindLiteral:
		kindBuilder.Append(ptKindLiteral)
		valueBuilder.Append(t.LexicalForm())
		datatypeBuilder.Append(t.Datatype())
		if t.HasLanguage() {
			langBuilder.Append(t.Language())
		} else {
			langBuilder.AppendNull()
		}
	case model.KindDefaultGraph:
		kindBuilder.Append(ptKindDefaultGraph)
		valueBuilder.AppendNull()
		datatypeBuilder.AppendNull()
		langBuilder.AppendNull()
	}
}

func (pb *PlainTermBuilder) AppendNull() {
	pb.b.AppendNull()
}

func (pb *PlainTermBuilder) NewArray() *PlainTermArray {
	return &PlainTermArray{arr: pb.b.NewStructArray()}
}

func (pb *PlainTermBuilder) Release() { pb.b.Release() }

// PlainTermArray is a read-only view over a built plain-term column.
type PlainTermArray struct {
	arr *array.Struct
}

func (a *PlainTermArray) Len() int { return a.arr.Len() }

func (a *PlainTermArray) IsNull(i int) bool { return a.arr.IsNull(i) }

// Value decodes row i back into a model.Term.
func (a *PlainTermArray) Value(i int) (model.Term, error) {
	if a.arr.IsNull(i) {
		return model.Term{}, fmt.Errorf("encoding: plain-term row %d is null", i)
	}
	kind := a.arr.Field(0).(*array.Uint8).Value(i)
	value := a.arr.Field(1).(*array.String)
	datatype := a.arr.Field(2).(*array.String)
	language := a.arr.Field(3).(*array.String)

	switch kind {
	case ptKindNamedNode:
		return model.NewNamedNode(value.Value(i)), nil
	case ptKindBlankNode:
		return model.NewBlankNode(value.Value(i)), nil
	case ptKindLiteral:
		if !language.IsNull(i) && language.Value(i) != "" {
			return model.NewLangLiteral(value.Value(i), language.Value(i)), nil
		}
		return model.NewTypedLiteral(value.Value(i), datatype.Value(i)), nil
	case ptKindDefaultGraph:
		return model.DefaultGraph, nil
	default:
		return model.Term{}, fmt.Errorf("encoding: unrecognized plain-term kind byte %d", kind)
	}
}

func (a *PlainTermArray) Release() { a.arr.Release() }

// EncodePlainTerms builds a single PlainTermArray from a slice of terms,
// the common case for turning a physical-plan column into wire output.
func EncodePlainTerms(mem memory.Allocator, terms []model.Term) *PlainTermArray {
	b := NewPlainTermBuilder(mem)
	defer b.Release()
	for _, t := range terms {
		b.Append(t)
	}
	return b.NewArray()
}
