package encoding

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/quadfusion/engine/model"
)

// SortTypeTag orders term/value categories into SPARQL's extended ORDER BY
// collation (SPARQL 1.1 15.1): unbound first, then blank nodes, IRIs, then
// literals ordered numeric < boolean < dateTime < string < other.
type SortTypeTag uint8

const (
	SortTagUnbound SortTypeTag = iota
	SortTagBlankNode
	SortTagNamedNode
	SortTagNumeric
	SortTagBoolean
	SortTagDateTime
	SortTagString
	SortTagOtherLiteral
)

// SortableSchema is the Arrow struct layout backing a sortable column:
// TypeTag(uint8), PrimitiveTag(uint8, the NumericKind/value sub-kind),
// Numeric(float64, nullable, kept alongside Primary for cheap numeric
// comparisons without decoding bytes), Primary(binary, the big-endian /
// lexicographic sort key), Secondary(binary, nullable tie-break bytes —
// language tag for strings, original lexical form for numerics).
var SortableSchema = arrow.StructOf(
	arrow.Field{Name: "type_tag", Type: arrow.PrimitiveTypes.Uint8},
	arrow.Field{Name: "primitive_tag", Type: arrow.PrimitiveTypes.Uint8},
	arrow.Field{Name: "numeric", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	arrow.Field{Name: "primary", Type: arrow.BinaryTypes.Binary},
	arrow.Field{Name: "secondary", Type: arrow.BinaryTypes.Binary, Nullable: true},
)

// SortKey is the decoded form of one sortable row, used for in-memory
// index key construction (internal/memstore) and ORDER BY comparisons.
type SortKey struct {
	TypeTag      SortTypeTag
	PrimitiveTag uint8
	Numeric      float64
	HasNumeric   bool
	Primary      []byte
	Secondary    []byte
}

// SortableKeyOf computes the sort key for a term, following the encoding
// used by the teacher's query optimizer's sort-column derivation but
// generalized to RDF terms: the primary bytes are constructed so that an
// unsigned lexicographic byte comparison agrees with the value ordering
// within a single TypeTag/PrimitiveTag bucket.
func SortableKeyOf(t model.Term) SortKey {
	switch t.Kind() {
	case model.KindBlankNode:
		return SortKey{TypeTag: SortTagBlankNode, Primary: []byte(t.BlankNodeLabel())}
	case model.KindNamedNode:
		return SortKey{TypeTag: SortTagNamedNode, Primary: []byte(t.IRI())}
	case model.KindLiteral:
		return sortableLiteralKey(t)
	default:
		return SortKey{TypeTag: SortTagUnbound}
	}
}

func sortableLiteralKey(t model.Term) SortKey {
	val, ok := model.ValueOf(t).Value()
	if !ok {
		return SortKey{TypeTag: SortTagOtherLiteral, Primary: []byte(t.LexicalForm())}
	}
	switch val.Kind {
	case model.ValueNumeric:
		return SortKey{
			TypeTag:      SortTagNumeric,
			PrimitiveTag: uint8(val.NumKind),
			Numeric:      val.Numeric,
			HasNumeric:   true,
			Primary:      sortableFloatBytes(val.Numeric),
			Secondary:    []byte(t.LexicalForm()),
		}
	case model.ValueBoolean:
		b := byte(0)
		if val.Bool {
			b = 1
		}
		return SortKey{TypeTag: SortTagBoolean, Primary: []byte{b}}
	case model.ValueDateTime, model.ValueDate, model.ValueTime:
		return SortKey{
			TypeTag:      SortTagDateTime,
			PrimitiveTag: uint8(val.Kind),
			Primary:      sortableInt64Bytes(val.Time.UnixNano()),
		}
	case model.ValueString:
		return SortKey{TypeTag: SortTagString, Primary: []byte(val.Text)}
	case model.ValueLangString:
		return SortKey{TypeTag: SortTagString, Primary: []byte(val.Text), Secondary: []byte(val.Lang)}
	default:
		return SortKey{TypeTag: SortTagOtherLiteral, Primary: []byte(t.LexicalForm() + "\x00" + t.Datatype())}
	}
}

// sortableFloatBytes maps a float64 into an 8-byte big-endian sequence
// whose unsigned lexicographic order matches IEEE-754 total order: for
// non-negative numbers flip the sign bit, for negative numbers flip every
// bit (the standard sortable-float transform).
func sortableFloatBytes(f float64) []byte {
	bits := math.Float64bits(f)
	if bits&(1<<63) != 0 {
		bits = ^bits
	} else {
		bits |= 1 << 63
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, bits)
	return buf
}

func sortableInt64Bytes(n int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(n)^(1<<63))
	return buf
}

// CompareSortKeys implements the SPARQL extended ORDER BY total order:
// TypeTag first, then the primary bytes, then the secondary bytes as a
// tie-break. It never fails: every term has a position in this order,
// unlike model.Compare which can report incomparability for expressions.
func CompareSortKeys(a, b SortKey) int {
	if a.TypeTag != b.TypeTag {
		if a.TypeTag < b.TypeTag {
			return -1
		}
		return 1
	}
	if c := bytes.Compare(a.Primary, b.Primary); c != 0 {
		return c
	}
	return bytes.Compare(a.Secondary, b.Secondary)
}

// SortableBuilder appends SortKey values into an Arrow struct array.
type SortableBuilder struct {
	b *array.StructBuilder
}

func NewSortableBuilder(mem memory.Allocator) *SortableBuilder {
	return &SortableBuilder{b: array.NewStructBuilder(mem, SortableSchema)}
}

func (sb *SortableBuilder) Append(k SortKey) {
	sb.b.Append(true)
	sb.b.FieldBuilder(0).(*array.Uint8Builder).Append(uint8(k.TypeTag))
	sb.b.FieldBuilder(1).(*array.Uint8Builder).Append(k.PrimitiveTag)
	numB := sb.b.FieldBuilder(2).(*array.Float64Builder)
	if k.HasNumeric {
		numB.Append(k.Numeric)
	} else {
		numB.AppendNull()
	}
	sb.b.FieldBuilder(3).(*array.BinaryBuilder).Append(k.Primary)
	secB := sb.b.FieldBuilder(4).(*array.BinaryBuilder)
	if k.Secondary != nil {
		secB.Append(k.Secondary)
	} else {
		secB.AppendNull()
	}
}

func (sb *SortableBuilder) NewArray() *SortableArray {
	return &SortableArray{arr: sb.b.NewStructArray()}
}

func (sb *SortableBuilder) Release() { sb.b.Release() }

// SortableArray is a read-only view over a built sortable column.
type SortableArray struct {
	arr *array.Struct
}

func (a *SortableArray) Len() int { return a.arr.Len() }

func (a *SortableArray) Value(i int) SortKey {
	typeTag := a.arr.Field(0).(*array.Uint8).Value(i)
	primTag := a.arr.Field(1).(*array.Uint8).Value(i)
	numArr := a.arr.Field(2).(*array.Float64)
	primary := a.arr.Field(3).(*array.Binary).Value(i)
	secArr := a.arr.Field(4).(*array.Binary)

	k := SortKey{TypeTag: SortTypeTag(typeTag), PrimitiveTag: primTag, Primary: primary}
	if !numArr.IsNull(i) {
		k.Numeric = numArr.Value(i)
		k.HasNumeric = true
	}
	if !secArr.IsNull(i) {
		k.Secondary = secArr.Value(i)
	}
	return k
}

func (a *SortableArray) Release() { a.arr.Release() }

// EncodeSortable builds a single SortableArray from a slice of terms.
func EncodeSortable(mem memory.Allocator, terms []model.Term) *SortableArray {
	b := NewSortableBuilder(mem)
	defer b.Release()
	for _, t := range terms {
		b.Append(SortableKeyOf(t))
	}
	return b.NewArray()
}
