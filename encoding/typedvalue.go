package encoding

import (
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/quadfusion/engine/model"
)

func timeFromUnixNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

// TypedValueSchema is the Arrow struct layout backing a typed-value
// column: the decoded model.Value, flattened so internal/functions and
// internal/vectorexec can operate on individual numeric/string/time
// columns directly rather than re-decoding a term on every row.
var TypedValueSchema = arrow.StructOf(
	arrow.Field{Name: "kind", Type: arrow.PrimitiveTypes.Uint8},
	arrow.Field{Name: "bool", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
	arrow.Field{Name: "numeric", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	arrow.Field{Name: "num_kind", Type: arrow.PrimitiveTypes.Uint8, Nullable: true},
	arrow.Field{Name: "text", Type: arrow.BinaryTypes.String, Nullable: true},
	arrow.Field{Name: "lang", Type: arrow.BinaryTypes.String, Nullable: true},
	arrow.Field{Name: "time_unix_nanos", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	arrow.Field{Name: "dur_months", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	arrow.Field{Name: "dur_seconds", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	arrow.Field{Name: "iri", Type: arrow.BinaryTypes.String, Nullable: true},
	arrow.Field{Name: "lexical", Type: arrow.BinaryTypes.String, Nullable: true},
)

// TypedValueBuilder appends decoded model.Value rows into an Arrow struct
// array. A row can also be appended as "expression error" (AppendNull),
// which the vectorized runtime treats as SQL-style NULL propagation for
// the purposes of column storage, recovering the ThinError kind from the
// parallel error-kind column maintained by the caller (internal/vectorexec
// keeps error rows out-of-band rather than inside this encoding, since a
// typed-value column also backs literal storage, which never errors).
type TypedValueBuilder struct {
	b *array.StructBuilder
}

func NewTypedValueBuilder(mem memory.Allocator) *TypedValueBuilder {
	return &TypedValueBuilder{b: array.NewStructBuilder(mem, TypedValueSchema)}
}

func (tb *TypedValueBuilder) AppendNull() { tb.b.AppendNull() }

func (tb *TypedValueBuilder) Append(v model.Value) {
	tb.b.Append(true)
	tb.b.FieldBuilder(0).(*array.Uint8Builder).Append(uint8(v.Kind))

	boolB := tb.b.FieldBuilder(1).(*array.BooleanBuilder)
	numB := tb.b.FieldBuilder(2).(*array.Float64Builder)
	numKindB := tb.b.FieldBuilder(3).(*array.Uint8Builder)
	textB := tb.b.FieldBuilder(4).(*array.StringBuilder)
	langB := tb.b.FieldBuilder(5).(*array.StringBuilder)
	timeB := tb.b.FieldBuilder(6).(*array.Int64Builder)
	durMonthsB := tb.b.FieldBuilder(7).(*array.Int64Builder)
	durSecondsB := tb.b.FieldBuilder(8).(*array.Float64Builder)
	iriB := tb.b.FieldBuilder(9).(*array.StringBuilder)
	lexB := tb.b.FieldBuilder(10).(*array.StringBuilder)

	appendBoolOrNull(boolB, v.Kind == model.ValueBoolean, v.Bool)
	appendFloatOrNull(numB, v.Kind == model.ValueNumeric, v.Numeric)
	appendU8OrNull(numKindB, v.Kind == model.ValueNumeric, uint8(v.NumKind))
	appendStringOrNull(textB, v.Kind == model.ValueString || v.Kind == model.ValueLangString, v.Text)
	appendStringOrNull(langB, v.Kind == model.ValueLangString, v.Lang)

	isTime := v.Kind == model.ValueDateTime || v.Kind == model.ValueDate || v.Kind == model.ValueTime
	appendInt64OrNull(timeB, isTime, v.Time.UnixNano())
	appendInt64OrNull(durMonthsB, v.Kind == model.ValueDuration, v.Dur.Months)
	appendFloatOrNull(durSecondsB, v.Kind == model.ValueDuration, v.Dur.Seconds)
	appendStringOrNull(iriB, v.Kind == model.ValueNamedNode, v.IRI)
	appendStringOrNull(lexB, v.Kind == model.ValueOtherLiteral || v.Kind == model.ValueBlankNode, v.Lexical)
}

func appendBoolOrNull(b *array.BooleanBuilder, ok bool, v bool) {
	if ok {
		b.Append(v)
	} else {
		b.AppendNull()
	}
}

func appendFloatOrNull(b *array.Float64Builder, ok bool, v float64) {
	if ok {
		b.Append(v)
	} else {
		b.AppendNull()
	}
}

func appendInt64OrNull(b *array.Int64Builder, ok bool, v int64) {
	if ok {
		b.Append(v)
	} else {
		b.AppendNull()
	}
}

func appendU8OrNull(b *array.Uint8Builder, ok bool, v uint8) {
	if ok {
		b.Append(v)
	} else {
		b.AppendNull()
	}
}

func appendStringOrNull(b *array.StringBuilder, ok bool, v string) {
	if ok {
		b.Append(v)
	} else {
		b.AppendNull()
	}
}

func (tb *TypedValueBuilder) NewArray() *TypedValueArray {
	return &TypedValueArray{arr: tb.b.NewStructArray()}
}

func (tb *TypedValueBuilder) Release() { tb.b.Release() }

// TypedValueArray is a read-only view over a built typed-value column.
type TypedValueArray struct {
	arr *array.Struct
}

func (a *TypedValueArray) Len() int { return a.arr.Len() }

func (a *TypedValueArray) IsNull(i int) bool { return a.arr.IsNull(i) }

func (a *TypedValueArray) Value(i int) model.Value {
	kind := model.ValueKind(a.arr.Field(0).(*array.Uint8).Value(i))
	v := model.Value{Kind: kind}

	if b := a.arr.Field(1).(*array.Boolean); !b.IsNull(i) {
		v.Bool = b.Value(i)
	}
	if n := a.arr.Field(2).(*array.Float64); !n.IsNull(i) {
		v.Numeric = n.Value(i)
	}
	if nk := a.arr.Field(3).(*array.Uint8); !nk.IsNull(i) {
		v.NumKind = model.NumericKind(nk.Value(i))
	}
	if txt := a.arr.Field(4).(*array.String); !txt.IsNull(i) {
		v.Text = txt.Value(i)
	}
	if lang := a.arr.Field(5).(*array.String); !lang.IsNull(i) {
		v.Lang = lang.Value(i)
	}
	if tm := a.arr.Field(6).(*array.Int64); !tm.IsNull(i) {
		v.Time = timeFromUnixNanos(tm.Value(i))
	}
	if durS := a.arr.Field(8).(*array.Float64); !durS.IsNull(i) {
		v.Dur.Seconds = durS.Value(i)
	}
	if durM := a.arr.Field(7).(*array.Int64); !durM.IsNull(i) {
		v.Dur.Months = durM.Value(i)
	}
	if iri := a.arr.Field(9).(*array.String); !iri.IsNull(i) {
		v.IRI = iri.Value(i)
	}
	if lex := a.arr.Field(10).(*array.String); !lex.IsNull(i) {
		v.Lexical = lex.Value(i)
	}
	return v
}

func (a *TypedValueArray) Release() { a.arr.Release() }

// EncodeTypedValues builds a single TypedValueArray from decoded values.
func EncodeTypedValues(mem memory.Allocator, values []model.Value) *TypedValueArray {
	b := NewTypedValueBuilder(mem)
	defer b.Release()
	for _, v := range values {
		b.Append(v)
	}
	return b.NewArray()
}
