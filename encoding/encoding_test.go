package encoding

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadfusion/engine/model"
)

func TestPlainTermRoundTrip(t *testing.T) {
	mem := memory.NewGoAllocator()
	terms := []model.Term{
		model.NewNamedNode("http://example.org/s"),
		model.NewBlankNode("b0"),
		model.NewLiteral("hello"),
		model.NewLangLiteral("bonjour", "fr"),
		model.NewTypedLiteral("42", model.XSDInteger),
	}
	arr := EncodePlainTerms(mem, terms)
	defer arr.Release()

	require.Equal(t, len(terms), arr.Len())
	for i, want := range terms {
		got, err := arr.Value(i)
		require.NoError(t, err)
		assert.True(t, want.SameTerm(got), "row %d: want %v got %v", i, want, got)
	}
}

func TestObjectIDRoundTrip(t *testing.T) {
	mem := memory.NewGoAllocator()
	ids := []ObjectID{DefaultGraphID, 1, 2, 1000}
	arr := EncodeObjectIDs(mem, ids)
	defer arr.Release()

	require.Equal(t, len(ids), arr.Len())
	for i, want := range ids {
		assert.Equal(t, want, arr.Value(i))
	}
}

func TestSortableOrdersNumericsAcrossKinds(t *testing.T) {
	mem := memory.NewGoAllocator()
	terms := []model.Term{
		model.NewTypedLiteral("3", model.XSDInteger),
		model.NewTypedLiteral("-1.5", model.XSDDecimal),
		model.NewTypedLiteral("2.5", model.XSDDouble),
	}
	arr := EncodeSortable(mem, terms)
	defer arr.Release()

	k0, k1, k2 := arr.Value(0), arr.Value(1), arr.Value(2)
	assert.True(t, CompareSortKeys(k1, k2) < 0, "-1.5 should sort before 2.5")
	assert.True(t, CompareSortKeys(k2, k0) < 0, "2.5 should sort before 3")
}

func TestSortableTypeTagOrdersBlankBeforeIRIBeforeLiteral(t *testing.T) {
	bnode := SortableKeyOf(model.NewBlankNode("x"))
	iri := SortableKeyOf(model.NewNamedNode("http://example.org/x"))
	lit := SortableKeyOf(model.NewLiteral("x"))

	assert.True(t, CompareSortKeys(bnode, iri) < 0)
	assert.True(t, CompareSortKeys(iri, lit) < 0)
}

func TestTypedValueRoundTrip(t *testing.T) {
	mem := memory.NewGoAllocator()
	term := model.NewTypedLiteral("7", model.XSDInteger)
	val, ok := model.ValueOf(term).Value()
	require.True(t, ok)

	arr := EncodeTypedValues(mem, []model.Value{val})
	defer arr.Release()

	got := arr.Value(0)
	assert.Equal(t, model.ValueNumeric, got.Kind)
	assert.Equal(t, 7.0, got.Numeric)
	assert.Equal(t, model.NumericInteger, got.NumKind)
}
