package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameTermVsValueEquality(t *testing.T) {
	a := NewTypedLiteral("1", XSDInteger)
	b := NewTypedLiteral("01", XSDInteger)
	assert.False(t, a.SameTerm(b), "different lexical forms must not be SameTerm")

	va := mustValue(t, a)
	vb := mustValue(t, b)
	eq := ValueEquals(va, vb)
	require.True(t, eq.IsOK())
	v, _ := eq.Value()
	assert.True(t, v, "01 and 1 must be value-equal as xsd:integer")
}

func TestNumericPromotion(t *testing.T) {
	i := mustValue(t, NewTypedLiteral("2", XSDInteger))
	d := mustValue(t, NewTypedLiteral("2.5", XSDDecimal))

	sum := Arithmetic(OpAdd, i, d)
	require.True(t, sum.IsOK())
	v, _ := sum.Value()
	assert.Equal(t, NumericDecimal, v.NumKind)
	assert.Equal(t, 4.5, v.Numeric)
}

func TestDivisionByZero(t *testing.T) {
	i1 := mustValue(t, NewTypedLiteral("1", XSDInteger))
	i0 := mustValue(t, NewTypedLiteral("0", XSDInteger))
	r := Arithmetic(OpDiv, i1, i0)
	assert.True(t, r.IsExpected(), "integer division by zero must be an expected error, not internal")

	f1 := mustValue(t, NewTypedLiteral("1", XSDDouble))
	f0 := mustValue(t, NewTypedLiteral("0", XSDDouble))
	r2 := Arithmetic(OpDiv, f1, f0)
	require.True(t, r2.IsOK())
	v, _ := r2.Value()
	assert.True(t, v.Numeric > 0 && v.Numeric == v.Numeric+1, "double division by zero yields +Inf")
}

func TestLangStringComparison(t *testing.T) {
	en := mustValue(t, NewLangLiteral("hello", "en"))
	fr := mustValue(t, NewLangLiteral("hello", "fr"))
	_, ok := Compare(en, fr).Value()
	assert.False(t, ok, "differently-tagged language strings are not comparable")

	en2 := mustValue(t, NewLangLiteral("hello", "EN"))
	ord, ok := Compare(en, en2).Value()
	require.True(t, ok)
	assert.Equal(t, Equal, ord, "language tags compare case-insensitively")
}

func TestEffectiveBooleanValue(t *testing.T) {
	empty := mustValue(t, NewLiteral(""))
	ebv := EffectiveBooleanValue(empty)
	require.True(t, ebv.IsOK())
	v, _ := ebv.Value()
	assert.False(t, v)

	dt := mustValue(t, NewTypedLiteral("2024-01-01T00:00:00Z", XSDDateTime))
	assert.True(t, EffectiveBooleanValue(dt).IsExpected())
}

func mustValue(t *testing.T, term Term) Value {
	t.Helper()
	r := ValueOf(term)
	v, ok := r.Value()
	if !ok {
		t.Fatalf("ValueOf(%v) failed: %v", term, r.Err())
	}
	return v
}
