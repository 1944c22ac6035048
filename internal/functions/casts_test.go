package functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadfusion/engine/model"
)

func TestStrCastReturnsLexicalForm(t *testing.T) {
	fn, ok := Lookup("STR")
	require.True(t, ok)

	r := fn.Call([]model.Value{{Kind: model.ValueNamedNode, IRI: "http://example.org/s"}})
	require.True(t, r.IsOK())
	v, _ := r.Value()
	assert.Equal(t, "http://example.org/s", v.Text)
}

func TestLangReturnsEmptyForPlainString(t *testing.T) {
	fn, ok := Lookup("LANG")
	require.True(t, ok)

	r := fn.Call([]model.Value{{Kind: model.ValueString, Text: "hi"}})
	require.True(t, r.IsOK())
	v, _ := r.Value()
	assert.Equal(t, "", v.Text)
}

func TestDatatypeIsUndefinedForIRIs(t *testing.T) {
	fn, ok := Lookup("DATATYPE")
	require.True(t, ok)

	r := fn.Call([]model.Value{{Kind: model.ValueNamedNode, IRI: "http://example.org/s"}})
	assert.True(t, r.IsExpected())
}

func TestNumericCastParsesStrings(t *testing.T) {
	fn, ok := Lookup("xsd:integer")
	require.True(t, ok)

	r := fn.Call([]model.Value{{Kind: model.ValueString, Text: "42"}})
	require.True(t, r.IsOK())
	v, _ := r.Value()
	assert.Equal(t, float64(42), v.Numeric)
	assert.Equal(t, model.NumericInteger, v.NumKind)
}

func TestBooleanCastRejectsUncastableKind(t *testing.T) {
	fn, ok := Lookup("xsd:boolean")
	require.True(t, ok)

	r := fn.Call([]model.Value{{Kind: model.ValueDuration}})
	assert.True(t, r.IsExpected())
}
