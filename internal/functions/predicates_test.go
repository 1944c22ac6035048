package functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadfusion/engine/model"
)

func TestIsIRIAcceptsOnlyNamedNodes(t *testing.T) {
	fn, ok := Lookup("ISIRI")
	require.True(t, ok)

	r := fn.Call([]model.Value{{Kind: model.ValueNamedNode, IRI: "http://example.org/s"}})
	require.True(t, r.IsOK())
	v, _ := r.Value()
	assert.True(t, v.Bool)

	r = fn.Call([]model.Value{{Kind: model.ValueString, Text: "not an iri"}})
	require.True(t, r.IsOK())
	v, _ = r.Value()
	assert.False(t, v.Bool)
}

func TestIsNumericAcceptsOnlyNumericValues(t *testing.T) {
	fn, ok := Lookup("ISNUMERIC")
	require.True(t, ok)

	r := fn.Call([]model.Value{{Kind: model.ValueNumeric, Numeric: 1, NumKind: model.NumericInteger}})
	require.True(t, r.IsOK())
	v, _ := r.Value()
	assert.True(t, v.Bool)
}

func TestIsLiteralRejectsNamedNodesAndBlankNodes(t *testing.T) {
	fn, ok := Lookup("ISLITERAL")
	require.True(t, ok)

	r := fn.Call([]model.Value{{Kind: model.ValueNamedNode, IRI: "http://example.org/s"}})
	require.True(t, r.IsOK())
	v, _ := r.Value()
	assert.False(t, v.Bool)

	r = fn.Call([]model.Value{{Kind: model.ValueString, Text: "x"}})
	require.True(t, r.IsOK())
	v, _ = r.Value()
	assert.True(t, v.Bool)
}
