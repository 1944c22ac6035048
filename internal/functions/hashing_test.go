package functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadfusion/engine/model"
)

func TestMD5HashesKnownInput(t *testing.T) {
	fn, ok := Lookup("MD5")
	require.True(t, ok)

	r := fn.Call([]model.Value{{Kind: model.ValueString, Text: "abc"}})
	require.True(t, r.IsOK())
	v, _ := r.Value()
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", v.Text)
}

func TestSHA256HashesKnownInput(t *testing.T) {
	fn, ok := Lookup("SHA256")
	require.True(t, ok)

	r := fn.Call([]model.Value{{Kind: model.ValueString, Text: "abc"}})
	require.True(t, r.IsOK())
	v, _ := r.Value()
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", v.Text)
}

func TestHashFunctionRejectsNonStringArgument(t *testing.T) {
	fn, ok := Lookup("SHA1")
	require.True(t, ok)

	r := fn.Call([]model.Value{{Kind: model.ValueNumeric, Numeric: 1, NumKind: model.NumericInteger}})
	assert.True(t, r.IsExpected())
}
