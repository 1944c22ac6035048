package functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIsCaseInsensitive(t *testing.T) {
	fn, ok := Lookup("strlen")
	assert.True(t, ok)
	assert.Equal(t, "STRLEN", fn.Name)

	_, ok = Lookup("STRLEN")
	assert.True(t, ok)
}

func TestLookupUnknownFunctionFails(t *testing.T) {
	_, ok := Lookup("NOT_A_REAL_FUNCTION")
	assert.False(t, ok)
}
