package functions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadfusion/engine/model"
)

func TestYearExtractsFromDateTime(t *testing.T) {
	fn, ok := Lookup("YEAR")
	require.True(t, ok)

	r := fn.Call([]model.Value{{Kind: model.ValueDateTime, Time: time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)}})
	require.True(t, r.IsOK())
	v, _ := r.Value()
	assert.Equal(t, float64(2026), v.Numeric)
}

func TestDateTimeAccessorRejectsNonTemporalArgument(t *testing.T) {
	fn, ok := Lookup("MONTH")
	require.True(t, ok)

	r := fn.Call([]model.Value{{Kind: model.ValueString, Text: "not a date"}})
	assert.True(t, r.IsExpected())
}

func TestTZReturnsZForUTC(t *testing.T) {
	fn, ok := Lookup("TZ")
	require.True(t, ok)

	r := fn.Call([]model.Value{{Kind: model.ValueDateTime, Time: time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)}})
	require.True(t, r.IsOK())
	v, _ := r.Value()
	assert.Equal(t, "Z", v.Text)
}
