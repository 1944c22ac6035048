package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadfusion/engine/model"
)

func TestQuerySolutionWithDoesNotMutateReceiver(t *testing.T) {
	s := NewQuerySolution()
	name := model.NewNamedNode("http://example.org/alice")
	s2 := s.With("x", name)

	_, ok := s.Get("x")
	assert.False(t, ok)

	got, ok := s2.Get("x")
	require.True(t, ok)
	assert.True(t, got.SameTerm(name))
}

func TestTripleString(t *testing.T) {
	tr := Triple{
		Subject:   model.NewNamedNode("http://example.org/s"),
		Predicate: model.NewNamedNode("http://example.org/p"),
		Object:    model.NewTypedLiteral("42", model.XSDInteger),
	}
	assert.Contains(t, tr.String(), "http://example.org/s")
}

func TestNewBlankNodeLabelIsUniqueAndNonEmpty(t *testing.T) {
	a := NewBlankNodeLabel()
	b := NewBlankNodeLabel()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
