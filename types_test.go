package quadfusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadfusion/engine/model"
)

func TestQuerySolutionGetReportsUnbound(t *testing.T) {
	s := NewQuerySolution()
	_, ok := s.Get("x")
	assert.False(t, ok)
}

func TestQuerySolutionWithDoesNotMutateReceiver(t *testing.T) {
	s := NewQuerySolution()
	name := model.NewNamedNode("http://example.org/alice")

	s2 := s.With("x", name)

	_, ok := s.Get("x")
	assert.False(t, ok, "original solution must remain unbound")

	got, ok := s2.Get("x")
	require.True(t, ok)
	assert.True(t, got.SameTerm(name))
}

func TestQuerySolutionWithOverwritesExistingBinding(t *testing.T) {
	s := NewQuerySolution().With("x", model.NewNamedNode("http://example.org/alice"))
	s = s.With("x", model.NewNamedNode("http://example.org/bob"))

	got, ok := s.Get("x")
	require.True(t, ok)
	assert.Equal(t, "http://example.org/bob", got.IRI())
}

func TestTripleString(t *testing.T) {
	tr := Triple{
		Subject:   model.NewNamedNode("http://example.org/s"),
		Predicate: model.NewNamedNode("http://example.org/p"),
		Object:    model.NewTypedLiteral("42", model.XSDInteger),
	}
	assert.Contains(t, tr.String(), "http://example.org/s")
	assert.Contains(t, tr.String(), "http://example.org/p")
	assert.Contains(t, tr.String(), "42")
}

func TestQueryResultFormDiscriminatesPayload(t *testing.T) {
	boolResult := QueryResult{Form: ResultFormBoolean, Boolean: true}
	assert.Equal(t, ResultFormBoolean, boolResult.Form)
	assert.True(t, boolResult.Boolean)
	assert.Empty(t, boolResult.Solutions)

	bindingsResult := QueryResult{
		Form:      ResultFormBindings,
		Variables: []string{"x"},
		Solutions: []QuerySolution{NewQuerySolution().With("x", model.NewNamedNode("http://example.org/a"))},
	}
	assert.Equal(t, ResultFormBindings, bindingsResult.Form)
	require.Len(t, bindingsResult.Solutions, 1)
}

func TestNewBlankNodeLabelIsUniqueAndNonEmpty(t *testing.T) {
	a := NewBlankNodeLabel()
	b := NewBlankNodeLabel()
	assert.NotEmpty(t, a)
	assert.NotEmpty(t, b)
	assert.NotEqual(t, a, b)
}

func TestSolutionModifierZeroLimitMeansUnlimited(t *testing.T) {
	m := SolutionModifier{}
	assert.Equal(t, 0, m.Limit)
	assert.Equal(t, 0, m.Offset)
	assert.False(t, m.Distinct)
}
