package quadfusion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quadfusion/engine/model"
)

func TestDefaultActiveGraphIncludesOnlyDefaultGraph(t *testing.T) {
	g := DefaultActiveGraph()
	assert.True(t, g.Includes(model.DefaultGraph))
	assert.False(t, g.Includes(model.NewNamedNode("http://example.org/g1")))
}

func TestNamedActiveGraphIncludesOnlyListedGraphs(t *testing.T) {
	g1 := model.NewNamedNode("http://example.org/g1")
	g2 := model.NewNamedNode("http://example.org/g2")
	other := model.NewNamedNode("http://example.org/other")

	g := NamedActiveGraph(g1, g2)
	assert.True(t, g.Includes(g1))
	assert.True(t, g.Includes(g2))
	assert.False(t, g.Includes(other))
	assert.False(t, g.Includes(model.DefaultGraph))
}

func TestUnionActiveGraphExcludesDefaultGraph(t *testing.T) {
	g := ActiveGraph{Kind: ActiveGraphUnion}
	assert.False(t, g.Includes(model.DefaultGraph))
	assert.True(t, g.Includes(model.NewNamedNode("http://example.org/g1")))
}

func TestGraphNamePatternSingleNamedGraph(t *testing.T) {
	g1 := model.NewNamedNode("http://example.org/g1")
	g := NamedActiveGraph(g1)
	pat := g.GraphNamePattern()
	if assert.NotNil(t, pat) {
		assert.True(t, pat.SameTerm(g1))
	}
}

func TestGraphNamePatternMultiNamedGraphIsUnconstrained(t *testing.T) {
	g := NamedActiveGraph(model.NewNamedNode("http://example.org/g1"), model.NewNamedNode("http://example.org/g2"))
	assert.Nil(t, g.GraphNamePattern())
}
