package queryoptimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadfusion/engine/internal/logical"
	"github.com/quadfusion/engine/model"
)

func TestNormalizeQueryRejectsNilAlgebra(t *testing.T) {
	_, err := NormalizeQuery(nil)
	assert.Error(t, err)
}

func TestNormalizeQueryBuildsJoinedBGP(t *testing.T) {
	knows := model.NewNamedNode("http://example.org/knows")
	likes := model.NewNamedNode("http://example.org/likes")

	alg := BGP{Triples: []TriplePattern{
		{Subject: logical.Variable("s"), Predicate: logical.Const(knows), Object: logical.Variable("o")},
		{Subject: logical.Variable("o"), Predicate: logical.Const(likes), Object: logical.Variable("t")},
	}}

	plan, err := NormalizeQuery(alg)
	require.NoError(t, err)

	join, ok := plan.(logical.SparqlJoinNode)
	require.True(t, ok, "expected a join of the two triples, got %T", plan)
	assert.Equal(t, logical.JoinInner, join.Type)

	left, ok := join.Left.(logical.QuadPatternNode)
	require.True(t, ok)
	assert.Equal(t, "s", left.Subject.Var)

	right, ok := join.Right.(logical.QuadPatternNode)
	require.True(t, ok)
	assert.Equal(t, "t", right.Object.Var)
}

func TestNormalizeQueryGraphSetsActiveGraphOnChildren(t *testing.T) {
	p := model.NewNamedNode("http://example.org/p")
	inner := BGP{Triples: []TriplePattern{
		{Subject: logical.Variable("s"), Predicate: logical.Const(p), Object: logical.Variable("o")},
	}}
	allGraphs := model.ActiveGraph{Kind: model.ActiveGraphAll}
	alg := Graph{Input: inner, Graph: allGraphs, GraphVar: "g"}

	plan, err := NormalizeQuery(alg)
	require.NoError(t, err)

	q, ok := plan.(logical.QuadPatternNode)
	require.True(t, ok)
	assert.Equal(t, "g", q.GraphVariable)
	assert.Equal(t, allGraphs, q.ActiveGraph)
}

func TestNormalizeQueryOptionalCarriesFilter(t *testing.T) {
	p := model.NewNamedNode("http://example.org/p")
	q := model.NewNamedNode("http://example.org/q")
	left := BGP{Triples: []TriplePattern{{Subject: logical.Variable("a"), Predicate: logical.Const(p), Object: logical.Variable("a2")}}}
	right := BGP{Triples: []TriplePattern{{Subject: logical.Variable("a"), Predicate: logical.Const(q), Object: logical.Variable("b")}}}
	alg := LeftJoin{Left: left, Right: right, Filter: boundCall("b")}

	plan, err := NormalizeQuery(alg)
	require.NoError(t, err)

	join, ok := plan.(logical.SparqlJoinNode)
	require.True(t, ok)
	assert.Equal(t, logical.JoinLeftOuter, join.Type)
	assert.NotNil(t, join.Filter)
}

func TestNormalizeQueryExtendRejectsEmptyVar(t *testing.T) {
	p := model.NewNamedNode("http://example.org/p")
	inner := BGP{Triples: []TriplePattern{{Subject: logical.Variable("s"), Predicate: logical.Const(p), Object: logical.Variable("o")}}}
	_, err := NormalizeQuery(Extend{Input: inner, Var: "", Expr: logical.VarExpr{Name: "o"}})
	assert.Error(t, err)
}
