package queryoptimizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadfusion/engine/internal/logical"
	"github.com/quadfusion/engine/model"
)

func TestGeneratePlanRejectsNilRoot(t *testing.T) {
	_, err := New().GeneratePlan(context.Background(), nil)
	assert.Error(t, err)
}

func TestGeneratePlanLowersRepeatedVariablePattern(t *testing.T) {
	knows := model.NewNamedNode("http://example.org/knows")
	// ?s :knows ?s matches only reflexive edges: subject and object share a
	// variable, so PatternLowering must introduce a sameTerm filter.
	root := logical.QuadPatternNode{
		Subject:   logical.Variable("s"),
		Predicate: logical.Const(knows),
		Object:    logical.Variable("s"),
	}

	plan, err := New().GeneratePlan(context.Background(), root)
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Len(t, plan.Explain.RulesApplied, len(rules))

	proj, ok := plan.Root.(logical.ProjectNode)
	require.True(t, ok, "final plan should be a projection, got %T", plan.Root)
	assert.Equal(t, []string{"s"}, proj.Columns)
}

func TestGeneratePlanReordersSelectiveJoinFirst(t *testing.T) {
	knows := model.NewNamedNode("http://example.org/knows")
	alice := model.NewNamedNode("http://example.org/alice")

	unbound := logical.QuadPatternNode{Subject: logical.Variable("a"), Predicate: logical.Variable("p"), Object: logical.Variable("o")}
	selective := logical.QuadPatternNode{Subject: logical.Const(alice), Predicate: logical.Const(knows), Object: logical.Variable("o")}

	root := logical.SparqlJoinNode{Left: unbound, Right: selective, Type: logical.JoinInner}
	reordered := reorderSparqlJoins(root).(logical.SparqlJoinNode)

	left, ok := reordered.Left.(logical.QuadPatternNode)
	require.True(t, ok)
	assert.Equal(t, logical.PatternConst, left.Subject.Kind, "more selective pattern should be reordered first")
}

func TestMinusLoweringNoSharedVarsRemovesNothing(t *testing.T) {
	p := model.NewNamedNode("http://example.org/p")
	q := model.NewNamedNode("http://example.org/q")
	left := logical.QuadPatternNode{Subject: logical.Variable("a"), Predicate: logical.Const(p), Object: logical.Variable("b")}
	right := logical.QuadPatternNode{Subject: logical.Variable("x"), Predicate: logical.Const(q), Object: logical.Variable("y")}

	out := minusToLeftJoinFilter(left, right)
	assert.Equal(t, left, out)
}

func TestMinusLoweringWithSharedVarsBuildsLeftJoinFilter(t *testing.T) {
	p := model.NewNamedNode("http://example.org/p")
	q := model.NewNamedNode("http://example.org/q")
	left := logical.QuadPatternNode{Subject: logical.Variable("a"), Predicate: logical.Const(p), Object: logical.Variable("b")}
	right := logical.QuadPatternNode{Subject: logical.Variable("a"), Predicate: logical.Const(q), Object: logical.Variable("c")}

	out := minusToLeftJoinFilter(left, right)
	filter, ok := out.(logical.FilterNode)
	require.True(t, ok)
	_, ok = filter.Input.(logical.LeftJoinNode)
	assert.True(t, ok)
}

func TestSimplifyExpressionsFoldsImmutableCall(t *testing.T) {
	five := logical.TermExpr{Term: model.NewTypedLiteral("5", model.XSDInteger)}
	e := logical.CallExpr{Func: "xsd:decimal", Args: []logical.Expr{five}}
	folded := foldExpr(e)
	term, ok := folded.(logical.TermExpr)
	require.True(t, ok, "expected constant folding, got %T", folded)
	assert.Equal(t, model.XSDDecimal, term.Term.Datatype())
}

func TestSimplifyExpressionsElidesTriviallyTrueFilter(t *testing.T) {
	input := logical.QuadPatternNode{Subject: logical.Variable("s"), Predicate: logical.Variable("p"), Object: logical.Variable("o")}
	trueExpr := logical.TermExpr{Term: model.NewTypedLiteral("true", model.XSDBoolean)}
	filtered := logical.FilterNode{Input: input, Expr: trueExpr}

	out := simplifyExpressions(filtered)
	assert.Equal(t, input, out)
}

func TestPropertyPathAtomLowersToQuadPattern(t *testing.T) {
	knows := model.NewNamedNode("http://example.org/knows")
	path := logical.PropertyPathNode{
		Subject: logical.Variable("s"),
		Path:    logical.Atom(knows),
		Object:  logical.Variable("o"),
	}
	out := lowerPropertyPaths(path)
	q, ok := out.(logical.QuadPatternNode)
	require.True(t, ok)
	assert.Equal(t, logical.PatternConst, q.Predicate.Kind)
}

func TestPropertyPathInverseSwapsEndpoints(t *testing.T) {
	knows := model.NewNamedNode("http://example.org/knows")
	path := logical.PropertyPathNode{
		Subject: logical.Variable("s"),
		Path:    logical.Inverse(logical.Atom(knows)),
		Object:  logical.Variable("o"),
	}
	out := lowerPropertyPaths(path)
	q, ok := out.(logical.QuadPatternNode)
	require.True(t, ok)
	assert.Equal(t, "o", q.Subject.Var)
	assert.Equal(t, "s", q.Object.Var)
}

func TestPropertyPathOneOrMoreBuildsRecursiveNode(t *testing.T) {
	knows := model.NewNamedNode("http://example.org/knows")
	path := logical.PropertyPathNode{
		Subject: logical.Variable("s"),
		Path:    logical.OneOrMore(logical.Atom(knows)),
		Object:  logical.Variable("o"),
	}
	out := lowerPropertyPaths(path)
	distinct, ok := out.(logical.DistinctNode)
	require.True(t, ok)
	_, ok = distinct.Input.(logical.RecursiveNode)
	assert.True(t, ok)
}
