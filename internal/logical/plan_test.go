package logical

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quadfusion/engine/model"
)

func TestQuadPatternNodeImplementsPlanNode(t *testing.T) {
	var n PlanNode = QuadPatternNode{
		ActiveGraph: model.DefaultActiveGraph(),
		Subject:     Variable("s"),
		Predicate:   Const(model.NewNamedNode("http://example.org/knows")),
		Object:      Variable("o"),
	}
	assert.NotNil(t, n)
}

func TestPropertyPathHelpersBuildExpectedShapes(t *testing.T) {
	knows := model.NewNamedNode("http://example.org/knows")
	likes := model.NewNamedNode("http://example.org/likes")

	seq := Sequence(Atom(knows), Atom(likes))
	assert.Equal(t, PathSequence, seq.Kind)
	assert.Len(t, seq.Sub, 2)

	star := ZeroOrMore(Inverse(Atom(knows)))
	assert.Equal(t, PathZeroOrMore, star.Kind)
	assert.Equal(t, PathInverse, star.Sub[0].Kind)

	neg := NegatedSet(knows, likes)
	assert.Equal(t, PathNegatedSet, neg.Kind)
	assert.Len(t, neg.IRIs, 2)
}

func TestSparqlJoinNodeCarriesPostJoinFilter(t *testing.T) {
	left := QuadPatternNode{Subject: Variable("s"), Predicate: Variable("p"), Object: Variable("o")}
	right := QuadPatternNode{Subject: Variable("s"), Predicate: Variable("p2"), Object: Variable("o2")}
	join := SparqlJoinNode{
		Left:   left,
		Right:  right,
		Type:   JoinLeftOuter,
		Filter: CallExpr{Func: "BOUND", Args: []Expr{VarExpr{Name: "o2"}}},
	}
	assert.Equal(t, JoinLeftOuter, join.Type)
	assert.NotNil(t, join.Filter)
}

func TestMinusNodeImplementsPlanNode(t *testing.T) {
	var n PlanNode = MinusNode{
		Left:  QuadPatternNode{Subject: Variable("s")},
		Right: QuadPatternNode{Subject: Variable("s")},
	}
	assert.NotNil(t, n)
}
