package vectorexec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadfusion/engine/internal/enginecore"
	"github.com/quadfusion/engine/internal/logical"
	"github.com/quadfusion/engine/internal/memstore"
	"github.com/quadfusion/engine/model"
)

func quad(s, p, o string) model.Quad {
	return model.Quad{
		Subject:   model.NewNamedNode(s),
		Predicate: model.NewNamedNode(p),
		Object:    model.NewNamedNode(o),
		GraphName: model.DefaultGraph,
	}
}

func seedStore(t *testing.T, quads ...model.Quad) enginecore.QuadStorage {
	t.Helper()
	s := memstore.New()
	for _, q := range quads {
		_, err := s.InsertQuad(context.Background(), q)
		require.NoError(t, err)
	}
	return s
}

func TestScanBindsVariablePositions(t *testing.T) {
	knows := "http://ex.org/knows"
	s := seedStore(t, quad("http://ex.org/alice", knows, "http://ex.org/bob"))

	plan := logical.QuadPatternNode{
		ActiveGraph: model.DefaultActiveGraph(),
		Subject:     logical.Variable("s"),
		Predicate:   logical.Const(model.NewNamedNode(knows)),
		Object:      logical.Variable("o"),
	}
	rows, err := Run(context.Background(), plan, s, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	sub, ok := rows[0].Get("s")
	require.True(t, ok)
	assert.Equal(t, "http://ex.org/alice", sub.IRI())
}

func TestInnerJoinMergesSharedVariable(t *testing.T) {
	knows := "http://ex.org/knows"
	likes := "http://ex.org/likes"
	s := seedStore(t,
		quad("http://ex.org/alice", knows, "http://ex.org/bob"),
		quad("http://ex.org/bob", likes, "http://ex.org/cake"),
	)

	left := logical.QuadPatternNode{ActiveGraph: model.DefaultActiveGraph(), Subject: logical.Variable("a"), Predicate: logical.Const(model.NewNamedNode(knows)), Object: logical.Variable("b")}
	right := logical.QuadPatternNode{ActiveGraph: model.DefaultActiveGraph(), Subject: logical.Variable("b"), Predicate: logical.Const(model.NewNamedNode(likes)), Object: logical.Variable("c")}
	plan := logical.InnerJoinNode{Left: left, Right: right, Keys: []logical.JoinKeyPair{{LeftVar: "b", RightVar: "b"}}}

	rows, err := Run(context.Background(), plan, s, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	c, ok := rows[0].Get("c")
	require.True(t, ok)
	assert.Equal(t, "http://ex.org/cake", c.IRI())
}

func TestLeftJoinKeepsUnmatchedLeftRow(t *testing.T) {
	knows := "http://ex.org/knows"
	likes := "http://ex.org/likes"
	s := seedStore(t, quad("http://ex.org/alice", knows, "http://ex.org/bob"))

	left := logical.QuadPatternNode{ActiveGraph: model.DefaultActiveGraph(), Subject: logical.Variable("a"), Predicate: logical.Const(model.NewNamedNode(knows)), Object: logical.Variable("b")}
	right := logical.QuadPatternNode{ActiveGraph: model.DefaultActiveGraph(), Subject: logical.Variable("b"), Predicate: logical.Const(model.NewNamedNode(likes)), Object: logical.Variable("c")}
	plan := logical.LeftJoinNode{Left: left, Right: right, Keys: []logical.JoinKeyPair{{LeftVar: "b", RightVar: "b"}}}

	rows, err := Run(context.Background(), plan, s, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	_, ok := rows[0].Get("c")
	assert.False(t, ok, "unmatched OPTIONAL leaves the right-hand variable unbound")
}

func TestFilterExcludesRowsWithoutAbortingQuery(t *testing.T) {
	knows := "http://ex.org/knows"
	s := seedStore(t,
		quad("http://ex.org/alice", knows, "http://ex.org/bob"),
		quad("http://ex.org/alice", knows, "http://ex.org/carol"),
	)
	scan := logical.QuadPatternNode{ActiveGraph: model.DefaultActiveGraph(), Subject: logical.Variable("s"), Predicate: logical.Const(model.NewNamedNode(knows)), Object: logical.Variable("o")}
	plan := logical.FilterNode{Input: scan, Expr: logical.CallExpr{Func: "sameTerm", Args: []logical.Expr{
		logical.VarExpr{Name: "o"},
		logical.TermExpr{Term: model.NewNamedNode("http://ex.org/bob")},
	}}}

	rows, err := Run(context.Background(), plan, s, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestDistinctOrderBySliceModifiers(t *testing.T) {
	p := "http://ex.org/p"
	s := seedStore(t,
		quad("http://ex.org/b", p, "http://ex.org/x"),
		quad("http://ex.org/a", p, "http://ex.org/x"),
	)
	scan := logical.QuadPatternNode{ActiveGraph: model.DefaultActiveGraph(), Subject: logical.Variable("s"), Predicate: logical.Const(model.NewNamedNode(p)), Object: logical.Variable("o")}
	proj := logical.ProjectNode{Input: scan, Columns: []string{"s"}}
	distinct := logical.DistinctNode{Input: proj}
	ordered := logical.OrderByNode{Input: distinct, Keys: []logical.OrderKey{{Expr: logical.VarExpr{Name: "s"}}}}
	sliced := logical.SliceNode{Input: ordered, Offset: 0, Limit: 1}

	rows, err := Run(context.Background(), sliced, s, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	sVal, _ := rows[0].Get("s")
	assert.Equal(t, "http://ex.org/a", sVal.IRI())
}

func TestUnloweredPlanNodeReportsPlanNotLowered(t *testing.T) {
	s := seedStore(t)
	plan := logical.MinusNode{Left: logical.ValuesNode{}, Right: logical.ValuesNode{}}
	_, err := Run(context.Background(), plan, s, nil)
	require.Error(t, err)
	assert.True(t, enginecore.IsErrorType(err, enginecore.ErrorTypePlan))
}

func TestRecursiveNodeWalksTransitiveClosure(t *testing.T) {
	knows := "http://ex.org/knows"
	s := seedStore(t,
		quad("http://ex.org/a", knows, "http://ex.org/b"),
		quad("http://ex.org/b", knows, "http://ex.org/c"),
		quad("http://ex.org/c", knows, "http://ex.org/d"),
	)

	seed := logical.QuadPatternNode{ActiveGraph: model.DefaultActiveGraph(), Subject: logical.Variable("s"), Predicate: logical.Const(model.NewNamedNode(knows)), Object: logical.Variable("o")}
	step := logical.InnerJoinNode{
		Left:  logical.RecursionAnchorNode{SubjectVar: "s", ObjectVar: "mid"},
		Right: logical.QuadPatternNode{ActiveGraph: model.DefaultActiveGraph(), Subject: logical.Variable("mid"), Predicate: logical.Const(model.NewNamedNode(knows)), Object: logical.Variable("o")},
		Keys:  []logical.JoinKeyPair{{LeftVar: "mid", RightVar: "mid"}},
	}
	plan := logical.DistinctNode{Input: logical.RecursiveNode{Seed: seed, Step: step}}
	proj := logical.ProjectNode{Input: plan, Columns: []string{"s", "o"}}

	rows, err := Run(context.Background(), proj, s, nil)
	require.NoError(t, err)
	// a->b, a->c, a->d, b->c, b->d, c->d : six reachable pairs total.
	assert.Len(t, rows, 6)
}
