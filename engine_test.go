package quadfusion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadfusion/engine/internal/logical"
	"github.com/quadfusion/engine/internal/memstore"
	"github.com/quadfusion/engine/internal/queryoptimizer"
	"github.com/quadfusion/engine/model"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(nil, memstore.New())
	require.NoError(t, err)
	return e
}

func knowsBGP() queryoptimizer.Algebra {
	knows := model.NewNamedNode("http://ex.org/knows")
	return queryoptimizer.Project{
		Vars: []string{"s", "o"},
		Input: queryoptimizer.BGP{Triples: []queryoptimizer.TriplePattern{{
			Subject:   logical.Variable("s"),
			Predicate: logical.Const(knows),
			Object:    logical.Variable("o"),
		}}},
	}
}

func TestNewEngineRejectsNilStorage(t *testing.T) {
	_, err := NewEngine(nil, nil)
	require.Error(t, err)
	assert.True(t, IsErrorType(err, ErrorTypeConfig))
}

func TestExecuteQuerySelectReturnsBoundSolutions(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	alice := model.NewNamedNode("http://ex.org/alice")
	bob := model.NewNamedNode("http://ex.org/bob")
	knows := model.NewNamedNode("http://ex.org/knows")
	_, err := e.Storage().Extend(ctx, []model.Quad{{Subject: alice, Predicate: knows, Object: bob, GraphName: model.DefaultGraph}})
	require.NoError(t, err)

	result, explain, err := e.ExecuteQuery(ctx, QueryRequest{Algebra: knowsBGP(), Form: ResultFormBindings}, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, result.Solutions, 1)
	s, ok := result.Solutions[0].Get("s")
	require.True(t, ok)
	assert.Equal(t, "http://ex.org/alice", s.IRI())
	assert.NotEmpty(t, explain.InitialPlan)
	assert.NotEmpty(t, explain.RulesApplied)
}

func TestExecuteQueryAskReportsBooleanTrueOnlyWhenSolutionsExist(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	result, _, err := e.ExecuteQuery(ctx, QueryRequest{Algebra: knowsBGP(), Form: ResultFormBoolean}, QueryOptions{})
	require.NoError(t, err)
	assert.False(t, result.Boolean)

	alice := model.NewNamedNode("http://ex.org/alice")
	bob := model.NewNamedNode("http://ex.org/bob")
	knows := model.NewNamedNode("http://ex.org/knows")
	_, err = e.Storage().Extend(ctx, []model.Quad{{Subject: alice, Predicate: knows, Object: bob, GraphName: model.DefaultGraph}})
	require.NoError(t, err)

	result, _, err = e.ExecuteQuery(ctx, QueryRequest{Algebra: knowsBGP(), Form: ResultFormBoolean}, QueryOptions{})
	require.NoError(t, err)
	assert.True(t, result.Boolean)
}

func TestExecuteQueryConstructInstantiatesTemplateAndSkipsUnboundTriples(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	alice := model.NewNamedNode("http://ex.org/alice")
	bob := model.NewNamedNode("http://ex.org/bob")
	knows := model.NewNamedNode("http://ex.org/knows")
	knownAs := model.NewNamedNode("http://ex.org/knownAs")
	_, err := e.Storage().Extend(ctx, []model.Quad{{Subject: alice, Predicate: knows, Object: bob, GraphName: model.DefaultGraph}})
	require.NoError(t, err)

	req := QueryRequest{
		Algebra: knowsBGP(),
		Form:    ResultFormTriples,
		ConstructTemplate: []queryoptimizer.TriplePattern{
			{Subject: logical.Variable("o"), Predicate: logical.Const(knownAs), Object: logical.Variable("s")},
		},
	}
	result, _, err := e.ExecuteQuery(ctx, req, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, result.Triples, 1)
	assert.Equal(t, "http://ex.org/bob", result.Triples[0].Subject.IRI())
	assert.Equal(t, "http://ex.org/alice", result.Triples[0].Object.IRI())
}

func TestContainsAndLenReflectStorageMutation(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	q := model.Quad{
		Subject:   model.NewNamedNode("http://ex.org/a"),
		Predicate: model.NewNamedNode("http://ex.org/p"),
		Object:    model.NewNamedNode("http://ex.org/b"),
		GraphName: model.DefaultGraph,
	}
	ok, err := e.Contains(ctx, q)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = e.Storage().Extend(ctx, []model.Quad{q})
	require.NoError(t, err)

	ok, err = e.Contains(ctx, q)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := e.Len(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	removed, err := e.Storage().Remove(ctx, q)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestStorageHandleNamedGraphLifecycle(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	g := model.NewNamedNode("http://ex.org/g1")
	h := e.Storage()

	ok, err := h.ContainsNamedGraph(ctx, g)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, h.InsertNamedGraph(ctx, g))
	ok, err = h.ContainsNamedGraph(ctx, g)
	require.NoError(t, err)
	assert.True(t, ok)

	graphs, err := h.NamedGraphs(ctx)
	require.NoError(t, err)
	require.Len(t, graphs, 1)
	assert.True(t, graphs[0].SameTerm(g))

	require.NoError(t, h.DropNamedGraph(ctx, g))
	ok, err = h.ContainsNamedGraph(ctx, g)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStorageHandleValidateDetectsHealthyStore(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	_, err := e.Storage().Extend(ctx, []model.Quad{{
		Subject:   model.NewNamedNode("http://ex.org/a"),
		Predicate: model.NewNamedNode("http://ex.org/p"),
		Object:    model.NewNamedNode("http://ex.org/b"),
		GraphName: model.DefaultGraph,
	}})
	require.NoError(t, err)
	assert.NoError(t, e.Storage().Validate(ctx))
}

func TestEngineMetadataReportsCurrentState(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	g := model.NewNamedNode("http://ex.org/g1")
	require.NoError(t, e.Storage().InsertNamedGraph(ctx, g))

	meta, err := e.Metadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, StorageBackendMemory, meta.StorageBackend)
	assert.EqualValues(t, 0, meta.QuadCount)
	assert.Equal(t, 1, meta.NamedGraphs)
}
