package pgstore

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadfusion/engine/model"
)

func newMockStorage(t *testing.T) (*PgQuadStorage, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func TestInsertQuadInternsTermsAndRegistersGraph(t *testing.T) {
	s, mock := newMockStorage(t)
	ctx := context.Background()
	g := model.NewNamedNode("http://ex.org/g1")
	sub := model.NewNamedNode("http://ex.org/alice")
	pred := model.NewNamedNode("http://ex.org/knows")
	obj := model.NewNamedNode("http://ex.org/bob")

	mock.ExpectQuery(`INSERT INTO quadfusion_terms`).WithArgs(int16(0), g.IRI(), "", "").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(`INSERT INTO quadfusion_terms`).WithArgs(int16(0), sub.IRI(), "", "").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectQuery(`INSERT INTO quadfusion_terms`).WithArgs(int16(0), pred.IRI(), "", "").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectQuery(`INSERT INTO quadfusion_terms`).WithArgs(int16(0), obj.IRI(), "", "").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(4)))
	mock.ExpectExec(`INSERT INTO quadfusion_quads`).WithArgs(int64(1), int64(2), int64(3), int64(4)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO quadfusion_named_graphs`).WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	inserted, err := s.InsertQuad(ctx, model.Quad{Subject: sub, Predicate: pred, Object: obj, GraphName: g})
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertQuadIntoDefaultGraphSkipsGraphRegistration(t *testing.T) {
	s, mock := newMockStorage(t)
	ctx := context.Background()
	sub := model.NewNamedNode("http://ex.org/alice")
	pred := model.NewNamedNode("http://ex.org/knows")
	obj := model.NewNamedNode("http://ex.org/bob")

	mock.ExpectQuery(`INSERT INTO quadfusion_terms`).WithArgs(int16(0), sub.IRI(), "", "").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(`INSERT INTO quadfusion_terms`).WithArgs(int16(0), pred.IRI(), "", "").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectQuery(`INSERT INTO quadfusion_terms`).WithArgs(int16(0), obj.IRI(), "", "").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectExec(`INSERT INTO quadfusion_quads`).WithArgs(int64(0), int64(1), int64(2), int64(3)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	inserted, err := s.InsertQuad(ctx, model.Quad{Subject: sub, Predicate: pred, Object: obj, GraphName: model.DefaultGraph})
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContainsQuadReturnsFalseWhenTermNeverInterned(t *testing.T) {
	s, mock := newMockStorage(t)
	ctx := context.Background()
	g := model.NewNamedNode("http://ex.org/g1")

	mock.ExpectQuery(`SELECT id FROM quadfusion_terms`).WithArgs(int16(0), g.IRI(), "", "").
		WillReturnError(pgx.ErrNoRows)

	ok, err := s.ContainsQuad(ctx, model.Quad{
		Subject: model.NewNamedNode("http://ex.org/a"), Predicate: model.NewNamedNode("http://ex.org/p"),
		Object: model.NewNamedNode("http://ex.org/b"), GraphName: g,
	})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNamedGraphsJoinsDictionary(t *testing.T) {
	s, mock := newMockStorage(t)
	ctx := context.Background()

	rows := pgxmock.NewRows([]string{"kind", "value", "datatype", "language"}).
		AddRow(int16(0), "http://ex.org/g1", "", "")
	mock.ExpectQuery(`SELECT t.kind, t.value, t.datatype, t.language`).WillReturnRows(rows)

	graphs, err := s.NamedGraphs(ctx)
	require.NoError(t, err)
	require.Len(t, graphs, 1)
	assert.Equal(t, "http://ex.org/g1", graphs[0].IRI())
}

func TestClearGraphRetainsMembershipRow(t *testing.T) {
	s, mock := newMockStorage(t)
	ctx := context.Background()
	g := model.NewNamedNode("http://ex.org/g1")

	mock.ExpectQuery(`SELECT id FROM quadfusion_terms`).WithArgs(int16(0), g.IRI(), "", "").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectExec(`DELETE FROM quadfusion_quads`).WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec(`INSERT INTO quadfusion_named_graphs`).WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.ClearGraph(ctx, g))
	assert.NoError(t, mock.ExpectationsWereMet())
}
