package olapstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadfusion/engine/internal/enginecore"
	"github.com/quadfusion/engine/model"
)

func TestExportThenImportSnapshotRoundTrips(t *testing.T) {
	ctx := context.Background()
	cfg := enginecore.DefaultConfig()
	cfg.DuckDB.Enabled = true
	cfg.DuckDB.DBPath = ":memory:"

	m, err := Open(ctx, *cfg)
	require.NoError(t, err)
	defer m.Close()

	quads := []model.Quad{
		{
			Subject:   model.NewNamedNode("http://ex.org/alice"),
			Predicate: model.NewNamedNode("http://ex.org/knows"),
			Object:    model.NewNamedNode("http://ex.org/bob"),
			GraphName: model.NewNamedNode("http://ex.org/g1"),
		},
		{
			Subject:   model.NewBlankNode("b0"),
			Predicate: model.NewNamedNode("http://ex.org/age"),
			Object:    model.NewTypedLiteral("42", model.XSDInteger),
			GraphName: model.DefaultGraph,
		},
		{
			Subject:   model.NewNamedNode("http://ex.org/bob"),
			Predicate: model.NewNamedNode("http://ex.org/label"),
			Object:    model.NewLangLiteral("Bob", "en"),
			GraphName: model.DefaultGraph,
		},
	}

	path := filepath.Join(t.TempDir(), "snapshot.parquet")
	require.NoError(t, m.ExportSnapshot(ctx, quads, path))
	_, err = os.Stat(path)
	require.NoError(t, err)

	roundTripped, err := m.ImportSnapshot(ctx, path)
	require.NoError(t, err)
	require.Len(t, roundTripped, len(quads))

	byObject := make(map[string]model.Quad, len(roundTripped))
	for _, q := range roundTripped {
		byObject[q.Predicate.IRI()] = q
	}

	assert.True(t, byObject["http://ex.org/knows"].Object.SameTerm(model.NewNamedNode("http://ex.org/bob")))
	assert.True(t, byObject["http://ex.org/age"].Object.SameTerm(model.NewTypedLiteral("42", model.XSDInteger)))
	assert.True(t, byObject["http://ex.org/label"].Object.SameTerm(model.NewLangLiteral("Bob", "en")))
	assert.True(t, byObject["http://ex.org/age"].Subject.IsBlankNode())
}
