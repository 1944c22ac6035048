package quadfusion

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadfusion/engine/model"
)

func TestEngineExportThenImportSnapshotRoundTrips(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.DuckDB.Enabled = true
	cfg.DuckDB.DBPath = ":memory:"

	e := newTestEngine(t)
	e.cfg = cfg

	alice := model.NewNamedNode("http://ex.org/alice")
	bob := model.NewNamedNode("http://ex.org/bob")
	knows := model.NewNamedNode("http://ex.org/knows")
	g := model.NewNamedNode("http://ex.org/g1")
	_, err := e.Storage().Extend(ctx, []model.Quad{{Subject: alice, Predicate: knows, Object: bob, GraphName: g}})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "snapshot.parquet")
	require.NoError(t, e.ExportSnapshot(ctx, path))

	e2 := newTestEngine(t)
	e2.cfg = cfg
	n, err := e2.ImportSnapshot(ctx, path)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	ok, err := e2.Contains(ctx, model.Quad{Subject: alice, Predicate: knows, Object: bob, GraphName: g})
	require.NoError(t, err)
	assert.True(t, ok)
}
