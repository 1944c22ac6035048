package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadfusion/engine"
)

func TestNewDefaultsToMemoryBackend(t *testing.T) {
	e, err := New(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, e)

	n, err := e.Len(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	cfg := quadfusion.DefaultConfig()
	cfg.Storage.Backend = "nonsense"

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
}

func TestNewPostgresBackendRequiresConnString(t *testing.T) {
	cfg := quadfusion.DefaultConfig()
	cfg.Storage.Backend = quadfusion.StorageBackendPostgres

	_, err := New(context.Background(), cfg)
	require.Error(t, err, "Config.Validate should reject an empty Postgres.ConnString before any dial is attempted")
}
