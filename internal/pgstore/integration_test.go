//go:build integration

package pgstore_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/quadfusion/engine/internal/enginecore"
	"github.com/quadfusion/engine/internal/pgstore"
	"github.com/quadfusion/engine/internal/storagetest"
	"github.com/quadfusion/engine/model"
)

// startPostgres brings up a disposable Postgres container for this test
// file only, the same container-per-test shape
// internal/e2e_harness.TestHarness.StartPostgres uses, trimmed to what a
// single storage-conformance test needs instead of a shared harness.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_PASSWORD": "password",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mapped, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://postgres:password@%s:%s/postgres?sslmode=disable", host, mapped.Port())

	var pool *pgxpool.Pool
	deadline := time.Now().Add(20 * time.Second)
	for {
		pool, err = pgxpool.New(ctx, dsn)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				break
			}
			pool.Close()
		}
		if time.Now().After(deadline) {
			t.Fatalf("postgres did not become ready: %v", err)
		}
		time.Sleep(200 * time.Millisecond)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestPgQuadStorageConformance(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	require.NoError(t, pgstore.Setup(ctx, pool))

	storagetest.Run(t, func(t *testing.T) enginecore.QuadStorage {
		t.Helper()
		_, err := pool.Exec(ctx, "TRUNCATE quadfusion_quads, quadfusion_named_graphs, quadfusion_terms RESTART IDENTITY")
		require.NoError(t, err)
		return pgstore.New(pool)
	})
}

func TestPgQuadStorageEndToEnd(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	require.NoError(t, pgstore.Setup(ctx, pool))

	s := pgstore.New(pool)
	alice := model.NewNamedNode("http://ex.org/alice")
	bob := model.NewNamedNode("http://ex.org/bob")
	knows := model.NewNamedNode("http://ex.org/knows")
	g := model.NewNamedNode("http://ex.org/g1")
	q := model.Quad{Subject: alice, Predicate: knows, Object: bob, GraphName: g}

	inserted, err := s.InsertQuad(ctx, q)
	require.NoError(t, err)
	require.True(t, inserted)

	inserted, err = s.InsertQuad(ctx, q)
	require.NoError(t, err)
	require.False(t, inserted, "re-inserting the same quad must be idempotent")

	ok, err := s.ContainsQuad(ctx, q)
	require.NoError(t, err)
	require.True(t, ok)

	n, err := s.Len(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	graphs, err := s.NamedGraphs(ctx)
	require.NoError(t, err)
	require.Len(t, graphs, 1)
	require.True(t, graphs[0].SameTerm(g))

	it, err := s.QuadsForPattern(ctx, model.QuadPattern{Subject: &alice})
	require.NoError(t, err)
	defer it.Close()
	more, err := it.Next(ctx)
	require.NoError(t, err)
	require.True(t, more)
	require.True(t, it.Quad().Object.SameTerm(bob))

	require.NoError(t, s.ClearGraph(ctx, g))
	n, err = s.Len(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 0, n)

	graphs, err = s.NamedGraphs(ctx)
	require.NoError(t, err)
	require.Len(t, graphs, 1, "an emptied named graph stays a member of the named-graph set")
}
