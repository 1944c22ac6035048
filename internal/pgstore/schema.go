// Package pgstore implements a Postgres-backed enginecore.QuadStorage,
// the durable counterpart to internal/memstore: a term dictionary table
// plus a quads table referencing it by id, the same
// dictionary-table-plus-fact-table split the teacher draws between its
// MetadataCache and its EAV/main-table repositories.
package pgstore

import "context"

// DDL creates the three tables a PgQuadStorage needs: a term dictionary
// (termsTable), the quad facts themselves (quadsTable), and the side
// named-graph set (graphsTable) that tracks graphs holding zero quads,
// mirroring internal/memstore's emptyGraphs set.
const (
	termsTable  = "quadfusion_terms"
	quadsTable  = "quadfusion_quads"
	graphsTable = "quadfusion_named_graphs"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS ` + termsTable + ` (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	kind SMALLINT NOT NULL,
	value TEXT NOT NULL,
	datatype TEXT NOT NULL DEFAULT '',
	language TEXT NOT NULL DEFAULT '',
	UNIQUE (kind, value, datatype, language)
);

CREATE TABLE IF NOT EXISTS ` + quadsTable + ` (
	graph_id BIGINT NOT NULL,
	subject_id BIGINT NOT NULL REFERENCES ` + termsTable + `(id),
	predicate_id BIGINT NOT NULL REFERENCES ` + termsTable + `(id),
	object_id BIGINT NOT NULL REFERENCES ` + termsTable + `(id),
	PRIMARY KEY (graph_id, subject_id, predicate_id, object_id)
);

CREATE INDEX IF NOT EXISTS ` + quadsTable + `_gpos_idx
	ON ` + quadsTable + ` (graph_id, predicate_id, object_id, subject_id);
CREATE INDEX IF NOT EXISTS ` + quadsTable + `_gosp_idx
	ON ` + quadsTable + ` (graph_id, object_id, subject_id, predicate_id);

CREATE TABLE IF NOT EXISTS ` + graphsTable + ` (
	graph_id BIGINT PRIMARY KEY REFERENCES ` + termsTable + `(id)
);
`

// Setup creates the backing tables and indexes if they do not already
// exist. Callers construct a PgQuadStorage against a pool that has
// already had Setup run against it at least once (or an equivalent
// migration), mirroring the teacher's own separation between schema
// migration (outside this package) and repository construction.
func Setup(ctx context.Context, pool pgxIface) error {
	_, err := pool.Exec(ctx, schemaDDL)
	return err
}
