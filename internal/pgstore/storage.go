package pgstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/quadfusion/engine/internal/enginecore"
	"github.com/quadfusion/engine/model"
)

// PgQuadStorage is the Postgres-backed enginecore.QuadStorage: a term
// dictionary shared by every quad, and a quads fact table keyed by the
// interned ids. It implements enginecore.QuadStorage,
// enginecore.BulkLoader, and enginecore.NamedGraphManager.
type PgQuadStorage struct {
	pool pgxIface
	log  *zap.SugaredLogger
}

var (
	_ enginecore.QuadStorage       = (*PgQuadStorage)(nil)
	_ enginecore.BulkLoader        = (*PgQuadStorage)(nil)
	_ enginecore.NamedGraphManager = (*PgQuadStorage)(nil)
	_ enginecore.QuadIterator      = (*rowIterator)(nil)
)

// New wraps an already-migrated pool (see Setup) in a PgQuadStorage.
// pool is typically a *pgxpool.Pool; tests pass a
// github.com/pashagolub/pgxmock pool instead.
func New(pool pgxIface) *PgQuadStorage {
	return &PgQuadStorage{pool: pool, log: zap.S().Named("pgstore")}
}

func wrapIO(op string, err error) error {
	if err == nil {
		return nil
	}
	return enginecore.NewStorageError(enginecore.ErrCodeStorageIO, op+" failed", err)
}

// InsertQuad implements enginecore.QuadStorage.
func (s *PgQuadStorage) InsertQuad(ctx context.Context, q model.Quad) (bool, error) {
	gid, err := internTerm(ctx, s.pool, q.GraphName)
	if err != nil {
		return false, wrapIO("intern graph", err)
	}
	sid, err := internTerm(ctx, s.pool, q.Subject)
	if err != nil {
		return false, wrapIO("intern subject", err)
	}
	pid, err := internTerm(ctx, s.pool, q.Predicate)
	if err != nil {
		return false, wrapIO("intern predicate", err)
	}
	oid, err := internTerm(ctx, s.pool, q.Object)
	if err != nil {
		return false, wrapIO("intern object", err)
	}
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO `+quadsTable+` (graph_id, subject_id, predicate_id, object_id)
		VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`, gid, sid, pid, oid)
	if err != nil {
		return false, wrapIO("insert quad", err)
	}
	if !q.GraphName.IsDefaultGraph() {
		if _, err := s.pool.Exec(ctx, `
			INSERT INTO `+graphsTable+` (graph_id) VALUES ($1) ON CONFLICT DO NOTHING`, gid); err != nil {
			return false, wrapIO("register named graph", err)
		}
	}
	return tag.RowsAffected() > 0, nil
}

// RemoveQuad implements enginecore.QuadStorage.
func (s *PgQuadStorage) RemoveQuad(ctx context.Context, q model.Quad) (bool, error) {
	gid, ok, err := lookupTerm(ctx, s.pool, q.GraphName)
	if err != nil || !ok {
		return false, wrapIO("lookup graph", err)
	}
	sid, ok, err := lookupTerm(ctx, s.pool, q.Subject)
	if err != nil || !ok {
		return false, wrapIO("lookup subject", err)
	}
	pid, ok, err := lookupTerm(ctx, s.pool, q.Predicate)
	if err != nil || !ok {
		return false, wrapIO("lookup predicate", err)
	}
	oid, ok, err := lookupTerm(ctx, s.pool, q.Object)
	if err != nil || !ok {
		return false, wrapIO("lookup object", err)
	}
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM `+quadsTable+`
		WHERE graph_id = $1 AND subject_id = $2 AND predicate_id = $3 AND object_id = $4`,
		gid, sid, pid, oid)
	if err != nil {
		return false, wrapIO("remove quad", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ContainsQuad implements enginecore.QuadStorage.
func (s *PgQuadStorage) ContainsQuad(ctx context.Context, q model.Quad) (bool, error) {
	gid, ok, err := lookupTerm(ctx, s.pool, q.GraphName)
	if err != nil || !ok {
		return false, wrapIO("lookup graph", err)
	}
	sid, ok, err := lookupTerm(ctx, s.pool, q.Subject)
	if err != nil || !ok {
		return false, wrapIO("lookup subject", err)
	}
	pid, ok, err := lookupTerm(ctx, s.pool, q.Predicate)
	if err != nil || !ok {
		return false, wrapIO("lookup predicate", err)
	}
	oid, ok, err := lookupTerm(ctx, s.pool, q.Object)
	if err != nil || !ok {
		return false, wrapIO("lookup object", err)
	}
	var exists bool
	err = s.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM `+quadsTable+`
			WHERE graph_id = $1 AND subject_id = $2 AND predicate_id = $3 AND object_id = $4)`,
		gid, sid, pid, oid).Scan(&exists)
	if err != nil {
		return false, wrapIO("contains quad", err)
	}
	return exists, nil
}

// Len implements enginecore.QuadStorage.
func (s *PgQuadStorage) Len(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+quadsTable).Scan(&n)
	if err != nil {
		return 0, wrapIO("len", err)
	}
	return n, nil
}

// NamedGraphs implements enginecore.QuadStorage, including graphs
// currently holding zero quads: InsertQuad and ClearGraph both keep a
// membership row in graphsTable independent of live quad counts.
func (s *PgQuadStorage) NamedGraphs(ctx context.Context) ([]model.Term, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT t.kind, t.value, t.datatype, t.language
		FROM `+graphsTable+` g JOIN `+termsTable+` t ON t.id = g.graph_id`)
	if err != nil {
		return nil, wrapIO("named graphs", err)
	}
	defer rows.Close()
	var out []model.Term
	for rows.Next() {
		var kind int16
		var value, datatype, language string
		if err := rows.Scan(&kind, &value, &datatype, &language); err != nil {
			return nil, wrapIO("named graphs scan", err)
		}
		out = append(out, decodeTerm(kind, value, datatype, language))
	}
	return out, wrapIO("named graphs", rows.Err())
}

// ClearGraph implements enginecore.QuadStorage. It empties graph's quads
// but, for a named graph, keeps its graphsTable membership row — an
// emptied graph is still a member of the named-graph set, the same
// invariant internal/memstore.ClearGraph preserves via emptyGraphs.
func (s *PgQuadStorage) ClearGraph(ctx context.Context, graph model.Term) error {
	gid, ok, err := lookupTerm(ctx, s.pool, graph)
	if err != nil {
		return wrapIO("lookup graph", err)
	}
	if !ok {
		if graph.IsDefaultGraph() {
			return nil
		}
		return s.InsertNamedGraph(ctx, graph)
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM `+quadsTable+` WHERE graph_id = $1`, gid); err != nil {
		return wrapIO("clear graph", err)
	}
	if !graph.IsDefaultGraph() {
		if _, err := s.pool.Exec(ctx, `
			INSERT INTO `+graphsTable+` (graph_id) VALUES ($1) ON CONFLICT DO NOTHING`, gid); err != nil {
			return wrapIO("retain graph membership", err)
		}
	}
	return nil
}

// InsertNamedGraph implements enginecore.NamedGraphManager.
func (s *PgQuadStorage) InsertNamedGraph(ctx context.Context, graph model.Term) error {
	if graph.IsDefaultGraph() {
		return enginecore.NewStorageError(enginecore.ErrCodeStorageIO, "cannot insert the default graph into the named-graph set", nil)
	}
	gid, err := internTerm(ctx, s.pool, graph)
	if err != nil {
		return wrapIO("intern graph", err)
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO `+graphsTable+` (graph_id) VALUES ($1) ON CONFLICT DO NOTHING`, gid)
	return wrapIO("insert named graph", err)
}

// DropNamedGraph implements enginecore.NamedGraphManager.
func (s *PgQuadStorage) DropNamedGraph(ctx context.Context, graph model.Term) error {
	if err := s.ClearGraphExceptMembership(ctx, graph); err != nil {
		return err
	}
	gid, ok, err := lookupTerm(ctx, s.pool, graph)
	if err != nil {
		return wrapIO("lookup graph", err)
	}
	if !ok {
		return nil
	}
	_, err = s.pool.Exec(ctx, `DELETE FROM `+graphsTable+` WHERE graph_id = $1`, gid)
	return wrapIO("drop named graph", err)
}

// ClearGraphExceptMembership deletes graph's quads without re-inserting
// a graphsTable row, the helper DropNamedGraph needs since ClearGraph's
// own contract re-adds that membership row.
func (s *PgQuadStorage) ClearGraphExceptMembership(ctx context.Context, graph model.Term) error {
	gid, ok, err := lookupTerm(ctx, s.pool, graph)
	if err != nil {
		return wrapIO("lookup graph", err)
	}
	if !ok {
		return nil
	}
	_, err = s.pool.Exec(ctx, `DELETE FROM `+quadsTable+` WHERE graph_id = $1`, gid)
	return wrapIO("clear graph", err)
}

// ContainsNamedGraph implements enginecore.NamedGraphManager.
func (s *PgQuadStorage) ContainsNamedGraph(ctx context.Context, graph model.Term) (bool, error) {
	gid, ok, err := lookupTerm(ctx, s.pool, graph)
	if err != nil {
		return false, wrapIO("lookup graph", err)
	}
	if !ok {
		return false, nil
	}
	var exists bool
	err = s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM `+graphsTable+` WHERE graph_id = $1)`, gid).Scan(&exists)
	return exists, wrapIO("contains named graph", err)
}

// Snapshot implements enginecore.QuadStorage via a REPEATABLE READ
// transaction held open for the lifetime of the returned storage;
// callers done with a snapshot early should call its Close to release
// the connection rather than waiting on the pool to reclaim it.
func (s *PgQuadStorage) Snapshot(ctx context.Context) (enginecore.QuadStorage, error) {
	beginner, ok := s.pool.(interface {
		BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error)
	})
	if !ok {
		return nil, enginecore.NewStorageError(enginecore.ErrCodeUnsupportedCapability, "pool does not support transactions", nil)
	}
	tx, err := beginner.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, wrapIO("begin snapshot", err)
	}
	return &PgQuadStorage{pool: txIface{tx}, log: s.log.Named("snapshot")}, nil
}

// BulkInsert implements enginecore.BulkLoader, batching every quad's
// term-interning and fact-row insert into as few round trips as
// pgx.Batch allows, grounded on the teacher's own
// PostgresAttributeRepository.InsertAttributes batching shape.
func (s *PgQuadStorage) BulkInsert(ctx context.Context, quads []model.Quad) (int64, error) {
	if len(quads) == 0 {
		return 0, nil
	}
	type key struct {
		kind                     int16
		value, datatype, language string
	}
	seen := make(map[key]bool)
	var terms []model.Term
	for _, q := range quads {
		for _, t := range [...]model.Term{q.GraphName, q.Subject, q.Predicate, q.Object} {
			if t.IsDefaultGraph() {
				continue
			}
			k, v, d, l := termRow(t)
			kk := key{k, v, d, l}
			if !seen[kk] {
				seen[kk] = true
				terms = append(terms, t)
			}
		}
	}
	ids := make(map[key]termID, len(terms))
	batch := &pgx.Batch{}
	for _, t := range terms {
		k, v, d, l := termRow(t)
		batch.Queue(upsertTermSQL, k, v, d, l)
	}
	br := s.pool.SendBatch(ctx, batch)
	for _, t := range terms {
		var id termID
		if err := br.QueryRow().Scan(&id); err != nil {
			br.Close()
			return 0, wrapIO("bulk intern terms", err)
		}
		k, v, d, l := termRow(t)
		ids[key{k, v, d, l}] = id
	}
	if err := br.Close(); err != nil {
		return 0, wrapIO("bulk intern terms", err)
	}

	idOf := func(t model.Term) termID {
		if t.IsDefaultGraph() {
			return defaultGraphID
		}
		k, v, d, l := termRow(t)
		return ids[key{k, v, d, l}]
	}

	insertBatch := &pgx.Batch{}
	graphBatch := &pgx.Batch{}
	seenGraph := make(map[termID]bool)
	for _, q := range quads {
		gid, sid, pid, oid := idOf(q.GraphName), idOf(q.Subject), idOf(q.Predicate), idOf(q.Object)
		insertBatch.Queue(`
			INSERT INTO `+quadsTable+` (graph_id, subject_id, predicate_id, object_id)
			VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`, gid, sid, pid, oid)
		if gid != defaultGraphID && !seenGraph[gid] {
			seenGraph[gid] = true
			graphBatch.Queue(`INSERT INTO `+graphsTable+` (graph_id) VALUES ($1) ON CONFLICT DO NOTHING`, gid)
		}
	}
	ibr := s.pool.SendBatch(ctx, insertBatch)
	var inserted int64
	for range quads {
		tag, err := ibr.Exec()
		if err != nil {
			ibr.Close()
			return inserted, wrapIO("bulk insert quads", err)
		}
		inserted += tag.RowsAffected()
	}
	if err := ibr.Close(); err != nil {
		return inserted, wrapIO("bulk insert quads", err)
	}
	if len(seenGraph) > 0 {
		gbr := s.pool.SendBatch(ctx, graphBatch)
		for range seenGraph {
			if _, err := gbr.Exec(); err != nil {
				gbr.Close()
				return inserted, wrapIO("bulk register named graphs", err)
			}
		}
		if err := gbr.Close(); err != nil {
			return inserted, wrapIO("bulk register named graphs", err)
		}
	}
	return inserted, nil
}

// QuadsForPattern implements enginecore.QuadStorage, resolving any bound
// pattern components to dictionary ids first (an unresolvable bound term
// can match nothing, short-circuiting to an empty iterator) and joining
// the remaining scan against the term dictionary to decode full terms in
// one round trip.
func (s *PgQuadStorage) QuadsForPattern(ctx context.Context, pattern model.QuadPattern) (enginecore.QuadIterator, error) {
	where := ""
	var args []any
	bind := func(col string, t *model.Term) (bool, error) {
		if t == nil {
			return true, nil
		}
		id, ok, err := lookupTerm(ctx, s.pool, *t)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		args = append(args, int64(id))
		where += fmt.Sprintf(" AND q.%s = $%d", col, len(args))
		return true, nil
	}
	for _, c := range []struct {
		col string
		t   *model.Term
	}{{"graph_id", pattern.GraphName}, {"subject_id", pattern.Subject}, {"predicate_id", pattern.Predicate}, {"object_id", pattern.Object}} {
		ok, err := bind(c.col, c.t)
		if err != nil {
			return nil, wrapIO("resolve pattern", err)
		}
		if !ok {
			return &rowIterator{}, nil
		}
	}
	rows, err := s.pool.Query(ctx, `
		SELECT q.graph_id, q.subject_id, q.predicate_id, q.object_id
		FROM `+quadsTable+` q
		WHERE 1=1`+where, args...)
	if err != nil {
		return nil, wrapIO("scan pattern", err)
	}
	return &rowIterator{ctx: ctx, pool: s.pool, rows: rows}, nil
}

// rowIterator implements enginecore.QuadIterator over raw id columns,
// resolving each id to a term lazily as rows are consumed.
type rowIterator struct {
	ctx  context.Context
	pool pgxIface
	rows pgx.Rows
	cur  model.Quad
	err  error
}

func (it *rowIterator) Next(ctx context.Context) (bool, error) {
	if it.rows == nil {
		return false, nil
	}
	if !it.rows.Next() {
		return false, it.rows.Err()
	}
	var gid, sid, pid, oid termID
	if err := it.rows.Scan(&gid, &sid, &pid, &oid); err != nil {
		it.err = err
		return false, err
	}
	g, _, err := resolveTerm(ctx, it.pool, gid)
	if err != nil {
		return false, err
	}
	sub, _, err := resolveTerm(ctx, it.pool, sid)
	if err != nil {
		return false, err
	}
	p, _, err := resolveTerm(ctx, it.pool, pid)
	if err != nil {
		return false, err
	}
	o, _, err := resolveTerm(ctx, it.pool, oid)
	if err != nil {
		return false, err
	}
	it.cur = model.Quad{Subject: sub, Predicate: p, Object: o, GraphName: g}
	return true, nil
}

func (it *rowIterator) Quad() model.Quad { return it.cur }

func (it *rowIterator) Close() error {
	if it.rows == nil {
		return nil
	}
	it.rows.Close()
	return it.err
}

// txIface adapts a pgx.Tx to pgxIface for a snapshot's lifetime.
type txIface struct{ tx pgx.Tx }

func (t txIface) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.tx.Exec(ctx, sql, args...)
}
func (t txIface) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.tx.Query(ctx, sql, args...)
}
func (t txIface) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.tx.QueryRow(ctx, sql, args...)
}
func (t txIface) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return t.tx.SendBatch(ctx, b)
}

func (t txIface) CloseTx(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// Close releases a snapshot's held transaction, rolling it back since a
// snapshot never writes; a no-op on the primary (non-snapshot) storage.
func (s *PgQuadStorage) Close(ctx context.Context) error {
	if c, ok := s.pool.(interface{ CloseTx(context.Context) error }); ok {
		return c.CloseTx(ctx)
	}
	return nil
}
