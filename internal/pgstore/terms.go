package pgstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/quadfusion/engine/model"
)

// pgxIface is the slice of *pgxpool.Pool (and pgx.Tx) this package
// depends on, kept narrow so internal/pgstore's tests can drive it
// against a github.com/pashagolub/pgxmock pool instead of a live
// Postgres connection.
type pgxIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// termID is a term dictionary row's surrogate key. 0 is reserved for
// model.DefaultGraph, which is never given a row of its own — the same
// sentinel-zero convention internal/objectid.Mapping uses for
// encoding.DefaultGraphID.
type termID int64

const defaultGraphID termID = 0

func termRow(t model.Term) (kind int16, value, datatype, language string) {
	switch t.Kind() {
	case model.KindNamedNode:
		return 0, t.IRI(), "", ""
	case model.KindBlankNode:
		return 1, t.BlankNodeLabel(), "", ""
	default: // model.KindLiteral
		return 2, t.LexicalForm(), t.Datatype(), t.Language()
	}
}

func decodeTerm(kind int16, value, datatype, language string) model.Term {
	switch kind {
	case 0:
		return model.NewNamedNode(value)
	case 1:
		return model.NewBlankNode(value)
	default:
		switch {
		case language != "":
			return model.NewLangLiteral(value, language)
		case datatype == "" || datatype == model.XSDString:
			return model.NewLiteral(value)
		default:
			return model.NewTypedLiteral(value, datatype)
		}
	}
}

const upsertTermSQL = `
INSERT INTO ` + termsTable + ` (kind, value, datatype, language)
VALUES ($1, $2, $3, $4)
ON CONFLICT (kind, value, datatype, language) DO UPDATE SET kind = EXCLUDED.kind
RETURNING id`

// internTerm returns t's dictionary id, assigning one on first sight.
func internTerm(ctx context.Context, db pgxIface, t model.Term) (termID, error) {
	if t.IsDefaultGraph() {
		return defaultGraphID, nil
	}
	kind, value, datatype, language := termRow(t)
	var id termID
	if err := db.QueryRow(ctx, upsertTermSQL, kind, value, datatype, language).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

const lookupTermSQL = `
SELECT id FROM ` + termsTable + ` WHERE kind = $1 AND value = $2 AND datatype = $3 AND language = $4`

// lookupTerm returns t's dictionary id without creating one, reporting
// false if t has never been interned.
func lookupTerm(ctx context.Context, db pgxIface, t model.Term) (termID, bool, error) {
	if t.IsDefaultGraph() {
		return defaultGraphID, true, nil
	}
	kind, value, datatype, language := termRow(t)
	var id termID
	err := db.QueryRow(ctx, lookupTermSQL, kind, value, datatype, language).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

const resolveTermSQL = `
SELECT kind, value, datatype, language FROM ` + termsTable + ` WHERE id = $1`

// resolveTerm is the inverse of internTerm/lookupTerm.
func resolveTerm(ctx context.Context, db pgxIface, id termID) (model.Term, bool, error) {
	if id == defaultGraphID {
		return model.DefaultGraph, true, nil
	}
	var kind int16
	var value, datatype, language string
	err := db.QueryRow(ctx, resolveTermSQL, id).Scan(&kind, &value, &datatype, &language)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Term{}, false, nil
	}
	if err != nil {
		return model.Term{}, false, err
	}
	return decodeTerm(kind, value, datatype, language), true, nil
}
