// Package olapstore implements the bulk quad snapshot export/import
// mirror backing Engine.ExportSnapshot/ImportSnapshot: a DuckDB
// connection that copies quads to and from Parquet (optionally on S3),
// grounded on the teacher's internal/cdc.DuckExporter — the same
// database/sql + INSTALL/LOAD httpfs/parquet PRAGMA pattern, repointed
// from the teacher's change-log/EAV projection at a flat quad table.
// This is a non-core convenience: it never changes the live storage
// contract internal/memstore and internal/pgstore implement.
package olapstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quadfusion/engine/internal/enginecore"
	"github.com/quadfusion/engine/model"
)

// s3API is the narrow slice of *s3.Client ExportSnapshot's
// tmp-to-final promotion needs, so tests can substitute a fake instead
// of a real S3 endpoint.
type s3API interface {
	CopyObject(ctx context.Context, in *s3.CopyObjectInput, opts ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Mirror holds a DuckDB connection configured for Parquet/S3 bulk
// transfer of quad snapshots, plus (when cfg.DuckDB.EnableS3) an S3
// client used to promote an export from a temporary key to its final
// key only once the write is known-complete.
type Mirror struct {
	db  *sql.DB
	log *zap.SugaredLogger

	s3 s3API
}

// Open starts a DuckDB connection per cfg, installing and loading
// cfg.DuckDB.Extensions (parquet alone when that list is empty and
// cfg.DuckDB.EnableParquet is set) and, when cfg.DuckDB.EnableS3 is set,
// the httpfs extension plus the S3 credential settings, the same best-effort "warn, don't fail open" shape
// the teacher's NewDuckExporter uses for every PRAGMA/extension call — a
// mirror with networking unavailable should still serve local-file
// snapshots.
func Open(ctx context.Context, cfg enginecore.Config) (*Mirror, error) {
	path := cfg.DuckDB.DBPath
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, enginecore.NewStorageError(enginecore.ErrCodeStorageIO, "open duckdb mirror", err)
	}
	log := zap.S().Named("olapstore")

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exts := cfg.DuckDB.Extensions
	if len(exts) == 0 && cfg.DuckDB.EnableParquet {
		exts = []string{"parquet"}
	}
	if cfg.DuckDB.EnableS3 {
		exts = append(exts, "httpfs")
	}
	for _, e := range exts {
		if _, err := db.ExecContext(ctx2, "INSTALL "+e+";"); err != nil {
			log.Warnw("duckdb install extension failed", "ext", e, "err", err)
			continue
		}
		if _, err := db.ExecContext(ctx2, "LOAD "+e+";"); err != nil {
			log.Warnw("duckdb load extension failed", "ext", e, "err", err)
		}
	}

	if cfg.DuckDB.EnableS3 {
		if cfg.DuckDB.S3AccessKey != "" {
			exec(ctx2, db, log, fmt.Sprintf("SET s3_access_key_id='%s';", esc(cfg.DuckDB.S3AccessKey)))
		}
		if cfg.DuckDB.S3SecretKey != "" {
			exec(ctx2, db, log, fmt.Sprintf("SET s3_secret_access_key='%s';", esc(cfg.DuckDB.S3SecretKey)))
		}
		if cfg.DuckDB.S3Region != "" {
			exec(ctx2, db, log, fmt.Sprintf("SET s3_region='%s';", esc(cfg.DuckDB.S3Region)))
		}
		if cfg.DuckDB.S3Endpoint != "" {
			ep := strings.TrimPrefix(strings.TrimPrefix(cfg.DuckDB.S3Endpoint, "https://"), "http://")
			exec(ctx2, db, log, fmt.Sprintf("SET s3_endpoint='%s';", esc(ep)))
			exec(ctx2, db, log, "SET s3_url_style='path';")
		}
	}

	m := &Mirror{db: db, log: log}
	if cfg.DuckDB.EnableS3 {
		client, err := newS3Client(ctx, cfg.DuckDB)
		if err != nil {
			log.Warnw("s3 client setup failed; tmp-to-final promotion will be unavailable", "err", err)
		} else {
			m.s3 = client
		}
	}
	return m, nil
}

// newS3Client builds an S3 client for the tmp-key-then-promote pattern
// ExportSnapshot uses, the completed form of the S3 client the
// teacher's cdc.RunOnce constructs via config.LoadDefaultConfig plus a
// static credentials provider — DuckDB's own httpfs extension handles
// the bulk Parquet write; this client only performs the final
// CopyObject/DeleteObject promotion.
func newS3Client(ctx context.Context, cfg enginecore.DuckDBConfig) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.S3Region != "" {
		awsCfg.Region = cfg.S3Region
	}
	if cfg.S3AccessKey != "" {
		awsCfg.Credentials = awscreds.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = &cfg.S3Endpoint
		}
		o.UsePathStyle = true
	}), nil
}

func exec(ctx context.Context, db *sql.DB, log *zap.SugaredLogger, stmt string) {
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		log.Warnw("duckdb pragma failed", "stmt", stmt, "err", err)
	}
}

func esc(s string) string { return strings.ReplaceAll(s, "'", "''") }

// Close releases the DuckDB connection.
func (m *Mirror) Close() error { return m.db.Close() }

// promoteS3Object copies tmpKey to finalKey within bucket and then
// removes tmpKey, the atomic-visibility promotion step that makes an
// export's final key appear only once fully written.
func (m *Mirror) promoteS3Object(ctx context.Context, bucket, tmpKey, finalKey string) error {
	source := fmt.Sprintf("%s/%s", bucket, tmpKey)
	if _, err := m.s3.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     &bucket,
		Key:        &finalKey,
		CopySource: &source,
	}); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return enginecore.NewStorageError(enginecore.ErrCodeStorageIO,
				fmt.Sprintf("promote s3 snapshot object: %s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage()), err)
		}
		return enginecore.NewStorageError(enginecore.ErrCodeStorageIO, "promote s3 snapshot object", err)
	}
	if _, err := m.s3.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &bucket, Key: &tmpKey}); err != nil {
		m.log.Warnw("delete tmp s3 object after promotion failed", "bucket", bucket, "key", tmpKey, "err", err)
	}
	return nil
}

const quadColumns = `
	g_kind, g_value, g_datatype, g_language,
	s_kind, s_value, s_datatype, s_language,
	p_kind, p_value, p_datatype, p_language,
	o_kind, o_value, o_datatype, o_language`

const createStagingTableSQL = `
CREATE TEMP TABLE IF NOT EXISTS quadfusion_snapshot (
	g_kind UTINYINT, g_value VARCHAR, g_datatype VARCHAR, g_language VARCHAR,
	s_kind UTINYINT, s_value VARCHAR, s_datatype VARCHAR, s_language VARCHAR,
	p_kind UTINYINT, p_value VARCHAR, p_datatype VARCHAR, p_language VARCHAR,
	o_kind UTINYINT, o_value VARCHAR, o_datatype VARCHAR, o_language VARCHAR
);`

// termKind mirrors encoding.PlainTermSchema's kind byte: 0 NamedNode, 1
// BlankNode, 2 Literal, 3 DefaultGraph (only legal in the graph column).
func termKind(t model.Term) (kind uint8, value, datatype, language string) {
	switch t.Kind() {
	case model.KindNamedNode:
		return 0, t.IRI(), "", ""
	case model.KindBlankNode:
		return 1, t.BlankNodeLabel(), "", ""
	case model.KindLiteral:
		return 2, t.LexicalForm(), t.Datatype(), t.Language()
	default:
		return 3, "", "", ""
	}
}

func decodeTermKind(kind uint8, value, datatype, language string) model.Term {
	switch kind {
	case 0:
		return model.NewNamedNode(value)
	case 1:
		return model.NewBlankNode(value)
	case 2:
		switch {
		case language != "":
			return model.NewLangLiteral(value, language)
		case datatype == "" || datatype == model.XSDString:
			return model.NewLiteral(value)
		default:
			return model.NewTypedLiteral(value, datatype)
		}
	default:
		return model.DefaultGraph
	}
}

// ExportSnapshot loads quads into a staging table and copies it to
// destPath as a single Parquet file, the same "COPY (...) TO '<path>'
// (FORMAT PARQUET, COMPRESSION 'ZSTD')" shape the teacher's
// ExportSnapshotToTmp uses. When destPath is an "s3://bucket/key" URI
// and an S3 client is available (cfg.DuckDB.EnableS3), the COPY target
// is a "_tmp/" key under the same bucket, promoted to destPath via
// CopyObject/DeleteObject only once the write has fully landed — so a
// reader never observes a partially-written object at the final key,
// the same tmp-then-promote shape the teacher's RunOnce/
// CopyTmpToFinal gestures toward.
func (m *Mirror) ExportSnapshot(ctx context.Context, quads []model.Quad, destPath string) error {
	if _, err := m.db.ExecContext(ctx, createStagingTableSQL); err != nil {
		return enginecore.NewStorageError(enginecore.ErrCodeStorageIO, "create staging table", err)
	}
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return enginecore.NewStorageError(enginecore.ErrCodeStorageIO, "begin export tx", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO quadfusion_snapshot (`+quadColumns+`) VALUES (?,?,?,?, ?,?,?,?, ?,?,?,?, ?,?,?,?)`)
	if err != nil {
		return enginecore.NewStorageError(enginecore.ErrCodeStorageIO, "prepare export insert", err)
	}
	defer stmt.Close()

	for _, q := range quads {
		gk, gv, gd, gl := termKind(q.GraphName)
		sk, sv, sd, sl := termKind(q.Subject)
		pk, pv, pd, pl := termKind(q.Predicate)
		ok, ov, od, ol := termKind(q.Object)
		if _, err := stmt.ExecContext(ctx, gk, gv, gd, gl, sk, sv, sd, sl, pk, pv, pd, pl, ok, ov, od, ol); err != nil {
			return enginecore.NewStorageError(enginecore.ErrCodeStorageIO, "export insert", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return enginecore.NewStorageError(enginecore.ErrCodeStorageIO, "commit export tx", err)
	}

	copyTarget := destPath
	var bucket, tmpKey, finalKey string
	promote := m.s3 != nil && strings.HasPrefix(destPath, "s3://")
	if promote {
		bucket, finalKey = splitS3URI(destPath)
		tmpKey = fmt.Sprintf("_tmp/%s-%s", uuid.NewString(), finalKey)
		copyTarget = fmt.Sprintf("s3://%s/%s", bucket, tmpKey)
	}

	copySQL := fmt.Sprintf(`COPY quadfusion_snapshot TO '%s' (FORMAT PARQUET, COMPRESSION 'ZSTD');`, esc(copyTarget))
	if _, err := m.db.ExecContext(ctx, copySQL); err != nil {
		return enginecore.NewStorageError(enginecore.ErrCodeStorageIO, "copy snapshot to parquet", err)
	}
	if _, err := m.db.ExecContext(ctx, `DELETE FROM quadfusion_snapshot;`); err != nil {
		m.log.Warnw("clear staging table after export failed", "err", err)
	}
	if promote {
		if err := m.promoteS3Object(ctx, bucket, tmpKey, finalKey); err != nil {
			return err
		}
	}
	return nil
}

// splitS3URI splits "s3://bucket/key" into its bucket and key parts.
func splitS3URI(uri string) (bucket, key string) {
	rest := strings.TrimPrefix(uri, "s3://")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// ImportSnapshot reads every row of the Parquet file at srcPath back
// into quads, for a caller to hand to a QuadStorage's BulkInsert.
func (m *Mirror) ImportSnapshot(ctx context.Context, srcPath string) ([]model.Quad, error) {
	query := fmt.Sprintf(`SELECT %s FROM read_parquet('%s');`, quadColumns, esc(srcPath))
	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, enginecore.NewStorageError(enginecore.ErrCodeStorageIO, "read parquet snapshot", err)
	}
	defer rows.Close()

	var out []model.Quad
	for rows.Next() {
		var gk, sk, pk, ok uint8
		var gv, gd, gl, sv, sd, sl, pv, pd, pl, ov, od, ol string
		if err := rows.Scan(&gk, &gv, &gd, &gl, &sk, &sv, &sd, &sl, &pk, &pv, &pd, &pl, &ok, &ov, &od, &ol); err != nil {
			return nil, enginecore.NewStorageError(enginecore.ErrCodeStorageIO, "scan parquet row", err)
		}
		out = append(out, model.Quad{
			GraphName: decodeTermKind(gk, gv, gd, gl),
			Subject:   decodeTermKind(sk, sv, sd, sl),
			Predicate: decodeTermKind(pk, pv, pd, pl),
			Object:    decodeTermKind(ok, ov, od, ol),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, enginecore.NewStorageError(enginecore.ErrCodeStorageIO, "read parquet snapshot", err)
	}
	return out, nil
}
