package quadfusion

import (
	"context"

	"github.com/quadfusion/engine/internal/olapstore"
	"github.com/quadfusion/engine/model"
)

// ExportSnapshot bulk-exports every quad currently in storage to destPath
// as a Parquet file (a local path, or an "s3://" URI when cfg.DuckDB's S3
// settings are configured), via the DuckDB-backed OLAP mirror. This is a
// non-core convenience on top of the storage contract, not part of query
// execution.
func (e *Engine) ExportSnapshot(ctx context.Context, destPath string) error {
	mirror, err := olapstore.Open(ctx, *e.cfg)
	if err != nil {
		return err
	}
	defer mirror.Close()

	quads, err := e.allQuads(ctx)
	if err != nil {
		return err
	}
	return mirror.ExportSnapshot(ctx, quads, destPath)
}

// ImportSnapshot bulk-loads every quad in the Parquet file at srcPath
// into storage via StorageHandle.Extend, reporting how many were newly
// inserted.
func (e *Engine) ImportSnapshot(ctx context.Context, srcPath string) (int64, error) {
	mirror, err := olapstore.Open(ctx, *e.cfg)
	if err != nil {
		return 0, err
	}
	defer mirror.Close()

	quads, err := mirror.ImportSnapshot(ctx, srcPath)
	if err != nil {
		return 0, err
	}
	return e.Storage().Extend(ctx, quads)
}

func (e *Engine) allQuads(ctx context.Context) ([]model.Quad, error) {
	it, err := e.storage.QuadsForPattern(ctx, model.QuadPattern{})
	if err != nil {
		return nil, err
	}
	defer it.Close()
	var out []model.Quad
	for {
		ok, err := it.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, it.Quad())
	}
}
