package quadfusion

import "github.com/quadfusion/engine/internal/enginecore"

// QuadIterator, QuadStorage, and BulkLoader are defined in
// internal/enginecore (so internal/memstore and internal/vectorexec can
// implement and consume them without importing this root package, the
// same leaf-package placement used for Expr, Config, and QuerySolution);
// these aliases keep them part of the engine's public surface.
type (
	QuadIterator      = enginecore.QuadIterator
	QuadStorage       = enginecore.QuadStorage
	BulkLoader        = enginecore.BulkLoader
	NamedGraphManager = enginecore.NamedGraphManager
)
