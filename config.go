package quadfusion

import "github.com/quadfusion/engine/internal/enginecore"

// Config and its nested sections are defined in internal/enginecore (so
// internal/memstore and internal/vectorexec can depend on them without
// importing this root package, the same leaf-package placement used for
// Expr, QuerySolution, and ActiveGraph); these aliases keep them part of
// the engine's public surface, the way forma's root package re-exported
// its config tree.
type (
	Config         = enginecore.Config
	StorageBackend = enginecore.StorageBackend
	StorageConfig  = enginecore.StorageConfig
	IndexConfig    = enginecore.IndexConfig
	QueryConfig    = enginecore.QueryConfig
	PostgresConfig = enginecore.PostgresConfig
	DuckDBConfig   = enginecore.DuckDBConfig
	LoggingConfig  = enginecore.LoggingConfig
	ConfigError    = enginecore.ConfigError
)

const (
	StorageBackendMemory   = enginecore.StorageBackendMemory
	StorageBackendPostgres = enginecore.StorageBackendPostgres
)

// DefaultConfig returns an in-memory, single-process configuration
// suitable for tests and the CLI demo harness.
func DefaultConfig() *Config { return enginecore.DefaultConfig() }
