package enginecore

import "time"

// Config consolidates every subsystem's settings the way forma's Config
// consolidated its two predecessor modules': one struct tree, one
// DefaultConfig, nested XxxConfig structs per concern.
type Config struct {
	Storage StorageConfig `json:"storage"`
	Index IndexConfig `json:"index"`
	Query QueryConfig `json:"query"`
	Postgres PostgresConfig `json:"postgres"`
	DuckDB DuckDBConfig `json:"duckdb"`
	Logging LoggingConfig `json:"logging"`
}

// StorageBackend names which QuadStorage implementation Engine wires up.
type StorageBackend string

const (
	StorageBackendMemory StorageBackend = "memory"
	StorageBackendPostgres StorageBackend = "postgres"
)

// StorageConfig selects and configures the quad storage backend.
type StorageConfig struct {
	Backend StorageBackend `json:"backend"`
}

// IndexConfig holds index settings. Validate checks TargetPartitionCount;
// no store reads either field.
type IndexConfig struct {
	// TargetPartitionCount must be greater than 0 (Validate rejects other
	// values). No store or operator reads it: scans are not partitioned
	// by named graph.
	TargetPartitionCount int `json:"targetPartitionCount"`
	// BulkInsertBatchSize is carried with the configuration but not read
	// by any BulkLoader: each BulkInsert call handles all of its quads
	// regardless of this value.
	BulkInsertBatchSize int `json:"bulkInsertBatchSize"`
}

// QueryConfig bounds query planning and execution.
type QueryConfig struct {
	DefaultTimeout time.Duration `json:"defaultTimeout"`
	MaxResultRows int `json:"maxResultRows"`
	EnableOptimization bool `json:"enableOptimization"`
	VectorBatchSize int `json:"vectorBatchSize"`
	CooperativeYieldRows int `json:"cooperativeYieldRows"`
}

// PostgresConfig configures internal/pgstore's connection pool.
type PostgresConfig struct {
	ConnString string `json:"connString"`
	MaxConnections int32 `json:"maxConnections"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime"`
	Timeout time.Duration `json:"timeout"`
	QuadsTable string `json:"quadsTable"`
}

// DuckDBConfig configures internal/olapstore's bulk export/import mirror.
// Field names are kept stable across the OLAP client that consumes them.
type DuckDBConfig struct {
	Enabled bool `json:"enabled"`
	DBPath string `json:"dbPath"` // "" or ":memory:" for an ephemeral mirror
	MaxConnections int `json:"maxConnections"`
	Extensions []string `json:"extensions"`
	EnableParquet bool `json:"enableParquet"`
	EnableS3 bool `json:"enableS3"`
	S3AccessKey string `json:"s3AccessKey"`
	S3SecretKey string `json:"s3SecretKey"`
	S3Region string `json:"s3Region"`
	S3Endpoint string `json:"s3Endpoint"`
	S3Bucket string `json:"s3Bucket"`
}

// LoggingConfig controls zap's configuration.
type LoggingConfig struct {
	Level string `json:"level"`
	Format string `json:"format"` // "json" or "console"
	EnableQueryLogs bool `json:"enableQueryLogs"`
	EnablePlanLogs bool `json:"enablePlanLogs"`
}

// DefaultConfig returns an in-memory, single-process configuration
// suitable for tests and the CLI demo harness.
func DefaultConfig() *Config {
	return &Config{
 Storage: StorageConfig{Backend: StorageBackendMemory},
 Index: IndexConfig{
 TargetPartitionCount: 16,
 BulkInsertBatchSize: 10000,
 },
 Query: QueryConfig{
 DefaultTimeout: 30 * time.Second,
 MaxResultRows: 1_000_000,
 EnableOptimization: true,
 VectorBatchSize: 4096,
 CooperativeYieldRows: 65536,
 },
 Postgres: PostgresConfig{
 MaxConnections: 10,
 ConnMaxLifetime: 30 * time.Minute,
 Timeout: 10 * time.Second,
 QuadsTable: "quads",
 },
 DuckDB: DuckDBConfig{
 Enabled: false,
 DBPath: ":memory:",
 EnableParquet: true,
 },
 Logging: LoggingConfig{
 Level: "info",
 Format: "json",
 },
	}
}

// Validate reports a *ConfigError for the first invalid field found.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case StorageBackendMemory, StorageBackendPostgres:
	default:
 return &ConfigError{Field: "storage.backend", Message: "must be \"memory\" or \"postgres\""}
	}
	if c.Storage.Backend == StorageBackendPostgres && c.Postgres.ConnString == "" {
 return &ConfigError{Field: "postgres.connString", Message: "required when storage.backend is \"postgres\""}
	}
	if c.Query.VectorBatchSize <= 0 {
 return &ConfigError{Field: "query.vectorBatchSize", Message: "must be greater than 0"}
	}
	if c.Index.TargetPartitionCount <= 0 {
 return &ConfigError{Field: "index.targetPartitionCount", Message: "must be greater than 0"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field string `json:"field"`
	Message string `json:"message"`
}

func (e *ConfigError) Error() string {
	return "config validation error for field '" + e.Field + "': " + e.Message
}
