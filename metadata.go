package quadfusion

// EngineVersion is the semantic version of this module's public API,
// bumped whenever the Engine facade's method set changes incompatibly.
const EngineVersion = "0.1.0"

// EngineMetadata describes a running Engine instance for introspection
// (logging, the CLI's `stats` subcommand, diagnostics endpoints a caller
// may expose).
type EngineMetadata struct {
	Version        string         `json:"version"`
	StorageBackend StorageBackend `json:"storageBackend"`
	QuadCount      int64          `json:"quadCount"`
	NamedGraphs    int            `json:"namedGraphs"`
}
