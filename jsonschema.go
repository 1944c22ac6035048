package quadfusion

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// sparqlResultsSchemaMap is the W3C SPARQL 1.1 Query Results JSON Format
// schema, trimmed to the shapes internal/results actually emits
// (bindings and boolean results), used to self-check a serialized
// QueryResult before it leaves the module.
var sparqlResultsSchemaMap = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"head": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"vars": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
		},
		"boolean": map[string]any{"type": "boolean"},
		"results": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"bindings": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "object"},
				},
			},
			"required": []any{"bindings"},
		},
	},
}

// ValidateSPARQLResultsJSON checks that data conforms to the SPARQL 1.1
// Query Results JSON Format, the way internal/transformer's field-level
// validation resolves a schema once and validates a payload against it.
func ValidateSPARQLResultsJSON(data []byte) error {
	schemaBytes, err := json.Marshal(sparqlResultsSchemaMap)
	if err != nil {
		return fmt.Errorf("quadfusion: failed to marshal SPARQL results schema: %w", err)
	}

	var schema jsonschema.Schema
	if err := json.Unmarshal(schemaBytes, &schema); err != nil {
		return fmt.Errorf("quadfusion: failed to unmarshal into jsonschema.Schema: %w", err)
	}

	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return fmt.Errorf("quadfusion: failed to resolve SPARQL results schema: %w", err)
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("quadfusion: results payload is not valid JSON: %w", err)
	}

	if err := resolved.Validate(payload); err != nil {
		return fmt.Errorf("quadfusion: results payload does not conform to the SPARQL results schema: %w", err)
	}
	return nil
}
