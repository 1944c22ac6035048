package quadfusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSPARQLResultsJSONAcceptsBindingsShape(t *testing.T) {
	data := []byte(`{
		"head": {"vars": ["s", "p", "o"]},
		"results": {"bindings": [{"s": {"type": "uri", "value": "http://example.org/a"}}]}
	}`)
	assert.NoError(t, ValidateSPARQLResultsJSON(data))
}

func TestValidateSPARQLResultsJSONAcceptsBooleanShape(t *testing.T) {
	data := []byte(`{"head": {}, "boolean": true}`)
	assert.NoError(t, ValidateSPARQLResultsJSON(data))
}

func TestValidateSPARQLResultsJSONRejectsMissingBindings(t *testing.T) {
	data := []byte(`{"head": {"vars": ["s"]}, "results": {}}`)
	assert.Error(t, ValidateSPARQLResultsJSON(data))
}

func TestValidateSPARQLResultsJSONRejectsMalformedJSON(t *testing.T) {
	assert.Error(t, ValidateSPARQLResultsJSON([]byte(`{not json`)))
}
