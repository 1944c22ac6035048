package results

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadfusion/engine/model"
)

func TestWriteJSONBindingsIncludesHeadAndTypedBindings(t *testing.T) {
	sol := NewQuerySolution().
		With("s", model.NewNamedNode("http://ex.org/alice")).
		With("o", model.NewLangLiteral("Alice", "en"))

	r := QueryResult{
		Form:      ResultFormBindings,
		Variables: []string{"s", "o"},
		Solutions: []QuerySolution{sol},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, r))

	out := buf.String()
	assert.Contains(t, out, `"vars"`)
	assert.Contains(t, out, `"s"`)
	assert.Contains(t, out, `"uri"`)
	assert.Contains(t, out, `"http://ex.org/alice"`)
	assert.Contains(t, out, `"bindings"`)
	assert.Contains(t, out, `"xml:lang"`)
	assert.Contains(t, out, `"en"`)
}

func TestWriteJSONOmitsUnboundVariableFromSolution(t *testing.T) {
	sol := NewQuerySolution().With("s", model.NewNamedNode("http://ex.org/alice"))
	r := QueryResult{
		Form:      ResultFormBindings,
		Variables: []string{"s", "o"},
		Solutions: []QuerySolution{sol},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, r))
	assert.NotContains(t, buf.String(), `"o":`)
}

func TestWriteJSONTypedLiteralIncludesDatatype(t *testing.T) {
	sol := NewQuerySolution().With("n", model.NewTypedLiteral("42", model.XSDInteger))
	r := QueryResult{Form: ResultFormBindings, Variables: []string{"n"}, Solutions: []QuerySolution{sol}}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, r))
	out := buf.String()
	assert.Contains(t, out, `"datatype"`)
	assert.Contains(t, out, model.XSDInteger)
}

func TestWriteJSONPlainStringLiteralOmitsDatatype(t *testing.T) {
	sol := NewQuerySolution().With("n", model.NewLiteral("hello"))
	r := QueryResult{Form: ResultFormBindings, Variables: []string{"n"}, Solutions: []QuerySolution{sol}}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, r))
	assert.NotContains(t, buf.String(), `"datatype"`)
}

func TestWriteJSONBlankNode(t *testing.T) {
	sol := NewQuerySolution().With("b", model.NewBlankNode("b0"))
	r := QueryResult{Form: ResultFormBindings, Variables: []string{"b"}, Solutions: []QuerySolution{sol}}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, r))
	out := buf.String()
	assert.Contains(t, out, `"bnode"`)
	assert.Contains(t, out, `"b0"`)
}

func TestWriteJSONBoolean(t *testing.T) {
	r := QueryResult{Form: ResultFormBoolean, Boolean: true}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, r))
	assert.JSONEq(t, `{"boolean":true}`, buf.String())
}
