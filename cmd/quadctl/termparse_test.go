package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadfusion/engine/model"
)

func TestParseTermRoundTripsNamedNode(t *testing.T) {
	term, err := parseTerm("<http://ex.org/alice>")
	require.NoError(t, err)
	assert.True(t, term.SameTerm(model.NewNamedNode("http://ex.org/alice")))
}

func TestParseTermRoundTripsBlankNode(t *testing.T) {
	term, err := parseTerm("_:b0")
	require.NoError(t, err)
	assert.True(t, term.SameTerm(model.NewBlankNode("b0")))
}

func TestParseTermRoundTripsPlainLiteral(t *testing.T) {
	term, err := parseTerm(`"hello"`)
	require.NoError(t, err)
	assert.True(t, term.SameTerm(model.NewLiteral("hello")))
}

func TestParseTermRoundTripsLangLiteral(t *testing.T) {
	term, err := parseTerm(`"Bob"@en`)
	require.NoError(t, err)
	assert.True(t, term.SameTerm(model.NewLangLiteral("Bob", "en")))
}

func TestParseTermRoundTripsTypedLiteral(t *testing.T) {
	term, err := parseTerm(`"42"^^<http://www.w3.org/2001/XMLSchema#integer>`)
	require.NoError(t, err)
	assert.True(t, term.SameTerm(model.NewTypedLiteral("42", "http://www.w3.org/2001/XMLSchema#integer")))
}

func TestParseTermRejectsUnrecognizedToken(t *testing.T) {
	_, err := parseTerm("bareword")
	assert.Error(t, err)
}

func TestParseQuadLineDefaultsToDefaultGraph(t *testing.T) {
	q, err := parseQuadLine(`<http://ex.org/a> <http://ex.org/p> "v"`)
	require.NoError(t, err)
	assert.True(t, q.GraphName.IsDefaultGraph())
	assert.True(t, q.Subject.SameTerm(model.NewNamedNode("http://ex.org/a")))
}

func TestParseQuadLineHonorsExplicitGraph(t *testing.T) {
	q, err := parseQuadLine(`<http://ex.org/a> <http://ex.org/p> "v" <http://ex.org/g1>`)
	require.NoError(t, err)
	assert.True(t, q.GraphName.SameTerm(model.NewNamedNode("http://ex.org/g1")))
}

func TestParseQuadLineKeepsSpacesInsideQuotedLiteral(t *testing.T) {
	q, err := parseQuadLine(`<http://ex.org/a> <http://ex.org/p> "hello world"`)
	require.NoError(t, err)
	assert.True(t, q.Object.SameTerm(model.NewLiteral("hello world")))
}

func TestParseQuadLineRejectsWrongArity(t *testing.T) {
	_, err := parseQuadLine(`<http://ex.org/a> <http://ex.org/p>`)
	assert.Error(t, err)
}

func TestParseQuadLineRejectsUnterminatedLiteral(t *testing.T) {
	_, err := parseQuadLine(`<http://ex.org/a> <http://ex.org/p> "unterminated`)
	assert.Error(t, err)
}
