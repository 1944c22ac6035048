// Package model defines the RDF term and value model shared by every layer
// of the engine: term encodings, storage, the logical plan, and the
// vectorized runtime all operate on the types defined here.
package model

import (
	"fmt"
	"strings"
)

// TermKind discriminates the four kinds of RDF term.
type TermKind uint8

const (
	KindNamedNode TermKind = iota
	KindBlankNode
	KindLiteral
	KindDefaultGraph
)

func (k TermKind) String() string {
	switch k {
	case KindNamedNode:
		return "NamedNode"
	case KindBlankNode:
		return "BlankNode"
	case KindLiteral:
		return "Literal"
	case KindDefaultGraph:
		return "DefaultGraph"
	default:
		return "Unknown"
	}
}

// Well-known XSD/RDF datatype IRIs recognized by the value model.
const (
	XSDString       = "http://www.w3.org/2001/XMLSchema#string"
	RDFLangString   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
	XSDBoolean      = "http://www.w3.org/2001/XMLSchema#boolean"
	XSDInt          = "http://www.w3.org/2001/XMLSchema#int"
	XSDInteger      = "http://www.w3.org/2001/XMLSchema#integer"
	XSDDecimal      = "http://www.w3.org/2001/XMLSchema#decimal"
	XSDFloat        = "http://www.w3.org/2001/XMLSchema#float"
	XSDDouble       = "http://www.w3.org/2001/XMLSchema#double"
	XSDDateTime     = "http://www.w3.org/2001/XMLSchema#dateTime"
	XSDDate         = "http://www.w3.org/2001/XMLSchema#date"
	XSDTime         = "http://www.w3.org/2001/XMLSchema#time"
	XSDDuration     = "http://www.w3.org/2001/XMLSchema#duration"
	XSDYearMonthDur = "http://www.w3.org/2001/XMLSchema#yearMonthDuration"
	XSDDayTimeDur   = "http://www.w3.org/2001/XMLSchema#dayTimeDuration"
)

// Term is an RDF term: an IRI, a blank node, a literal, or (only valid in
// the graph-name position of a quad) the default graph marker.
//
// Term is a value type; two Terms compare equal with == iff they are the
// same term under sameTerm semantics. SPARQL value-equality is a
// distinct, narrower relation implemented by Value, not by Term.
type Term struct {
	kind     TermKind
	iri      string // NamedNode: the IRI. Literal: the datatype IRI.
	value    string // BlankNode: the label. Literal: the lexical form.
	language string // Literal only, non-empty iff datatype is rdf:langString.
}

// NewNamedNode constructs an IRI term. The caller is responsible for
// supplying an absolute IRI; Term does not validate IRI syntax.
func NewNamedNode(iri string) Term {
	return Term{kind: KindNamedNode, iri: iri}
}

// NewBlankNode constructs a blank node term with the given label.
func NewBlankNode(label string) Term {
	return Term{kind: KindBlankNode, value: label}
}

// NewLiteral constructs a simple literal with datatype xsd:string.
func NewLiteral(lexical string) Term {
	return Term{kind: KindLiteral, value: lexical, iri: XSDString}
}

// NewLangLiteral constructs a language-tagged literal (rdf:langString).
func NewLangLiteral(lexical, lang string) Term {
	return Term{kind: KindLiteral, value: lexical, iri: RDFLangString, language: strings.ToLower(lang)}
}

// NewTypedLiteral constructs a literal with an explicit datatype IRI.
func NewTypedLiteral(lexical, datatypeIRI string) Term {
	return Term{kind: KindLiteral, value: lexical, iri: datatypeIRI}
}

// DefaultGraph is the distinguished term naming the default graph. It is
// only a legal value for the graph name column of a quad.
var DefaultGraph = Term{kind: KindDefaultGraph}

func (t Term) Kind() TermKind        { return t.kind }
func (t Term) IsNamedNode() bool     { return t.kind == KindNamedNode }
func (t Term) IsBlankNode() bool     { return t.kind == KindBlankNode }
func (t Term) IsLiteral() bool       { return t.kind == KindLiteral }
func (t Term) IsDefaultGraph() bool  { return t.kind == KindDefaultGraph }

// IRI returns the IRI of a NamedNode, or the datatype IRI of a Literal.
// It panics if called on a term of another kind; callers must check Kind.
func (t Term) IRI() string {
	if t.kind != KindNamedNode && t.kind != KindLiteral {
		panic(fmt.Sprintf("model: IRI called on %s term", t.kind))
	}
	return t.iri
}

// BlankNodeLabel returns the label of a BlankNode term.
func (t Term) BlankNodeLabel() string {
	if t.kind != KindBlankNode {
		panic(fmt.Sprintf("model: BlankNodeLabel called on %s term", t.kind))
	}
	return t.value
}

// LexicalForm returns the lexical form of a Literal term.
func (t Term) LexicalForm() string {
	if t.kind != KindLiteral {
		panic(fmt.Sprintf("model: LexicalForm called on %s term", t.kind))
	}
	return t.value
}

// Datatype returns the datatype IRI of a Literal term (an alias of IRI
// kept for readability at call sites that only care about literals).
func (t Term) Datatype() string { return t.IRI() }

// Language returns the language tag of a Literal term, or "" if the
// literal has no language tag.
func (t Term) Language() string {
	if t.kind != KindLiteral {
		return ""
	}
	return t.language
}

// HasLanguage reports whether the literal carries an rdf:langString tag.
func (t Term) HasLanguage() bool {
	return t.kind == KindLiteral && t.iri == RDFLangString
}

// SameTerm implements the RDF term identity relation: structural
// equality of kind, IRI/datatype, lexical form/label, and language tag.
// Numerically-equal literals with different lexical forms ("1" vs "01")
// are NOT SameTerm.
func (t Term) SameTerm(other Term) bool {
	return t == other
}

// String renders the term in a Turtle-ish debug form. It is not a
// canonical serialization and must not be relied on for equality.
func (t Term) String() string {
	switch t.kind {
	case KindNamedNode:
		return "<" + t.iri + ">"
	case KindBlankNode:
		return "_:" + t.value
	case KindDefaultGraph:
		return "DEFAULT"
	case KindLiteral:
		switch {
		case t.iri == RDFLangString:
			return fmt.Sprintf("%q@%s", t.value, t.language)
		case t.iri == XSDString:
			return fmt.Sprintf("%q", t.value)
		default:
			return fmt.Sprintf("%q^^<%s>", t.value, t.iri)
		}
	default:
		return "?"
	}
}

// Quad is an RDF quad: subject, predicate, object and a naming graph.
// GraphName is DefaultGraph for triples asserted in the default graph.
type Quad struct {
	Subject   Term
	Predicate Term
	Object    Term
	GraphName Term
}

func (q Quad) String() string {
	return fmt.Sprintf("%s %s %s %s", q.Subject, q.Predicate, q.Object, q.GraphName)
}

// QuadPattern is a quad with any component optionally unbound (nil means
// "match anything in this position"), used by storage scans.
type QuadPattern struct {
	Subject   *Term
	Predicate *Term
	Object    *Term
	GraphName *Term
}

// Matches reports whether the concrete quad q satisfies the pattern.
func (p QuadPattern) Matches(q Quad) bool {
	if p.Subject != nil && !p.Subject.SameTerm(q.Subject) {
		return false
	}
	if p.Predicate != nil && !p.Predicate.SameTerm(q.Predicate) {
		return false
	}
	if p.Object != nil && !p.Object.SameTerm(q.Object) {
		return false
	}
	if p.GraphName != nil && !p.GraphName.SameTerm(q.GraphName) {
		return false
	}
	return true
}
