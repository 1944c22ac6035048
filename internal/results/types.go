// Package results implements the SPARQL result-form types and the
// serializers that render them: QuerySolution bindings, CONSTRUCT
// triples, and WriteJSON/WriteCSV/WriteTSV for the SELECT/ASK output a
// vectorexec.Operator drains into a QueryResult.
package results

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/quadfusion/engine/model"
)

// QuerySolution is one row of a SPARQL SELECT result: a mapping from
// variable name to bound term. A variable absent from Bindings is
// unbound in this solution, distinct from being bound to an explicit
// "no value".
type QuerySolution struct {
	Bindings map[string]model.Term
}

// NewQuerySolution returns an empty solution with no variables bound.
func NewQuerySolution() QuerySolution {
	return QuerySolution{Bindings: make(map[string]model.Term)}
}

// Get returns the term bound to name and whether it is bound at all.
func (s QuerySolution) Get(name string) (model.Term, bool) {
	t, ok := s.Bindings[name]
	return t, ok
}

// With returns a copy of s with name bound to t, leaving s unmodified —
// solutions are treated as immutable once produced by an operator, passed
// by value between pipeline stages.
func (s QuerySolution) With(name string, t model.Term) QuerySolution {
	out := QuerySolution{Bindings: make(map[string]model.Term, len(s.Bindings)+1)}
	for k, v := range s.Bindings {
		out.Bindings[k] = v
	}
	out.Bindings[name] = t
	return out
}

// Triple is a subject/predicate/object fact with no graph name, the shape
// a CONSTRUCT query or a QuadsForPattern projection to the default graph
// produces.
type Triple struct {
	Subject   model.Term
	Predicate model.Term
	Object    model.Term
}

func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s", t.Subject, t.Predicate, t.Object)
}

// ResultForm names the shape of a SPARQL query result: SELECT produces
// Bindings, ASK produces Boolean, CONSTRUCT/DESCRIBE produce Triples.
type ResultForm uint8

const (
	ResultFormBindings ResultForm = iota
	ResultFormBoolean
	ResultFormTriples
)

// QueryResult is the outcome of executing a query to completion; exactly
// one of Solutions/Boolean/Triples is meaningful, selected by Form.
type QueryResult struct {
	Form      ResultForm
	Variables []string
	Solutions []QuerySolution
	Boolean   bool
	Triples   []Triple
}

// NewBlankNodeLabel generates a fresh, globally-unique blank node label
// for BNODE with no argument and for fresh blank nodes minted during
// CONSTRUCT, backed by a random UUID so labels never collide across
// concurrent queries without any shared counter.
func NewBlankNodeLabel() string {
	return "b" + uuid.NewString()
}
