package quadfusion

import (
	"io"

	"github.com/quadfusion/engine/internal/results"
)

// QuerySolution, Triple, and QueryResult are defined in internal/results
// (which also owns the streaming consumers built from them); these
// aliases keep them part of the engine's public surface.
type (
	QuerySolution = results.QuerySolution
	Triple        = results.Triple
	ResultForm    = results.ResultForm
	QueryResult   = results.QueryResult
)

const (
	ResultFormBindings = results.ResultFormBindings
	ResultFormBoolean  = results.ResultFormBoolean
	ResultFormTriples  = results.ResultFormTriples
)

// NewQuerySolution returns an empty solution with no variables bound.
func NewQuerySolution() QuerySolution { return results.NewQuerySolution() }

// NewBlankNodeLabel generates a fresh, globally-unique blank node label.
func NewBlankNodeLabel() string { return results.NewBlankNodeLabel() }

// WriteJSON, WriteCSV, and WriteTSV render r in the corresponding W3C
// SPARQL 1.1 results format onto w.
func WriteJSON(w io.Writer, r QueryResult) error { return results.WriteJSON(w, r) }
func WriteCSV(w io.Writer, r QueryResult) error  { return results.WriteCSV(w, r) }
func WriteTSV(w io.Writer, r QueryResult) error  { return results.WriteTSV(w, r) }

// SortKey pairs an expression with a sort direction for ORDER BY.
type SortKey struct {
	Expr       Expr
	Descending bool
}

// SolutionModifier bundles the SPARQL solution-sequence modifiers (15.1:
// ORDER BY, 15.2: projection handled separately, 15.4: DISTINCT, 15.5:
// REDUCED is treated as a no-op hint, 15.6: OFFSET, 15.5: LIMIT).
type SolutionModifier struct {
	OrderBy  []SortKey
	Distinct bool
	Offset   int
	Limit    int // 0 means unlimited
}
