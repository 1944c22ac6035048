// Package functions implements the SPARQL scalar and aggregate operator
// kit: a registry of named built-ins, each with a
// volatility classification and an implementation over decoded
// model.Value arguments. internal/logical's Eval tree-walker drives
// this registry against a solution's bindings.
package functions

import (
	"strings"

	"github.com/quadfusion/engine/model"
)

// Volatility governs whether a call can be constant-folded by the
// rewriting pipeline's SimplifySparqlExpressions rule.
type Volatility uint8

const (
	Immutable Volatility = iota // same inputs always produce the same output
	Stable // constant within one query execution (e.g. NOW)
	Volatile // may differ on every call (e.g. RAND, UUID)
)

// Impl evaluates one built-in over already-decoded arguments.
type Impl func(args []model.Value) model.ThinResult[model.Value]

// Function is one entry in the registry: a canonical SPARQL name, its
// volatility, and its implementation.
type Function struct {
	Name string
	Volatility Volatility
	Call Impl
}

// registry maps a canonical, upper-cased function name to its
// definition. Operators (+, -, =, <...) are registered under their
// symbolic spelling since CallExpr.Func carries whatever the caller
// assembling the Expr tree chose to name them.
var registry = map[string]Function{}

func register(name string, vol Volatility, impl Impl) {
	registry[strings.ToUpper(name)] = Function{Name: name, Volatility: vol, Call: impl}
}

// Lookup finds a registered function by name, case-insensitively (SPARQL
// built-in names are case-insensitive; IRI-form custom functions are not
// supported by this registry, matching built-ins-only scope).
func Lookup(name string) (Function, bool) {
	f, ok := registry[strings.ToUpper(name)]
	return f, ok
}
