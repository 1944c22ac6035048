package quadfusion

import "github.com/quadfusion/engine/model"

// ActiveGraph and its kind are defined in model (internal/logical's plan
// extension nodes need them without importing this root package); these
// aliases keep them part of the engine's public surface.
type (
	ActiveGraphKind = model.ActiveGraphKind
	ActiveGraph     = model.ActiveGraph
)

const (
	ActiveGraphDefault = model.ActiveGraphDefault
	ActiveGraphNamed   = model.ActiveGraphNamed
	ActiveGraphUnion   = model.ActiveGraphUnion
	ActiveGraphAll     = model.ActiveGraphAll
)

// DefaultActiveGraph is the active graph of a query with no GRAPH clause
// and no explicit dataset description: just the default graph.
func DefaultActiveGraph() ActiveGraph { return model.DefaultActiveGraph() }

// NamedActiveGraph restricts matching to exactly the given named graphs.
func NamedActiveGraph(graphs ...model.Term) ActiveGraph { return model.NamedActiveGraph(graphs...) }
