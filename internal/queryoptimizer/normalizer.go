package queryoptimizer

import (
	"fmt"

	"github.com/quadfusion/engine/internal/logical"
	"github.com/quadfusion/engine/model"
)

// Algebra is a node of the SPARQL algebra tree an external query-text
// parser is expected to produce (parsing SPARQL text is out of scope for
// this module; NormalizeQuery is the seam a parser's output feeds into).
// It mirrors the W3C SPARQL algebra operators closely enough that a
// translation from parsed query syntax is mechanical.
type Algebra interface {
	algebraNode()
}

// TriplePattern is one line of a basic graph pattern, using the same
// subject/predicate/object TermPattern shape QuadPatternNode consumes.
type TriplePattern struct {
	Subject   logical.TermPattern
	Predicate logical.TermPattern
	Object    logical.TermPattern
}

// BGP is a basic graph pattern: a conjunction of triple patterns
// evaluated against the same active graph.
type BGP struct {
	Triples []TriplePattern
}

func (BGP) algebraNode() {}

// Path is a single property-path triple (subject path object).
type Path struct {
	Subject logical.TermPattern
	Expr    logical.PropertyPath
	Object  logical.TermPattern
}

func (Path) algebraNode() {}

// Join is SPARQL group graph pattern juxtaposition: `{ A } { B }`.
type Join struct {
	Left  Algebra
	Right Algebra
}

func (Join) algebraNode() {}

// LeftJoin is `{ A } OPTIONAL { B }`, with an optional trailing filter
// that may reference variables B alone introduces.
type LeftJoin struct {
	Left   Algebra
	Right  Algebra
	Filter logical.Expr
}

func (LeftJoin) algebraNode() {}

// Minus is `{ A } MINUS { B }`.
type Minus struct {
	Left  Algebra
	Right Algebra
}

func (Minus) algebraNode() {}

// Union is `{ A } UNION { B }`.
type Union struct {
	Left  Algebra
	Right Algebra
}

func (Union) algebraNode() {}

// Filter applies a FILTER expression to its input.
type Filter struct {
	Input Algebra
	Expr  logical.Expr
}

func (Filter) algebraNode() {}

// Extend is BIND(expr AS ?var).
type Extend struct {
	Input Algebra
	Var   string
	Expr  logical.Expr
}

func (Extend) algebraNode() {}

// Graph is GRAPH <g>/?g { ... }: Input's quad patterns and paths run
// against the named graph (or, if GraphVar is set, project which graph
// each row came from).
type Graph struct {
	Input    Algebra
	Graph    model.ActiveGraph
	GraphVar string
}

func (Graph) algebraNode() {}

// Project keeps only the named variables of Input, in the given order
// (SPARQL's SELECT variable list).
type Project struct {
	Input Algebra
	Vars  []string
}

func (Project) algebraNode() {}

// Distinct is SELECT DISTINCT.
type Distinct struct {
	Input Algebra
}

func (Distinct) algebraNode() {}

// OrderBy is ORDER BY.
type OrderBy struct {
	Input Algebra
	Keys  []logical.OrderKey
}

func (OrderBy) algebraNode() {}

// Slice is LIMIT/OFFSET; a negative Limit means unbounded.
type Slice struct {
	Input  Algebra
	Offset int
	Limit  int
}

func (Slice) algebraNode() {}

// Values is an inline VALUES clause.
type Values struct {
	Columns []string
	Rows    [][]model.Term
}

func (Values) algebraNode() {}

// NormalizeQuery translates a parsed SPARQL algebra tree into the initial,
// unoptimized logical plan: a literal transcription using the SPARQL
// extension nodes, with no join reordering, path lowering, or constant
// folding applied yet — those are the rewriting pipeline's job.
func NormalizeQuery(alg Algebra) (logical.PlanNode, error) {
	if alg == nil {
		return nil, fmt.Errorf("queryoptimizer: algebra tree cannot be nil")
	}
	return normalize(alg, model.DefaultActiveGraph(), "")
}

func normalize(alg Algebra, graph model.ActiveGraph, graphVar string) (logical.PlanNode, error) {
	switch v := alg.(type) {
	case BGP:
		if len(v.Triples) == 0 {
			return nil, fmt.Errorf("queryoptimizer: basic graph pattern requires at least one triple")
		}
		var plan logical.PlanNode
		for _, tp := range v.Triples {
			pattern := logical.QuadPatternNode{
				ActiveGraph:   graph,
				GraphVariable: graphVar,
				Subject:       tp.Subject,
				Predicate:     tp.Predicate,
				Object:        tp.Object,
			}
			if plan == nil {
				plan = pattern
			} else {
				plan = logical.SparqlJoinNode{Left: plan, Right: pattern, Type: logical.JoinInner}
			}
		}
		return plan, nil

	case Path:
		return logical.PropertyPathNode{
			ActiveGraph:   graph,
			GraphVariable: graphVar,
			Subject:       v.Subject,
			Path:          v.Expr,
			Object:        v.Object,
		}, nil

	case Join:
		left, err := normalize(v.Left, graph, graphVar)
		if err != nil {
			return nil, err
		}
		right, err := normalize(v.Right, graph, graphVar)
		if err != nil {
			return nil, err
		}
		return logical.SparqlJoinNode{Left: left, Right: right, Type: logical.JoinInner}, nil

	case LeftJoin:
		left, err := normalize(v.Left, graph, graphVar)
		if err != nil {
			return nil, err
		}
		right, err := normalize(v.Right, graph, graphVar)
		if err != nil {
			return nil, err
		}
		return logical.SparqlJoinNode{Left: left, Right: right, Type: logical.JoinLeftOuter, Filter: v.Filter}, nil

	case Minus:
		left, err := normalize(v.Left, graph, graphVar)
		if err != nil {
			return nil, err
		}
		right, err := normalize(v.Right, graph, graphVar)
		if err != nil {
			return nil, err
		}
		return logical.MinusNode{Left: left, Right: right}, nil

	case Union:
		left, err := normalize(v.Left, graph, graphVar)
		if err != nil {
			return nil, err
		}
		right, err := normalize(v.Right, graph, graphVar)
		if err != nil {
			return nil, err
		}
		return logical.UnionNode{Left: left, Right: right}, nil

	case Filter:
		input, err := normalize(v.Input, graph, graphVar)
		if err != nil {
			return nil, err
		}
		return logical.FilterNode{Input: input, Expr: v.Expr}, nil

	case Extend:
		input, err := normalize(v.Input, graph, graphVar)
		if err != nil {
			return nil, err
		}
		if v.Var == "" {
			return nil, fmt.Errorf("queryoptimizer: BIND requires a non-empty variable name")
		}
		return logical.ExtendNode{Input: input, Var: v.Var, Expr: v.Expr}, nil

	case Graph:
		return normalize(v.Input, v.Graph, v.GraphVar)

	case Project:
		input, err := normalize(v.Input, graph, graphVar)
		if err != nil {
			return nil, err
		}
		return logical.ProjectNode{Input: input, Columns: v.Vars}, nil

	case Distinct:
		input, err := normalize(v.Input, graph, graphVar)
		if err != nil {
			return nil, err
		}
		return logical.DistinctNode{Input: input}, nil

	case OrderBy:
		input, err := normalize(v.Input, graph, graphVar)
		if err != nil {
			return nil, err
		}
		return logical.OrderByNode{Input: input, Keys: v.Keys}, nil

	case Slice:
		input, err := normalize(v.Input, graph, graphVar)
		if err != nil {
			return nil, err
		}
		return logical.SliceNode{Input: input, Offset: v.Offset, Limit: v.Limit}, nil

	case Values:
		return logical.ValuesNode{Columns: v.Columns, Rows: v.Rows}, nil

	default:
		return nil, fmt.Errorf("queryoptimizer: unsupported algebra node %T", alg)
	}
}
