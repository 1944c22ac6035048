package logical

import "github.com/quadfusion/engine/model"

// PlanNode is a node of the logical query plan: the runtime's standard
// relational algebra (scan/project/filter/sort, owned by the vectorized
// executor) plus the five SPARQL-specific extension nodes below. This
// interface only marks membership in the plan tree; internal/vectorexec
// owns turning a plan into physical operators.
type PlanNode interface {
	planNode()
}

// TermPatternKind discriminates a quad pattern position's matching mode.
type TermPatternKind uint8

const (
	// PatternVariable binds whatever term appears at this position to a
	// solution variable.
	PatternVariable TermPatternKind = iota
	// PatternConst matches only the exact term (a NamedNode, BlankNode,
	// or Literal given in the query text).
	PatternConst
)

// TermPattern is one subject/predicate/object/graph slot of a quad
// pattern: either a variable to bind, or a constant term to match
// exactly, mirroring the teacher's Predicate/ColumnRef split between "a
// value to compare against" and "a column to read."
type TermPattern struct {
	Kind TermPatternKind
	Var  string
	Term model.Term
}

// Variable constructs a TermPattern that binds name.
func Variable(name string) TermPattern { return TermPattern{Kind: PatternVariable, Var: name} }

// Const constructs a TermPattern that matches t exactly.
func Const(t model.Term) TermPattern { return TermPattern{Kind: PatternConst, Term: t} }

// BlankNodeMode controls how a blank node written directly in a quad
// pattern (as opposed to one already bound from a prior pattern) is
// matched.
type BlankNodeMode uint8

const (
	// BlankNodeAsVariable treats a pattern blank node as a fresh
	// projection variable, the SPARQL default: "_:b" in two different
	// patterns of the same BGP refers to the same solution variable, but
	// across BGPs it is fresh.
	BlankNodeAsVariable BlankNodeMode = iota
	// BlankNodeAsFilter treats a pattern blank node as a value that must
	// SameTerm-match an already-interned blank node, used when replaying
	// a previously bound pattern (e.g. inside CONSTRUCT template matching).
	BlankNodeAsFilter
)

// QuadPatternNode matches a single (subject, predicate, object) pattern
// against the active graph, binding one output column per distinct
// variable across subject/predicate/object (and the graph, if
// GraphVariable is set) in pattern order.
type QuadPatternNode struct {
	ActiveGraph   model.ActiveGraph
	GraphVariable string // empty if the graph itself is not projected
	Subject       TermPattern
	Predicate     TermPattern
	Object        TermPattern
	BlankNodeMode BlankNodeMode
}

func (QuadPatternNode) planNode() {}

// PathKind discriminates a property path expression's grammar production.
type PathKind uint8

const (
	PathAtom PathKind = iota
	PathInverse
	PathSequence
	PathAlternative
	PathZeroOrMore
	PathOneOrMore
	PathZeroOrOne
	PathNegatedSet
)

// PropertyPath is a node of a SPARQL property path expression:
// - PathAtom: a single predicate IRI (IRI set).
// - PathInverse: ^p, traverses Sub in reverse.
// - PathSequence: p/q, Sub = [p, q, ...].
// - PathAlternative: p|q, Sub = [p, q, ...].
// - PathZeroOrMore/PathOneOrMore/PathZeroOrOne: p*/p+/p?, Sub = [p].
// - PathNegatedSet: !(p1|...|pn), IRIs holds the excluded predicates.
type PropertyPath struct {
	Kind PathKind
	IRIs []model.Term // PathAtom: exactly one; PathNegatedSet: the excluded set
	Sub  []PropertyPath
}

// Atom constructs a single-predicate path.
func Atom(predicate model.Term) PropertyPath {
	return PropertyPath{Kind: PathAtom, IRIs: []model.Term{predicate}}
}

// Inverse constructs ^p.
func Inverse(p PropertyPath) PropertyPath { return PropertyPath{Kind: PathInverse, Sub: []PropertyPath{p}} }

// Sequence constructs p/q/...
func Sequence(paths ...PropertyPath) PropertyPath {
	return PropertyPath{Kind: PathSequence, Sub: paths}
}

// Alternative constructs p|q|...
func Alternative(paths ...PropertyPath) PropertyPath {
	return PropertyPath{Kind: PathAlternative, Sub: paths}
}

// ZeroOrMore constructs p*.
func ZeroOrMore(p PropertyPath) PropertyPath {
	return PropertyPath{Kind: PathZeroOrMore, Sub: []PropertyPath{p}}
}

// OneOrMore constructs p+.
func OneOrMore(p PropertyPath) PropertyPath {
	return PropertyPath{Kind: PathOneOrMore, Sub: []PropertyPath{p}}
}

// ZeroOrOne constructs p?.
func ZeroOrOne(p PropertyPath) PropertyPath {
	return PropertyPath{Kind: PathZeroOrOne, Sub: []PropertyPath{p}}
}

// NegatedSet constructs !(p1|...|pn).
func NegatedSet(excluded ...model.Term) PropertyPath {
	return PropertyPath{Kind: PathNegatedSet, IRIs: excluded}
}

// PropertyPathNode matches Subject to Object along Path over the active
// graph. Unlike QuadPatternNode, the predicate position is never a plain
// variable — path evaluation needs a fixed path expression to walk, so an
// unconstrained predicate is expressed as ZeroOrMore(NegatedSet) (any
// predicate, any number of hops) rather than a TermPattern.
type PropertyPathNode struct {
	ActiveGraph   model.ActiveGraph
	GraphVariable string
	Subject       TermPattern
	Path          PropertyPath
	Object        TermPattern
}

func (PropertyPathNode) planNode() {}

// JoinKind discriminates SparqlJoinNode's join semantics.
type JoinKind uint8

const (
	// JoinInner keeps only rows with a compatible binding on both sides
	// (SPARQL group graph pattern juxtaposition).
	JoinInner JoinKind = iota
	// JoinLeftOuter keeps every left row, extended with right-hand
	// bindings where compatible and left as-is otherwise (SPARQL OPTIONAL).
	JoinLeftOuter
	// JoinMinus keeps only left rows with no compatible right-hand match
	// on their shared variables (SPARQL MINUS is also expressible via
	// the dedicated MinusNode below; JoinMinus exists for rewrites that
	// want to fold MINUS into the join tree).
	JoinMinus
	// JoinLateral evaluates the right input once per left row, with the
	// left row's bindings visible to the right side (used to implement
	// property paths and sub-SELECTs whose right side depends on the
	// left's current bindings).
	JoinLateral
)

// SparqlJoinNode combines two inputs under SPARQL's join semantics.
// Filter, when non-nil, is evaluated after the join but sees all of the
// right-hand input's bindings — the shape OPTIONAL's trailing FILTER
// clause needs, where a filter can reference variables that only the
// optional branch introduces.
type SparqlJoinNode struct {
	Left   PlanNode
	Right  PlanNode
	Type   JoinKind
	Filter Expr
}

func (SparqlJoinNode) planNode() {}

// ExtendNode wraps Input with one new bound column, Var, computed by
// evaluating Expr against each input row (SPARQL BIND). Errors propagate
// as unbound: if Expr evaluates to Expected, Var is left unbound in that
// output row rather than aborting the row.
type ExtendNode struct {
	Input PlanNode
	Var   string
	Expr  Expr
}

func (ExtendNode) planNode() {}

// MinusNode implements SPARQL MINUS: every row of Left for which no row
// of Right is "compatible" (agrees on every variable the two sides
// share; if they share no variables at all, MINUS removes nothing, not
// everything).
type MinusNode struct {
	Left  PlanNode
	Right PlanNode
}

func (MinusNode) planNode() {}
