package logical

// The nodes in this file are the "standard relational algebra" side of the
// plan tree: plain project/filter/sort/slice/distinct/union/join, with no
// RDF-specific semantics. The rewriting pipeline's job is to turn every
// extension node in plan.go into a tree built only from these, decorated
// with Expr/UDF calls. internal/vectorexec is the only package that turns
// these into physical operators; this package only describes their shape.

import "github.com/quadfusion/engine/model"

// ProjectNode keeps only the named columns of Input, in the given order,
// dropping and deduplicating everything else. Column renaming is done by
// composing with ExtendNode (bind the new name, then project away the old).
type ProjectNode struct {
	Input   PlanNode
	Columns []string
}

func (ProjectNode) planNode() {}

// FilterNode keeps rows of Input for which Expr's effective boolean value is
// true; rows where Expr is Expected-unbound or false are dropped.
type FilterNode struct {
	Input PlanNode
	Expr  Expr
}

func (FilterNode) planNode() {}

// OrderKey is one ORDER BY term.
type OrderKey struct {
	Expr Expr
	Desc bool
}

// OrderByNode sorts Input by Keys, comparing key values with
// model.Compare. Values that Compare cannot order against each other
// (different value kinds, differently tagged language strings, blank
// nodes) tie on that key, so this is not a total order across term kinds.
// A row where a key expression is unbound or errors sorts first ascending
// and last descending.
type OrderByNode struct {
	Input PlanNode
	Keys  []OrderKey
}

func (OrderByNode) planNode() {}

// SliceNode applies LIMIT/OFFSET. A negative Limit means unbounded.
type SliceNode struct {
	Input  PlanNode
	Offset int
	Limit  int
}

func (SliceNode) planNode() {}

// DistinctNode removes duplicate rows (by value equality of every bound
// column) from Input, preserving the first occurrence's order.
type DistinctNode struct {
	Input PlanNode
}

func (DistinctNode) planNode() {}

// UnionNode concatenates the rows of Left and Right; the two inputs need
// not bind the same variable set, missing columns are unbound. Combine with
// DistinctNode for SPARQL's union-distinct (used by PropertyPathLowering
// for p|q and p?).
type UnionNode struct {
	Left  PlanNode
	Right PlanNode
}

func (UnionNode) planNode() {}

// JoinKeyPair names one shared-variable equality test, comparing
// Left's LeftVar column against Right's RightVar column.
type JoinKeyPair struct {
	LeftVar  string
	RightVar string
}

// InnerJoinNode is the native equi-join the runtime is assumed to provide:
// rows from Left and Right are combined wherever every pair in Keys agrees,
// compared via sameTerm. SparqlJoinLowering and PropertyPathLowering (path
// sequences and p+ steps) produce this node; nothing upstream of the
// rewriting pipeline builds one directly.
type InnerJoinNode struct {
	Left  PlanNode
	Right PlanNode
	Keys  []JoinKeyPair
}

func (InnerJoinNode) planNode() {}

// LeftJoinNode is the native left-outer-join: every Left row is kept,
// extended with Right's bindings where Keys agree and Filter (if any) holds
// over the combined row, otherwise left with Right's columns unbound.
type LeftJoinNode struct {
	Left   PlanNode
	Right  PlanNode
	Keys   []JoinKeyPair
	Filter Expr
}

func (LeftJoinNode) planNode() {}

// RecursionAnchorNode is a placeholder that only appears inside a
// RecursiveNode's Step tree: it stands for "the delta produced by the
// previous round" (the seed, on round one). The executor substitutes it at
// each iteration; it carries no data of its own.
type RecursionAnchorNode struct {
	SubjectVar string
	ObjectVar  string
}

func (RecursionAnchorNode) planNode() {}

// RecursiveNode implements the bottom-up fixed point PropertyPathLowering
// uses for p+ : Seed supplies the first round's rows, Step is evaluated
// once per round against the previous round's delta (referenced inside Step
// via RecursionAnchorNode), and iteration stops when a round's Step yields
// no row not already produced by an earlier round. The union of every
// round's rows (deduplicated) is the node's output.
type RecursiveNode struct {
	Seed PlanNode
	Step PlanNode
}

func (RecursiveNode) planNode() {}

// ValuesNode materializes a fixed, literal table of rows under the given
// column names (SPARQL VALUES), used by the recursive operator to stand in
// for RecursionAnchorNode each round, by PropertyPathLowering as the empty
// table for an unrecognized path kind, and available generally to the
// plan builder.
type ValuesNode struct {
	Columns []string
	Rows    [][]model.Term // a nil entry at a row/column means unbound
}

func (ValuesNode) planNode() {}
