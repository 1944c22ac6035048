// Package queryoptimizer implements the rewriting pipeline that lowers a
// logical plan built from SPARQL-specific extension nodes (QuadPatternNode,
// PropertyPathNode, SparqlJoinNode, ExtendNode, MinusNode) into a tree built
// only from the runtime's native relational algebra plus UDF calls. Rules
// run in a fixed order, each visiting the plan bottom-up, mirroring how a
// classical query optimizer's rewrite passes are staged.
package queryoptimizer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/quadfusion/engine/internal/logical"
)

// PlanExplain carries human-readable diagnostics about a generated plan,
// logged and surfaced through the engine's query-explanation API.
type PlanExplain struct {
	InitialPlan string
	RulesApplied []string
}

// Plan is a fully-rewritten logical plan plus its diagnostics, ready to be
// handed to the physical planner.
type Plan struct {
	Root    logical.PlanNode
	Explain PlanExplain
}

// Optimizer applies the rewriting pipeline to a logical plan tree.
type Optimizer struct{}

// New constructs a new Optimizer instance.
func New() *Optimizer {
	return &Optimizer{}
}

type rule struct {
	name string
	fn   func(logical.PlanNode) logical.PlanNode
}

// rules runs in the order the component design lays out: join reordering
// first (it only needs to see SparqlJoinNode boundaries), MINUS and BIND
// lowering next, then property paths (which themselves introduce new
// joins and unions for SparqlJoinLowering to pick up), then the native
// join/pattern lowering, and finally constant folding over whatever
// expressions survived.
var rules = []rule{
	{"SparqlJoinReordering", reorderSparqlJoins},
	{"MinusLowering", lowerMinus},
	{"ExtendLowering", lowerExtend},
	{"PropertyPathLowering", lowerPropertyPaths},
	{"SparqlJoinLowering", lowerSparqlJoins},
	{"PatternLowering", lowerPatterns},
	{"SimplifySparqlExpressions", simplifyExpressions},
}

// GeneratePlan runs every rewrite rule over root in order and returns the
// resulting plan. The input tree is never mutated in place; every rule
// returns a new tree sharing untouched subtrees with its input.
func (o *Optimizer) GeneratePlan(ctx context.Context, root logical.PlanNode) (*Plan, error) {
	if root == nil {
		return nil, fmt.Errorf("optimizer: input plan cannot be nil")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	explain := PlanExplain{InitialPlan: describe(root)}
	zap.S().Debugw("optimizing logical plan", "initial", explain.InitialPlan)

	plan := root
	for _, r := range rules {
		plan = r.fn(plan)
		explain.RulesApplied = append(explain.RulesApplied, r.name)
	}

	zap.S().Debugw("rewrote logical plan", "rules", explain.RulesApplied)
	return &Plan{Root: plan, Explain: explain}, nil
}

// Describe renders a short, indented outline of a plan tree, the same
// format PlanExplain.InitialPlan uses; the engine facade calls it again
// after optimization to render the optimized/physical plan text for
// QueryExplanation.
func Describe(n logical.PlanNode) string {
	return describe(n)
}

// describe renders a short, indented outline of a plan tree for
// PlanExplain; it is diagnostic only and not parsed by anything.
func describe(n logical.PlanNode) string {
	var b strings.Builder
	describeNode(&b, n, 0)
	return b.String()
}

func describeNode(b *strings.Builder, n logical.PlanNode, depth int) {
	if n == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s%T\n", indent, n)
	for _, child := range children(n) {
		describeNode(b, child, depth+1)
	}
}
