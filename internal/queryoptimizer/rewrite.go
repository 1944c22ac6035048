package queryoptimizer

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/quadfusion/engine/internal/logical"
)

var freshCounter uint64

// freshVar mints a variable name guaranteed not to collide with any name a
// caller could have written in query text, used for the intermediate
// bindings rewrite rules introduce (property path hops, dedup columns).
func freshVar() string {
	return fmt.Sprintf("_qo%d", atomic.AddUint64(&freshCounter, 1))
}

// children returns n's immediate PlanNode operands, used by describe to
// render the plan tree.
func children(n logical.PlanNode) []logical.PlanNode {
	switch v := n.(type) {
	case logical.SparqlJoinNode:
		return []logical.PlanNode{v.Left, v.Right}
	case logical.ExtendNode:
		return []logical.PlanNode{v.Input}
	case logical.MinusNode:
		return []logical.PlanNode{v.Left, v.Right}
	case logical.ProjectNode:
		return []logical.PlanNode{v.Input}
	case logical.FilterNode:
		return []logical.PlanNode{v.Input}
	case logical.OrderByNode:
		return []logical.PlanNode{v.Input}
	case logical.SliceNode:
		return []logical.PlanNode{v.Input}
	case logical.DistinctNode:
		return []logical.PlanNode{v.Input}
	case logical.UnionNode:
		return []logical.PlanNode{v.Left, v.Right}
	case logical.InnerJoinNode:
		return []logical.PlanNode{v.Left, v.Right}
	case logical.LeftJoinNode:
		return []logical.PlanNode{v.Left, v.Right}
	case logical.RecursiveNode:
		return []logical.PlanNode{v.Seed, v.Step}
	default:
		return nil
	}
}

// walk applies f to every node of the tree rooted at n, post-order
// (children rewritten before their parent), rebuilding each node with its
// rewritten children. Leaf nodes (QuadPatternNode, PropertyPathNode,
// RecursionAnchorNode, ValuesNode) are simply passed to f.
func walk(n logical.PlanNode, f func(logical.PlanNode) logical.PlanNode) logical.PlanNode {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case logical.SparqlJoinNode:
		v.Left = walk(v.Left, f)
		v.Right = walk(v.Right, f)
		return f(v)
	case logical.ExtendNode:
		v.Input = walk(v.Input, f)
		return f(v)
	case logical.MinusNode:
		v.Left = walk(v.Left, f)
		v.Right = walk(v.Right, f)
		return f(v)
	case logical.ProjectNode:
		v.Input = walk(v.Input, f)
		return f(v)
	case logical.FilterNode:
		v.Input = walk(v.Input, f)
		return f(v)
	case logical.OrderByNode:
		v.Input = walk(v.Input, f)
		return f(v)
	case logical.SliceNode:
		v.Input = walk(v.Input, f)
		return f(v)
	case logical.DistinctNode:
		v.Input = walk(v.Input, f)
		return f(v)
	case logical.UnionNode:
		v.Left = walk(v.Left, f)
		v.Right = walk(v.Right, f)
		return f(v)
	case logical.InnerJoinNode:
		v.Left = walk(v.Left, f)
		v.Right = walk(v.Right, f)
		return f(v)
	case logical.LeftJoinNode:
		v.Left = walk(v.Left, f)
		v.Right = walk(v.Right, f)
		return f(v)
	case logical.RecursiveNode:
		v.Seed = walk(v.Seed, f)
		v.Step = walk(v.Step, f)
		return f(v)
	default:
		// QuadPatternNode, PropertyPathNode, RecursionAnchorNode, ValuesNode.
		return f(n)
	}
}

// collectVars returns every solution variable n's output schema binds.
func collectVars(n logical.PlanNode) map[string]bool {
	out := map[string]bool{}
	collectVarsInto(n, out)
	return out
}

func collectVarsInto(n logical.PlanNode, out map[string]bool) {
	switch v := n.(type) {
	case logical.QuadPatternNode:
		addTermVar(out, v.Subject)
		addTermVar(out, v.Predicate)
		addTermVar(out, v.Object)
		if v.GraphVariable != "" {
			out[v.GraphVariable] = true
		}
	case logical.PropertyPathNode:
		addTermVar(out, v.Subject)
		addTermVar(out, v.Object)
		if v.GraphVariable != "" {
			out[v.GraphVariable] = true
		}
	case logical.SparqlJoinNode:
		collectVarsInto(v.Left, out)
		collectVarsInto(v.Right, out)
	case logical.MinusNode:
		collectVarsInto(v.Left, out)
	case logical.ExtendNode:
		collectVarsInto(v.Input, out)
		out[v.Var] = true
	case logical.ProjectNode:
		for _, c := range v.Columns {
			out[c] = true
		}
	case logical.FilterNode:
		collectVarsInto(v.Input, out)
	case logical.OrderByNode:
		collectVarsInto(v.Input, out)
	case logical.SliceNode:
		collectVarsInto(v.Input, out)
	case logical.DistinctNode:
		collectVarsInto(v.Input, out)
	case logical.UnionNode:
		collectVarsInto(v.Left, out)
		collectVarsInto(v.Right, out)
	case logical.InnerJoinNode:
		collectVarsInto(v.Left, out)
		collectVarsInto(v.Right, out)
	case logical.LeftJoinNode:
		collectVarsInto(v.Left, out)
		collectVarsInto(v.Right, out)
	case logical.RecursiveNode:
		collectVarsInto(v.Seed, out)
	case logical.ValuesNode:
		for _, c := range v.Columns {
			out[c] = true
		}
	}
}

func addTermVar(out map[string]bool, tp logical.TermPattern) {
	if tp.Kind == logical.PatternVariable && tp.Var != "" {
		out[tp.Var] = true
	}
}

// sharedVars returns, in a deterministic order, the variable names bound
// by both left and right's output schemas.
func sharedVars(left, right logical.PlanNode) []string {
	l := collectVars(left)
	r := collectVars(right)
	var out []string
	for v := range l {
		if r[v] {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func pairUp(vars []string) []logical.JoinKeyPair {
	pairs := make([]logical.JoinKeyPair, len(vars))
	for i, v := range vars {
		pairs[i] = logical.JoinKeyPair{LeftVar: v, RightVar: v}
	}
	return pairs
}

// conjoin builds a LogicExpr AND of exprs, or a literal true if exprs is
// empty; disjoin is the OR counterpart defaulting to literal false.
func conjoin(exprs []logical.Expr) logical.Expr {
	if len(exprs) == 0 {
		return logical.TermExpr{Term: trueTerm}
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	return logical.LogicExpr{Op: logical.ExprAnd, Operands: exprs}
}

func disjoin(exprs []logical.Expr) logical.Expr {
	if len(exprs) == 0 {
		return logical.TermExpr{Term: falseTerm}
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	return logical.LogicExpr{Op: logical.ExprOr, Operands: exprs}
}

func sameTermCall(a, b logical.Expr) logical.Expr {
	return logical.CallExpr{Func: "sameTerm", Args: []logical.Expr{a, b}}
}

func boundCall(v string) logical.Expr {
	return logical.CallExpr{Func: "BOUND", Args: []logical.Expr{logical.VarExpr{Name: v}}}
}

// normalizeFuncName upper-cases a scalar function name the way the
// built-in registry keys its entries, except for the handful of operators
// and camelCase built-ins (sameTerm) that are looked up as written.
func normalizeFuncName(name string) string {
	switch strings.ToUpper(name) {
	case "SAMETERM":
		return "sameTerm"
	default:
		return strings.ToUpper(name)
	}
}
