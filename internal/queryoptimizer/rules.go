package queryoptimizer

import (
	"strings"

	"github.com/quadfusion/engine/internal/functions"
	"github.com/quadfusion/engine/internal/logical"
	"github.com/quadfusion/engine/model"
)

// --- 1. SparqlJoinReordering --------------------------------------------

// reorderSparqlJoins swaps an inner SparqlJoinNode's sides when the right
// operand is more selective (more pinned constant positions) than the
// left, so the lowering rules below build the more selective scan first.
// OPTIONAL, MINUS and LATERAL joins are left untouched: their sides are not
// commutative.
func reorderSparqlJoins(root logical.PlanNode) logical.PlanNode {
	return walk(root, func(n logical.PlanNode) logical.PlanNode {
		j, ok := n.(logical.SparqlJoinNode)
		if !ok || j.Type != logical.JoinInner {
			return n
		}
		if boundScore(j.Right) > boundScore(j.Left) {
			j.Left, j.Right = j.Right, j.Left
		}
		return j
	})
}

func boundScore(n logical.PlanNode) int {
	switch v := n.(type) {
	case logical.QuadPatternNode:
		return constCount(v.Subject) + constCount(v.Predicate) + constCount(v.Object)
	case logical.PropertyPathNode:
		return constCount(v.Subject) + constCount(v.Object)
	case logical.SparqlJoinNode:
		if v.Type == logical.JoinInner {
			return boundScore(v.Left) + boundScore(v.Right)
		}
		return 0
	default:
		return 0
	}
}

func constCount(tp logical.TermPattern) int {
	if tp.Kind == logical.PatternConst {
		return 1
	}
	return 0
}

// --- 2. MinusLowering -----------------------------------------------------

// lowerMinus rewrites every MinusNode into a LeftJoin against a
// shadow-renamed copy of the right side, followed by a filter requiring
// every shadow column to be unbound — "no compatible right-hand match".
func lowerMinus(root logical.PlanNode) logical.PlanNode {
	return walk(root, func(n logical.PlanNode) logical.PlanNode {
		m, ok := n.(logical.MinusNode)
		if !ok {
			return n
		}
		return minusToLeftJoinFilter(m.Left, m.Right)
	})
}

// minusToLeftJoinFilter implements the MINUS rewrite shared by MinusNode
// and SparqlJoinNode{Type: JoinMinus}. When the two sides share no
// variable, MINUS removes nothing (SPARQL semantics: compatibility is
// vacuous with no shared variables).
func minusToLeftJoinFilter(left, right logical.PlanNode) logical.PlanNode {
	shared := sharedVars(left, right)
	if len(shared) == 0 {
		return left
	}

	shadowed := right
	var eq []logical.Expr
	var unbound []logical.Expr
	for _, v := range shared {
		shadow := "__minus_" + v + "_" + freshVar()
		shadowed = logical.ExtendNode{Input: shadowed, Var: shadow, Expr: logical.VarExpr{Name: v}}
		eq = append(eq, sameTermCall(logical.VarExpr{Name: v}, logical.VarExpr{Name: shadow}))
		unbound = append(unbound, logical.NotExpr{Operand: boundCall(shadow)})
	}

	join := logical.LeftJoinNode{Left: left, Right: shadowed, Filter: conjoin(eq)}
	return logical.FilterNode{Input: join, Expr: conjoin(unbound)}
}

// --- 3. ExtendLowering ------------------------------------------------

// lowerExtend canonicalizes every BIND expression's function-call names to
// their registered spelling, the only plan-time work left once encoding
// selection (an internal/vectorexec concern) is factored out.
func lowerExtend(root logical.PlanNode) logical.PlanNode {
	return walk(root, func(n logical.PlanNode) logical.PlanNode {
		e, ok := n.(logical.ExtendNode)
		if !ok {
			return n
		}
		e.Expr = canonicalizeCalls(e.Expr)
		return e
	})
}

func canonicalizeCalls(e logical.Expr) logical.Expr {
	switch v := e.(type) {
	case logical.CallExpr:
		args := make([]logical.Expr, len(v.Args))
		for i, a := range v.Args {
			args[i] = canonicalizeCalls(a)
		}
		v.Args = args
		switch strings.ToUpper(v.Func) {
		case "BOUND", "SAMETERM", "COALESCE", "IF":
			v.Func = normalizeFuncName(v.Func)
		default:
			if fn, ok := functions.Lookup(v.Func); ok {
				v.Func = fn.Name
			}
		}
		return v
	case logical.LogicExpr:
		ops := make([]logical.Expr, len(v.Operands))
		for i, o := range v.Operands {
			ops[i] = canonicalizeCalls(o)
		}
		v.Operands = ops
		return v
	case logical.NotExpr:
		v.Operand = canonicalizeCalls(v.Operand)
		return v
	default:
		return e
	}
}

// --- 4. PropertyPathLowering -----------------------------------------

// lowerPropertyPaths replaces every PropertyPathNode with the relational
// tree its path grammar production translates to.
func lowerPropertyPaths(root logical.PlanNode) logical.PlanNode {
	return walk(root, func(n logical.PlanNode) logical.PlanNode {
		p, ok := n.(logical.PropertyPathNode)
		if !ok {
			return n
		}
		return lowerPath(p.ActiveGraph, p.GraphVariable, p.Subject, p.Object, p.Path)
	})
}

func lowerPath(graph model.ActiveGraph, graphVar string, subject, object logical.TermPattern, path logical.PropertyPath) logical.PlanNode {
	switch path.Kind {
	case logical.PathAtom:
		return logical.QuadPatternNode{
			ActiveGraph:   graph,
			GraphVariable: graphVar,
			Subject:       subject,
			Predicate:     logical.Const(path.IRIs[0]),
			Object:        object,
		}

	case logical.PathInverse:
		return lowerPath(graph, graphVar, object, subject, path.Sub[0])

	case logical.PathSequence:
		cur := subject
		var plan logical.PlanNode
		for i, sub := range path.Sub {
			var next logical.TermPattern
			if i == len(path.Sub)-1 {
				next = object
			} else {
				next = logical.Variable(freshVar())
			}
			seg := lowerPath(graph, graphVar, cur, next, sub)
			if plan == nil {
				plan = seg
			} else {
				plan = logical.InnerJoinNode{Left: plan, Right: seg, Keys: []logical.JoinKeyPair{{LeftVar: cur.Var, RightVar: cur.Var}}}
			}
			cur = next
		}
		return plan

	case logical.PathAlternative:
		var u logical.PlanNode
		for _, sub := range path.Sub {
			seg := lowerPath(graph, graphVar, subject, object, sub)
			if u == nil {
				u = seg
			} else {
				u = logical.DistinctNode{Input: logical.UnionNode{Left: u, Right: seg}}
			}
		}
		return u

	case logical.PathOneOrMore:
		anchorVar := freshVar()
		seed := lowerPath(graph, graphVar, subject, object, path.Sub[0])
		step := logical.InnerJoinNode{
			Left:  logical.RecursionAnchorNode{SubjectVar: subject.Var, ObjectVar: anchorVar},
			Right: lowerPath(graph, graphVar, logical.Variable(anchorVar), object, path.Sub[0]),
			Keys:  []logical.JoinKeyPair{{LeftVar: anchorVar, RightVar: anchorVar}},
		}
		return logical.DistinctNode{Input: logical.RecursiveNode{Seed: seed, Step: step}}

	case logical.PathZeroOrMore:
		plus := lowerPath(graph, graphVar, subject, object, logical.PropertyPath{Kind: logical.PathOneOrMore, Sub: path.Sub})
		zero := zeroLengthPaths(graph, graphVar, subject, object)
		return logical.DistinctNode{Input: logical.UnionNode{Left: plus, Right: zero}}

	case logical.PathZeroOrOne:
		one := lowerPath(graph, graphVar, subject, object, path.Sub[0])
		zero := zeroLengthPaths(graph, graphVar, subject, object)
		return logical.DistinctNode{Input: logical.UnionNode{Left: one, Right: zero}}

	case logical.PathNegatedSet:
		predVar := freshVar()
		base := logical.QuadPatternNode{
			ActiveGraph:   graph,
			GraphVariable: graphVar,
			Subject:       subject,
			Predicate:     logical.Variable(predVar),
			Object:        object,
		}
		var eq []logical.Expr
		for _, iri := range path.IRIs {
			eq = append(eq, sameTermCall(logical.VarExpr{Name: predVar}, logical.TermExpr{Term: iri}))
		}
		return logical.FilterNode{Input: base, Expr: logical.NotExpr{Operand: disjoin(eq)}}

	default:
		return logical.ValuesNode{}
	}
}

// zeroLengthPaths builds the set of (subject, object) rows a zero-length
// path contributes: every term x that appears as subject or object of any
// triple in the active graph, bound to both endpoints (filtered down to a
// single value where an endpoint is a constant).
func zeroLengthPaths(graph model.ActiveGraph, graphVar string, subject, object logical.TermPattern) logical.PlanNode {
	xVar := freshVar()
	subjects := logical.ProjectNode{
		Input:   logical.QuadPatternNode{ActiveGraph: graph, GraphVariable: graphVar, Subject: logical.Variable(xVar), Predicate: logical.Variable(freshVar()), Object: logical.Variable(freshVar())},
		Columns: []string{xVar},
	}
	objects := logical.ProjectNode{
		Input:   logical.QuadPatternNode{ActiveGraph: graph, GraphVariable: graphVar, Subject: logical.Variable(freshVar()), Predicate: logical.Variable(freshVar()), Object: logical.Variable(xVar)},
		Columns: []string{xVar},
	}
	var plan logical.PlanNode = logical.DistinctNode{Input: logical.UnionNode{Left: subjects, Right: objects}}
	plan = bindEndpoint(plan, xVar, subject)
	plan = bindEndpoint(plan, xVar, object)
	return plan
}

func bindEndpoint(plan logical.PlanNode, xVar string, tp logical.TermPattern) logical.PlanNode {
	switch tp.Kind {
	case logical.PatternVariable:
		if tp.Var == "" || tp.Var == xVar {
			return plan
		}
		return logical.ExtendNode{Input: plan, Var: tp.Var, Expr: logical.VarExpr{Name: xVar}}
	default: // PatternConst
		return logical.FilterNode{Input: plan, Expr: sameTermCall(logical.VarExpr{Name: xVar}, logical.TermExpr{Term: tp.Term})}
	}
}

// --- 5. SparqlJoinLowering -----------------------------------------------

// lowerSparqlJoins rewrites every remaining SparqlJoinNode into the
// native InnerJoin/LeftJoin the runtime provides, comparing shared
// variables by sameTerm. MINUS-flavored joins share MinusLowering's
// rewrite; LATERAL joins (sub-SELECT dependencies) are lowered as inner
// joins since, by this point in the pipeline, property paths — the only
// producer of genuinely order-dependent lateral joins — have already been
// expanded into concrete trees.
func lowerSparqlJoins(root logical.PlanNode) logical.PlanNode {
	return walk(root, func(n logical.PlanNode) logical.PlanNode {
		j, ok := n.(logical.SparqlJoinNode)
		if !ok {
			return n
		}
		switch j.Type {
		case logical.JoinMinus:
			return minusToLeftJoinFilter(j.Left, j.Right)
		case logical.JoinLeftOuter:
			keys := pairUp(sharedVars(j.Left, j.Right))
			return logical.LeftJoinNode{Left: j.Left, Right: j.Right, Keys: keys, Filter: j.Filter}
		default: // JoinInner, JoinLateral
			keys := pairUp(sharedVars(j.Left, j.Right))
			var out logical.PlanNode = logical.InnerJoinNode{Left: j.Left, Right: j.Right, Keys: keys}
			if j.Filter != nil {
				out = logical.FilterNode{Input: out, Expr: j.Filter}
			}
			return out
		}
	})
}

// --- 6. PatternLowering -------------------------------------------------

// lowerPatterns rewrites every QuadPatternNode: constants become
// equality filters on a fresh internal column, a variable repeated across
// positions becomes a sameTerm filter between the positions' fresh
// columns, and the surviving columns are projected back to their
// caller-visible names.
func lowerPatterns(root logical.PlanNode) logical.PlanNode {
	return walk(root, func(n logical.PlanNode) logical.PlanNode {
		q, ok := n.(logical.QuadPatternNode)
		if !ok {
			return n
		}
		return lowerQuadPattern(q)
	})
}

func lowerQuadPattern(q logical.QuadPatternNode) logical.PlanNode {
	positions := [3]logical.TermPattern{q.Subject, q.Predicate, q.Object}
	var internal [3]logical.TermPattern
	var outVar [3]string
	seen := map[string]string{}
	var filters []logical.Expr

	for i, tp := range positions {
		fresh := freshVar()
		internal[i] = logical.Variable(fresh)
		switch tp.Kind {
		case logical.PatternConst:
			filters = append(filters, sameTermCall(logical.VarExpr{Name: fresh}, logical.TermExpr{Term: tp.Term}))
		case logical.PatternVariable:
			if first, dup := seen[tp.Var]; dup {
				filters = append(filters, sameTermCall(logical.VarExpr{Name: fresh}, logical.VarExpr{Name: first}))
			} else {
				seen[tp.Var] = fresh
				outVar[i] = tp.Var
			}
		}
	}

	base := logical.QuadPatternNode{
		ActiveGraph:   q.ActiveGraph,
		GraphVariable: q.GraphVariable,
		Subject:       internal[0],
		Predicate:     internal[1],
		Object:        internal[2],
		BlankNodeMode: q.BlankNodeMode,
	}

	var plan logical.PlanNode = base
	for _, f := range filters {
		plan = logical.FilterNode{Input: plan, Expr: f}
	}

	var cols []string
	for i := 0; i < 3; i++ {
		if outVar[i] == "" {
			continue
		}
		fresh := internal[i].Var
		if fresh != outVar[i] {
			plan = logical.ExtendNode{Input: plan, Var: outVar[i], Expr: logical.VarExpr{Name: fresh}}
		}
		cols = append(cols, outVar[i])
	}
	if q.GraphVariable != "" {
		cols = append(cols, q.GraphVariable)
	}
	return logical.ProjectNode{Input: plan, Columns: cols}
}

// --- 7. SimplifySparqlExpressions ----------------------------------------

// simplifyExpressions constant-folds Immutable UDF calls over literal
// arguments, elides filters that folded to a literal true, and flattens
// nested COALESCE.
func simplifyExpressions(root logical.PlanNode) logical.PlanNode {
	return walk(root, func(n logical.PlanNode) logical.PlanNode {
		switch v := n.(type) {
		case logical.ExtendNode:
			v.Expr = foldExpr(v.Expr)
			return v
		case logical.FilterNode:
			v.Expr = foldExpr(v.Expr)
			if isTriviallyTrue(v.Expr) {
				return v.Input
			}
			return v
		case logical.LeftJoinNode:
			if v.Filter != nil {
				v.Filter = foldExpr(v.Filter)
			}
			return v
		case logical.SparqlJoinNode:
			if v.Filter != nil {
				v.Filter = foldExpr(v.Filter)
			}
			return v
		default:
			return n
		}
	})
}

func isTriviallyTrue(e logical.Expr) bool {
	te, ok := e.(logical.TermExpr)
	if !ok {
		return false
	}
	v, ok := model.ValueOf(te.Term).Value()
	if !ok || v.Kind != model.ValueBoolean {
		return false
	}
	return v.Bool
}

func foldExpr(e logical.Expr) logical.Expr {
	switch v := e.(type) {
	case logical.CallExpr:
		if strings.EqualFold(v.Func, "COALESCE") {
			var flat []logical.Expr
			for _, a := range v.Args {
				a = foldExpr(a)
				if inner, ok := a.(logical.CallExpr); ok && strings.EqualFold(inner.Func, "COALESCE") {
					flat = append(flat, inner.Args...)
				} else {
					flat = append(flat, a)
				}
			}
			v.Args = flat
			return v
		}

		args := make([]logical.Expr, len(v.Args))
		allConst := true
		for i, a := range v.Args {
			args[i] = foldExpr(a)
			if _, ok := args[i].(logical.TermExpr); !ok {
				allConst = false
			}
		}
		v.Args = args
		if allConst {
			if folded, ok := tryFold(v.Func, args); ok {
				return folded
			}
		}
		return v

	case logical.LogicExpr:
		ops := make([]logical.Expr, len(v.Operands))
		for i, o := range v.Operands {
			ops[i] = foldExpr(o)
		}
		v.Operands = ops
		return v

	case logical.NotExpr:
		v.Operand = foldExpr(v.Operand)
		return v

	default:
		return e
	}
}

func tryFold(name string, args []logical.Expr) (logical.Expr, bool) {
	fn, ok := functions.Lookup(name)
	if !ok || fn.Volatility != functions.Immutable {
		return nil, false
	}
	vals := make([]model.Value, len(args))
	for i, a := range args {
		te, ok := a.(logical.TermExpr)
		if !ok {
			return nil, false
		}
		v, ok := model.ValueOf(te.Term).Value()
		if !ok {
			return nil, false
		}
		vals[i] = v
	}
	res := fn.Call(vals)
	if !res.IsOK() {
		return nil, false
	}
	v, _ := res.Value()
	return logical.TermExpr{Term: model.TermFromValue(v)}, true
}
