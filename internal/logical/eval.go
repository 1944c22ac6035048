package logical

import (
	"strings"

	"github.com/quadfusion/engine/internal/functions"
	"github.com/quadfusion/engine/internal/results"
	"github.com/quadfusion/engine/model"
)

// Eval evaluates an expression tree against a solution's bindings,
// driving internal/functions' built-in registry for CallExpr nodes and
// applying SPARQL's Kleene three-valued logic for AND/OR/NOT. A handful
// of built-ins (BOUND, sameTerm, COALESCE, IF) need the raw solution or
// short-circuit evaluation rather than a plain argument list, so they
// are special-cased here ahead of the generic dispatch.
func Eval(e Expr, sol results.QuerySolution) model.ThinResult[model.Value] {
	switch v := e.(type) {
	case VarExpr:
		t, ok := sol.Get(v.Name)
		if !ok {
			return model.Expected[model.Value]("variable ?%s is unbound", v.Name)
		}
		return model.ValueOf(t)
	case TermExpr:
		return model.ValueOf(v.Term)
	case CallExpr:
		return evalCall(v, sol)
	case LogicExpr:
		return evalLogic(v, sol)
	case NotExpr:
		return evalNot(v, sol)
	default:
		return model.Internal[model.Value]("logical: unknown expression node %T", e)
	}
}

func evalCall(c CallExpr, sol results.QuerySolution) model.ThinResult[model.Value] {
	switch strings.ToUpper(c.Func) {
	case "BOUND":
		return evalBound(c, sol)
	case "SAMETERM":
		return evalSameTerm(c, sol)
	case "COALESCE":
		return evalCoalesce(c, sol)
	case "IF":
		return evalIf(c, sol)
	}

	fn, ok := functions.Lookup(c.Func)
	if !ok {
		return model.Internal[model.Value]("unknown function %q", c.Func)
	}

	args := make([]model.Value, len(c.Args))
	for i, a := range c.Args {
		r := Eval(a, sol)
		if r.IsInternal() {
			return model.Internal[model.Value]("%s", r.Err().Message)
		}
		if r.IsExpected() {
			// a built-in's default behavior propagates Expected when an
			// argument is itself Expected.
			return model.Expected[model.Value]("argument to %s is unbound or invalid", c.Func)
		}
		args[i], _ = r.Value()
	}
	return fn.Call(args)
}

// evalBound implements BOUND(?x) without evaluating ?x's value, since an
// unbound variable must report false, not propagate as an error.
func evalBound(c CallExpr, sol results.QuerySolution) model.ThinResult[model.Value] {
	if len(c.Args) != 1 {
		return model.Internal[model.Value]("BOUND takes exactly one argument")
	}
	v, ok := c.Args[0].(VarExpr)
	if !ok {
		return model.Internal[model.Value]("BOUND argument must be a variable")
	}
	_, bound := sol.Get(v.Name)
	return model.OK(model.Value{Kind: model.ValueBoolean, Bool: bound})
}

// evalSameTerm implements sameTerm(a, b): RDF term identity, distinct
// from the value-equality the generic "=" operator uses.
func evalSameTerm(c CallExpr, sol results.QuerySolution) model.ThinResult[model.Value] {
	if len(c.Args) != 2 {
		return model.Internal[model.Value]("sameTerm takes exactly two arguments")
	}
	ta, err := termOf(c.Args[0], sol)
	if err != nil {
		return *err
	}
	tb, err := termOf(c.Args[1], sol)
	if err != nil {
		return *err
	}
	return model.OK(model.Value{Kind: model.ValueBoolean, Bool: ta.SameTerm(tb)})
}

func termOf(e Expr, sol results.QuerySolution) (model.Term, *model.ThinResult[model.Value]) {
	switch v := e.(type) {
	case VarExpr:
		t, ok := sol.Get(v.Name)
		if !ok {
			r := model.Expected[model.Value]("variable ?%s is unbound", v.Name)
			return model.Term{}, &r
		}
		return t, nil
	case TermExpr:
		return v.Term, nil
	default:
		r := model.Internal[model.Value]("sameTerm arguments must be variables or constant terms")
		return model.Term{}, &r
	}
}

// evalCoalesce returns the value of the first argument that evaluates
// without error, or Expected if every argument fails.
func evalCoalesce(c CallExpr, sol results.QuerySolution) model.ThinResult[model.Value] {
	for _, a := range c.Args {
		r := Eval(a, sol)
		if r.IsInternal() {
			return r
		}
		if r.IsOK() {
			return r
		}
	}
	return model.Expected[model.Value]("COALESCE: every argument was unbound or invalid")
}

// evalIf implements IF(cond, then, else) using SPARQL's effective
// boolean value coercion on the condition.
func evalIf(c CallExpr, sol results.QuerySolution) model.ThinResult[model.Value] {
	if len(c.Args) != 3 {
		return model.Internal[model.Value]("IF takes exactly three arguments")
	}
	cond := Eval(c.Args[0], sol)
	if cond.IsInternal() {
		return model.Internal[model.Value]("%s", cond.Err().Message)
	}
	if cond.IsExpected() {
		return model.Expected[model.Value]("IF condition is unbound or invalid")
	}
	v, _ := cond.Value()
	ebv := model.EffectiveBooleanValue(v)
	if !ebv.IsOK() {
		return model.Expected[model.Value]("IF condition has no effective boolean value")
	}
	b, _ := ebv.Value()
	if b {
		return Eval(c.Args[1], sol)
	}
	return Eval(c.Args[2], sol)
}

func evalLogic(l LogicExpr, sol results.QuerySolution) model.ThinResult[model.Value] {
	sawError := false
	result := l.Op == ExprAnd // AND starts true, OR starts false
	for _, op := range l.Operands {
		r := Eval(op, sol)
		if r.IsInternal() {
			return model.Internal[model.Value]("%s", r.Err().Message)
		}
		if r.IsExpected() {
			sawError = true
			continue
		}
		v, _ := r.Value()
		ebv := model.EffectiveBooleanValue(v)
		if !ebv.IsOK() {
			sawError = true
			continue
		}
		b, _ := ebv.Value()
		switch l.Op {
		case ExprAnd:
			if !b {
				return model.OK(model.Value{Kind: model.ValueBoolean, Bool: false})
			}
		case ExprOr:
			if b {
				return model.OK(model.Value{Kind: model.ValueBoolean, Bool: true})
			}
		}
	}
	if sawError {
		return model.Expected[model.Value]("logical operator argument was unbound or invalid")
	}
	return model.OK(model.Value{Kind: model.ValueBoolean, Bool: result})
}

func evalNot(n NotExpr, sol results.QuerySolution) model.ThinResult[model.Value] {
	r := Eval(n.Operand, sol)
	if r.IsInternal() {
		return model.Internal[model.Value]("%s", r.Err().Message)
	}
	if r.IsExpected() {
		return model.Expected[model.Value]("NOT operand is unbound or invalid")
	}
	v, _ := r.Value()
	ebv := model.EffectiveBooleanValue(v)
	if !ebv.IsOK() {
		return model.Expected[model.Value]("NOT operand has no effective boolean value")
	}
	b, _ := ebv.Value()
	return model.OK(model.Value{Kind: model.ValueBoolean, Bool: !b})
}
