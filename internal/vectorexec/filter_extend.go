package vectorexec

import (
	"context"

	"github.com/quadfusion/engine/internal/logical"
	"github.com/quadfusion/engine/internal/results"
	"github.com/quadfusion/engine/model"
)

type filterOperator struct {
	input Operator
	expr  logical.Expr
}

func (c *compiler) compileFilter(n logical.FilterNode) (Operator, error) {
	input, err := c.compile(n.Input)
	if err != nil {
		return nil, err
	}
	return &filterOperator{input: input, expr: n.Expr}, nil
}

func (op *filterOperator) Next(ctx context.Context) (*Batch, error) {
	for {
		in, err := op.input.Next(ctx)
		if err != nil {
			return nil, err
		}
		if in == nil {
			return nil, nil
		}
		var out []results.QuerySolution
		for _, sol := range in.Rows {
			if rowPasses(op.expr, sol) {
				out = append(out, sol)
			}
		}
		if len(out) > 0 {
			return &Batch{Rows: out}, nil
		}
	}
}

func (op *filterOperator) Close() error { return op.input.Close() }

// rowPasses applies FILTER's row-exclusion semantics: keep the row only
// if the expression evaluates to a defined true; an unbound variable, a
// type error, or any other Expected/Internal result excludes the row
// rather than aborting the query.
func rowPasses(expr logical.Expr, sol results.QuerySolution) bool {
	r := logical.Eval(expr, sol)
	if !r.IsOK() {
		return false
	}
	v, _ := r.Value()
	ebv := model.EffectiveBooleanValue(v)
	if !ebv.IsOK() {
		return false
	}
	b, _ := ebv.Value()
	return b
}

type extendOperator struct {
	input Operator
	v     string
	expr  logical.Expr
}

func (c *compiler) compileExtend(n logical.ExtendNode) (Operator, error) {
	input, err := c.compile(n.Input)
	if err != nil {
		return nil, err
	}
	return &extendOperator{input: input, v: n.Var, expr: n.Expr}, nil
}

func (op *extendOperator) Next(ctx context.Context) (*Batch, error) {
	in, err := op.input.Next(ctx)
	if err != nil {
		return nil, err
	}
	if in == nil {
		return nil, nil
	}
	out := make([]results.QuerySolution, len(in.Rows))
	for i, sol := range in.Rows {
		r := logical.Eval(op.expr, sol)
		if r.IsOK() {
			v, _ := r.Value()
			sol = sol.With(op.v, model.TermFromValue(v))
		}
		out[i] = sol
	}
	return &Batch{Rows: out}, nil
}

func (op *extendOperator) Close() error { return op.input.Close() }
