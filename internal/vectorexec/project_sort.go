package vectorexec

import (
	"context"
	"fmt"
	"sort"

	"github.com/quadfusion/engine/internal/logical"
	"github.com/quadfusion/engine/internal/results"
	"github.com/quadfusion/engine/model"
)

type projectOperator struct {
	input   Operator
	columns []string
}

func (c *compiler) compileProject(n logical.ProjectNode) (Operator, error) {
	input, err := c.compile(n.Input)
	if err != nil {
		return nil, err
	}
	return &projectOperator{input: input, columns: n.Columns}, nil
}

func (op *projectOperator) Next(ctx context.Context) (*Batch, error) {
	in, err := op.input.Next(ctx)
	if err != nil {
		return nil, err
	}
	if in == nil {
		return nil, nil
	}
	out := make([]results.QuerySolution, len(in.Rows))
	for i, sol := range in.Rows {
		proj := results.NewQuerySolution()
		for _, c := range op.columns {
			if t, ok := sol.Get(c); ok {
				proj = proj.With(c, t)
			}
		}
		out[i] = proj
	}
	return &Batch{Rows: out}, nil
}

func (op *projectOperator) Close() error { return op.input.Close() }

// drainAll pulls every batch from op into a single slice; used by the
// whole-result operators (ORDER BY, DISTINCT, LIMIT/OFFSET) that cannot
// make a decision about one row without seeing the others.
func drainAll(ctx context.Context, op Operator) ([]results.QuerySolution, error) {
	var all []results.QuerySolution
	for {
		b, err := op.Next(ctx)
		if err != nil {
			return nil, err
		}
		if b == nil {
			return all, nil
		}
		all = append(all, b.Rows...)
	}
}

// bufferedOperator serves pre-materialized rows back out in BatchSize
// chunks, the shape every whole-result operator reduces to after it has
// drained and processed its input once.
type bufferedOperator struct {
	rows []results.QuerySolution
	pos  int
	size int
}

func (op *bufferedOperator) Next(ctx context.Context) (*Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if op.pos >= len(op.rows) {
		return nil, nil
	}
	end := op.pos + op.size
	if end > len(op.rows) {
		end = len(op.rows)
	}
	batch := &Batch{Rows: op.rows[op.pos:end]}
	op.pos = end
	return batch, nil
}

func (op *bufferedOperator) Close() error { return nil }

type orderByOperator struct {
	input Operator
	keys  []logical.OrderKey
	size  int

	materialized bool
	buffered     *bufferedOperator
}

func (c *compiler) compileOrderBy(n logical.OrderByNode) (Operator, error) {
	input, err := c.compile(n.Input)
	if err != nil {
		return nil, err
	}
	return &orderByOperator{input: input, keys: n.Keys, size: c.opts.BatchSize}, nil
}

func (op *orderByOperator) materialize(ctx context.Context) error {
	rows, err := drainAll(ctx, op.input)
	if err != nil {
		return err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return op.less(rows[i], rows[j])
	})
	op.buffered = &bufferedOperator{rows: rows, size: op.size}
	op.materialized = true
	return nil
}

func (op *orderByOperator) less(a, b results.QuerySolution) bool {
	for _, k := range op.keys {
		ra := logical.Eval(k.Expr, a)
		rb := logical.Eval(k.Expr, b)
		// An unbound/erroring key sorts before a defined one in
		// ascending order and after it in descending order: it takes
		// the lowest position in SPARQL's ORDER BY order.
		if !ra.IsOK() && !rb.IsOK() {
			continue
		}
		if !ra.IsOK() {
			return !k.Desc
		}
		if !rb.IsOK() {
			return k.Desc
		}
		va, _ := ra.Value()
		vb, _ := rb.Value()
		cmp := model.Compare(va, vb)
		if !cmp.IsOK() {
			continue
		}
		ord, _ := cmp.Value()
		if ord == model.Equal {
			continue
		}
		if k.Desc {
			return ord == model.Greater
		}
		return ord == model.Less
	}
	return false
}

func (op *orderByOperator) Next(ctx context.Context) (*Batch, error) {
	if !op.materialized {
		if err := op.materialize(ctx); err != nil {
			return nil, err
		}
	}
	return op.buffered.Next(ctx)
}

func (op *orderByOperator) Close() error { return op.input.Close() }

type sliceOperator struct {
	input  Operator
	offset int
	limit  int
	size   int

	materialized bool
	buffered     *bufferedOperator
}

func (c *compiler) compileSlice(n logical.SliceNode) (Operator, error) {
	input, err := c.compile(n.Input)
	if err != nil {
		return nil, err
	}
	return &sliceOperator{input: input, offset: n.Offset, limit: n.Limit, size: c.opts.BatchSize}, nil
}

func (op *sliceOperator) Next(ctx context.Context) (*Batch, error) {
	if !op.materialized {
		rows, err := drainAll(ctx, op.input)
		if err != nil {
			return nil, err
		}
		if op.offset > 0 {
			if op.offset >= len(rows) {
				rows = nil
			} else {
				rows = rows[op.offset:]
			}
		}
		if op.limit >= 0 && op.limit < len(rows) {
			rows = rows[:op.limit]
		}
		op.buffered = &bufferedOperator{rows: rows, size: op.size}
		op.materialized = true
	}
	return op.buffered.Next(ctx)
}

func (op *sliceOperator) Close() error { return op.input.Close() }

type distinctOperator struct {
	input Operator
	size  int

	materialized bool
	buffered     *bufferedOperator
}

func (c *compiler) compileDistinct(n logical.DistinctNode) (Operator, error) {
	input, err := c.compile(n.Input)
	if err != nil {
		return nil, err
	}
	return &distinctOperator{input: input, size: c.opts.BatchSize}, nil
}

func (op *distinctOperator) Next(ctx context.Context) (*Batch, error) {
	if !op.materialized {
		rows, err := drainAll(ctx, op.input)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]bool, len(rows))
		var out []results.QuerySolution
		for _, sol := range rows {
			key := solutionKey(sol)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, sol)
		}
		op.buffered = &bufferedOperator{rows: out, size: op.size}
		op.materialized = true
	}
	return op.buffered.Next(ctx)
}

func (op *distinctOperator) Close() error { return op.input.Close() }

// solutionKey builds a canonical string key for a solution's bindings,
// used for DISTINCT dedup and the recursive operator's seen set. Variable names are
// sorted so binding insertion order never affects the key.
func solutionKey(sol results.QuerySolution) string {
	names := make([]string, 0, len(sol.Bindings))
	for k := range sol.Bindings {
		names = append(names, k)
	}
	sort.Strings(names)
	key := ""
	for _, n := range names {
		t := sol.Bindings[n]
		key += fmt.Sprintf("%s=%s|", n, t.String())
	}
	return key
}
