package vectorexec

import (
	"context"

	"github.com/quadfusion/engine/internal/logical"
	"github.com/quadfusion/engine/internal/results"
)

// hashTable buckets materialized right-hand rows by the join key formed
// from JoinKeyPair.RightVar values, in Keys order; a row missing one of
// those bindings goes in the "unkeyed" bucket and is probed against
// every left row the slow way, since it cannot be found by key lookup.
type hashTable struct {
	buckets map[string][]results.QuerySolution
	unkeyed []results.QuerySolution
	keys    []logical.JoinKeyPair
}

func buildHashTable(rows []results.QuerySolution, keys []logical.JoinKeyPair) *hashTable {
	h := &hashTable{buckets: make(map[string][]results.QuerySolution), keys: keys}
	for _, row := range rows {
		k, ok := keyOf(row, rightVars(keys))
		if !ok {
			h.unkeyed = append(h.unkeyed, row)
			continue
		}
		h.buckets[k] = append(h.buckets[k], row)
	}
	return h
}

func rightVars(keys []logical.JoinKeyPair) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.RightVar
	}
	return out
}

func leftVars(keys []logical.JoinKeyPair) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.LeftVar
	}
	return out
}

func keyOf(sol results.QuerySolution, vars []string) (string, bool) {
	key := ""
	for _, v := range vars {
		t, ok := sol.Get(v)
		if !ok {
			return "", false
		}
		key += t.String() + "\x1f"
	}
	return key, true
}

// candidates returns every right row that could possibly join with
// left: the matching bucket (if left's key columns are all bound) plus
// every unkeyed right row.
func (h *hashTable) candidates(left results.QuerySolution) []results.QuerySolution {
	out := append([]results.QuerySolution(nil), h.unkeyed...)
	if k, ok := keyOf(left, leftVars(h.keys)); ok {
		out = append(out, h.buckets[k]...)
	} else {
		for _, rows := range h.buckets {
			out = append(out, rows...)
		}
	}
	return out
}

// merge combines left and right into one solution if every variable
// shared between them agrees, returning the merged solution and true,
// or the zero value and false on a conflict.
func merge(left, right results.QuerySolution) (results.QuerySolution, bool) {
	out := left
	for name, rt := range right.Bindings {
		if lt, ok := out.Get(name); ok {
			if !lt.SameTerm(rt) {
				return results.QuerySolution{}, false
			}
			continue
		}
		out = out.With(name, rt)
	}
	return out, true
}

type innerJoinOperator struct {
	left  Operator
	right Operator
	keys  []logical.JoinKeyPair

	built bool
	table *hashTable
	size  int

	pending []results.QuerySolution
}

func (c *compiler) compileInnerJoin(n logical.InnerJoinNode) (Operator, error) {
	left, err := c.compile(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.compile(n.Right)
	if err != nil {
		return nil, err
	}
	return &innerJoinOperator{left: left, right: right, keys: n.Keys, size: c.opts.BatchSize}, nil
}

func (op *innerJoinOperator) ensureBuilt(ctx context.Context) error {
	if op.built {
		return nil
	}
	rows, err := drainAll(ctx, op.right)
	if err != nil {
		return err
	}
	op.table = buildHashTable(rows, op.keys)
	op.built = true
	return nil
}

func (op *innerJoinOperator) Next(ctx context.Context) (*Batch, error) {
	if err := op.ensureBuilt(ctx); err != nil {
		return nil, err
	}
	for {
		for len(op.pending) > 0 && len(op.pending) >= op.size {
			out := op.pending[:op.size]
			op.pending = op.pending[op.size:]
			return &Batch{Rows: out}, nil
		}
		in, err := op.left.Next(ctx)
		if err != nil {
			return nil, err
		}
		if in == nil {
			break
		}
		for _, l := range in.Rows {
			for _, r := range op.table.candidates(l) {
				if merged, ok := merge(l, r); ok {
					op.pending = append(op.pending, merged)
				}
			}
		}
	}
	if len(op.pending) == 0 {
		return nil, nil
	}
	out := op.pending
	op.pending = nil
	return &Batch{Rows: out}, nil
}

func (op *innerJoinOperator) Close() error {
	lerr := op.left.Close()
	rerr := op.right.Close()
	if lerr != nil {
		return lerr
	}
	return rerr
}

type leftJoinOperator struct {
	left  Operator
	right Operator
	keys  []logical.JoinKeyPair
	filt  logical.Expr

	built bool
	table *hashTable
	size  int

	pending []results.QuerySolution
}

func (c *compiler) compileLeftJoin(n logical.LeftJoinNode) (Operator, error) {
	left, err := c.compile(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.compile(n.Right)
	if err != nil {
		return nil, err
	}
	return &leftJoinOperator{left: left, right: right, keys: n.Keys, filt: n.Filter, size: c.opts.BatchSize}, nil
}

func (op *leftJoinOperator) ensureBuilt(ctx context.Context) error {
	if op.built {
		return nil
	}
	rows, err := drainAll(ctx, op.right)
	if err != nil {
		return err
	}
	op.table = buildHashTable(rows, op.keys)
	op.built = true
	return nil
}

func (op *leftJoinOperator) Next(ctx context.Context) (*Batch, error) {
	if err := op.ensureBuilt(ctx); err != nil {
		return nil, err
	}
	for {
		if len(op.pending) >= op.size {
			out := op.pending[:op.size]
			op.pending = op.pending[op.size:]
			return &Batch{Rows: out}, nil
		}
		in, err := op.left.Next(ctx)
		if err != nil {
			return nil, err
		}
		if in == nil {
			break
		}
		for _, l := range in.Rows {
			matched := false
			for _, r := range op.table.candidates(l) {
				merged, ok := merge(l, r)
				if !ok {
					continue
				}
				if op.filt != nil && !rowPasses(op.filt, merged) {
					continue
				}
				op.pending = append(op.pending, merged)
				matched = true
			}
			if !matched {
				op.pending = append(op.pending, l)
			}
		}
	}
	if len(op.pending) == 0 {
		return nil, nil
	}
	out := op.pending
	op.pending = nil
	return &Batch{Rows: out}, nil
}

func (op *leftJoinOperator) Close() error {
	lerr := op.left.Close()
	rerr := op.right.Close()
	if lerr != nil {
		return lerr
	}
	return rerr
}

type unionOperator struct {
	left, right Operator
	doneLeft    bool
}

func (c *compiler) compileUnion(n logical.UnionNode) (Operator, error) {
	left, err := c.compile(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.compile(n.Right)
	if err != nil {
		return nil, err
	}
	return &unionOperator{left: left, right: right}, nil
}

func (op *unionOperator) Next(ctx context.Context) (*Batch, error) {
	if !op.doneLeft {
		b, err := op.left.Next(ctx)
		if err != nil {
			return nil, err
		}
		if b != nil {
			return b, nil
		}
		op.doneLeft = true
	}
	return op.right.Next(ctx)
}

func (op *unionOperator) Close() error {
	lerr := op.left.Close()
	rerr := op.right.Close()
	if lerr != nil {
		return lerr
	}
	return rerr
}
