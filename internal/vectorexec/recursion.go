package vectorexec

import (
	"context"

	"github.com/quadfusion/engine/internal/enginecore"
	"github.com/quadfusion/engine/internal/logical"
	"github.com/quadfusion/engine/internal/results"
	"github.com/quadfusion/engine/model"
)

// recursiveOperator evaluates a RecursiveNode by semi-naive fixed-point
// iteration: Seed supplies the first round's results, and each following
// round substitutes the previous round's new rows (the "delta") for
// every RecursionAnchorNode occurrence in Step, stopping once a round
// produces no row not already seen. Property paths only ever recurse
// over a finite term universe, so this always terminates.
type recursiveOperator struct {
	seed logical.PlanNode
	step logical.PlanNode
	c    *compiler
	size int

	materialized bool
	buffered     *bufferedOperator
}

func (c *compiler) compileRecursive(n logical.RecursiveNode) (Operator, error) {
	return &recursiveOperator{seed: n.Seed, step: n.Step, c: c, size: c.opts.BatchSize}, nil
}

func (op *recursiveOperator) materialize(ctx context.Context) error {
	anchor, ok := findAnchor(op.step)
	if !ok {
		return enginecore.NewPlanError(enginecore.ErrCodePlanNotLowered, "vectorexec: RecursiveNode.Step contains no RecursionAnchorNode")
	}

	seedOp, err := op.c.compile(op.seed)
	if err != nil {
		return err
	}
	seedRows, err := drainAll(ctx, seedOp)
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(seedRows))
	var all []results.QuerySolution
	for _, r := range seedRows {
		k := solutionKey(r)
		if !seen[k] {
			seen[k] = true
			all = append(all, r)
		}
	}

	frontier := frontierPairs(seedRows, anchor)
	for len(frontier) > 0 {
		values := logical.ValuesNode{Columns: []string{anchor.SubjectVar, anchor.ObjectVar}, Rows: frontier}
		stepPlan := substituteAnchor(op.step, values)
		stepOp, err := op.c.compile(stepPlan)
		if err != nil {
			return err
		}
		rows, err := drainAll(ctx, stepOp)
		if err != nil {
			return err
		}

		var delta []results.QuerySolution
		for _, r := range rows {
			k := solutionKey(r)
			if seen[k] {
				continue
			}
			seen[k] = true
			delta = append(delta, r)
			all = append(all, r)
		}
		frontier = frontierPairs(delta, anchor)
	}

	op.buffered = &bufferedOperator{rows: all, size: op.size}
	op.materialized = true
	return nil
}

// frontierPairs projects rows onto (SubjectVar, <the new endpoint var>)
// pairs for the next round's anchor substitution. The new endpoint is
// whichever bound variable in the row is neither SubjectVar nor
// ObjectVar — the one additional binding a single hop step introduces.
func frontierPairs(rows []results.QuerySolution, anchor logical.RecursionAnchorNode) [][]model.Term {
	var out [][]model.Term
	for _, r := range rows {
		s, ok := r.Get(anchor.SubjectVar)
		if !ok {
			continue
		}
		var endpoint model.Term
		found := false
		for name, t := range r.Bindings {
			if name == anchor.SubjectVar || name == anchor.ObjectVar {
				continue
			}
			endpoint, found = t, true
			break
		}
		if found {
			out = append(out, []model.Term{s, endpoint})
		}
	}
	return out
}

func findAnchor(n logical.PlanNode) (logical.RecursionAnchorNode, bool) {
	if n == nil {
		return logical.RecursionAnchorNode{}, false
	}
	if a, ok := n.(logical.RecursionAnchorNode); ok {
		return a, true
	}
	for _, child := range planChildren(n) {
		if a, ok := findAnchor(child); ok {
			return a, true
		}
	}
	return logical.RecursionAnchorNode{}, false
}

// substituteAnchor returns a copy of n with every RecursionAnchorNode
// replaced by values.
func substituteAnchor(n logical.PlanNode, values logical.ValuesNode) logical.PlanNode {
	switch v := n.(type) {
	case logical.RecursionAnchorNode:
		return values
	case logical.InnerJoinNode:
		v.Left = substituteAnchor(v.Left, values)
		v.Right = substituteAnchor(v.Right, values)
		return v
	case logical.LeftJoinNode:
		v.Left = substituteAnchor(v.Left, values)
		v.Right = substituteAnchor(v.Right, values)
		return v
	case logical.UnionNode:
		v.Left = substituteAnchor(v.Left, values)
		v.Right = substituteAnchor(v.Right, values)
		return v
	case logical.FilterNode:
		v.Input = substituteAnchor(v.Input, values)
		return v
	case logical.ExtendNode:
		v.Input = substituteAnchor(v.Input, values)
		return v
	case logical.ProjectNode:
		v.Input = substituteAnchor(v.Input, values)
		return v
	case logical.DistinctNode:
		v.Input = substituteAnchor(v.Input, values)
		return v
	case logical.OrderByNode:
		v.Input = substituteAnchor(v.Input, values)
		return v
	case logical.SliceNode:
		v.Input = substituteAnchor(v.Input, values)
		return v
	default:
		return n
	}
}

// planChildren lists n's direct plan-node children, used to search a
// plan tree for a RecursionAnchorNode without yet knowing its shape.
func planChildren(n logical.PlanNode) []logical.PlanNode {
	switch v := n.(type) {
	case logical.InnerJoinNode:
		return []logical.PlanNode{v.Left, v.Right}
	case logical.LeftJoinNode:
		return []logical.PlanNode{v.Left, v.Right}
	case logical.UnionNode:
		return []logical.PlanNode{v.Left, v.Right}
	case logical.FilterNode:
		return []logical.PlanNode{v.Input}
	case logical.ExtendNode:
		return []logical.PlanNode{v.Input}
	case logical.ProjectNode:
		return []logical.PlanNode{v.Input}
	case logical.DistinctNode:
		return []logical.PlanNode{v.Input}
	case logical.OrderByNode:
		return []logical.PlanNode{v.Input}
	case logical.SliceNode:
		return []logical.PlanNode{v.Input}
	default:
		return nil
	}
}

func (op *recursiveOperator) Next(ctx context.Context) (*Batch, error) {
	if !op.materialized {
		if err := op.materialize(ctx); err != nil {
			return nil, err
		}
	}
	return op.buffered.Next(ctx)
}

func (op *recursiveOperator) Close() error { return nil }
