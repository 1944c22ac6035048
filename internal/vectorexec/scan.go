package vectorexec

import (
	"context"

	"github.com/quadfusion/engine/internal/enginecore"
	"github.com/quadfusion/engine/internal/logical"
	"github.com/quadfusion/engine/internal/results"
	"github.com/quadfusion/engine/model"
)

// scanOperator pulls quads matching a single QuadPatternNode from
// storage and binds one output column per distinct variable among
// subject/predicate/object/graph, applying any multi-graph ActiveGraph
// filtering storage itself could not narrow with a single GraphName.
type scanOperator struct {
	node    logical.QuadPatternNode
	storage enginecore.QuadStorage
	opts    Options

	it      enginecore.QuadIterator
	started bool
	y       yielder
}

func (c *compiler) compileScan(n logical.QuadPatternNode) (Operator, error) {
	return &scanOperator{node: n, storage: c.storage, opts: c.opts, y: yielder{every: c.opts.YieldEvery}}, nil
}

func (op *scanOperator) ensureStarted(ctx context.Context) error {
	if op.started {
		return nil
	}
	op.started = true
	pattern := model.QuadPattern{}
	if op.node.Subject.Kind == logical.PatternConst {
		t := op.node.Subject.Term
		pattern.Subject = &t
	}
	if op.node.Predicate.Kind == logical.PatternConst {
		t := op.node.Predicate.Term
		pattern.Predicate = &t
	}
	if op.node.Object.Kind == logical.PatternConst {
		t := op.node.Object.Term
		pattern.Object = &t
	}
	if g := op.node.ActiveGraph.GraphNamePattern(); g != nil {
		pattern.GraphName = g
	}
	it, err := op.storage.QuadsForPattern(ctx, pattern)
	if err != nil {
		return err
	}
	op.it = it
	return nil
}

func (op *scanOperator) Next(ctx context.Context) (*Batch, error) {
	if err := op.ensureStarted(ctx); err != nil {
		return nil, err
	}
	var rows []results.QuerySolution
	for len(rows) < op.opts.BatchSize {
		ok, err := op.it.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		q := op.it.Quad()
		if !op.node.ActiveGraph.Includes(q.GraphName) {
			continue
		}
		if err := op.y.tick(ctx); err != nil {
			return nil, err
		}
		sol := results.NewQuerySolution()
		if op.node.Subject.Kind == logical.PatternVariable {
			sol = sol.With(op.node.Subject.Var, q.Subject)
		}
		if op.node.Predicate.Kind == logical.PatternVariable {
			sol = sol.With(op.node.Predicate.Var, q.Predicate)
		}
		if op.node.Object.Kind == logical.PatternVariable {
			sol = sol.With(op.node.Object.Var, q.Object)
		}
		if op.node.GraphVariable != "" {
			sol = sol.With(op.node.GraphVariable, q.GraphName)
		}
		rows = append(rows, sol)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &Batch{Rows: rows}, nil
}

func (op *scanOperator) Close() error {
	if op.it != nil {
		return op.it.Close()
	}
	return nil
}
