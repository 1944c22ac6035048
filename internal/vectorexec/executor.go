// Package vectorexec turns an internal/queryoptimizer-rewritten logical
// plan into a running query: a tree of pull-based physical operators that
// stream results.QuerySolution rows in fixed-size batches against an
// enginecore.QuadStorage backend. "Vectorized" here means batched, not
// columnar: operators pull and push whole row batches (sized by
// Config.Query.VectorBatchSize) rather than one row at a time, and check
// for cancellation every Config.Query.CooperativeYieldRows rows so a
// long-running scan or join yields the goroutine back to the caller's
// context on a predictable cadence.
package vectorexec

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/quadfusion/engine/internal/enginecore"
	"github.com/quadfusion/engine/internal/logical"
	"github.com/quadfusion/engine/internal/results"
)

// Batch is a fixed-size (except possibly the last) chunk of solutions
// flowing between operators.
type Batch struct {
	Rows []results.QuerySolution
}

// Operator is a physical pull-based plan operator. Next returns nil, nil
// once exhausted. Implementations must tolerate repeated Close calls.
type Operator interface {
	Next(ctx context.Context) (*Batch, error)
	Close() error
}

// Options configures the batch size and cooperative yield cadence; the
// zero value is replaced with enginecore.DefaultConfig's Query section.
type Options struct {
	BatchSize    int
	YieldEvery   int
	ActiveGraphs func() ([]string, error) // reserved for future cross-graph fan-out; unused by the current operator set
}

func optionsFromConfig(cfg *enginecore.Config) Options {
	if cfg == nil {
		cfg = enginecore.DefaultConfig()
	}
	o := Options{BatchSize: cfg.Query.VectorBatchSize, YieldEvery: cfg.Query.CooperativeYieldRows}
	if o.BatchSize <= 0 {
		o.BatchSize = 4096
	}
	if o.YieldEvery <= 0 {
		o.YieldEvery = 65536
	}
	return o
}

// compiler holds the state threaded through Compile's recursive descent:
// the storage backend every leaf scan reads from, and the batching
// options every operator obeys.
type compiler struct {
	storage enginecore.QuadStorage
	opts    Options
	log     *zap.SugaredLogger
}

// Compile builds a physical operator tree for plan, a logical plan that
// has already been through internal/queryoptimizer.GeneratePlan — the
// SPARQL extension nodes SparqlJoinNode, MinusNode and PropertyPathNode
// (and a RecursionAnchorNode outside a RecursiveNode) must already be
// lowered to the base relational algebra nodes in
// internal/logical/relalg.go. A QuadPatternNode is scanned directly,
// with or without constant positions. Encountering one of those raw
// extension nodes is reported as
// ErrCodePlanNotLowered rather than silently mishandled.
func Compile(plan logical.PlanNode, storage enginecore.QuadStorage, cfg *enginecore.Config) (Operator, error) {
	c := &compiler{storage: storage, opts: optionsFromConfig(cfg), log: zap.S().Named("vectorexec")}
	return c.compile(plan)
}

// Run compiles and drains plan to a single buffered results.QueryResult,
// the convenience path Engine.ExecuteQuery uses for SELECT/ASK.
// CONSTRUCT/DESCRIBE triple materialization happens above this package,
// in the root engine facade, since it needs the query's CONSTRUCT
// template, not just bound variables.
func Run(ctx context.Context, plan logical.PlanNode, storage enginecore.QuadStorage, cfg *enginecore.Config) ([]results.QuerySolution, error) {
	op, err := Compile(plan, storage, cfg)
	if err != nil {
		return nil, err
	}
	defer op.Close()

	var out []results.QuerySolution
	for {
		batch, err := op.Next(ctx)
		if err != nil {
			return nil, err
		}
		if batch == nil {
			return out, nil
		}
		out = append(out, batch.Rows...)
	}
}

func notLowered(n logical.PlanNode) error {
	return enginecore.NewPlanError(enginecore.ErrCodePlanNotLowered,
		fmt.Sprintf("vectorexec: %T must be lowered by internal/queryoptimizer before execution", n))
}

// yielder checks ctx cancellation every Every rows, the cooperative
// scheduling hook Config.Query.CooperativeYieldRows documents.
type yielder struct {
	every int
	count int
}

func (y *yielder) tick(ctx context.Context) error {
	y.count++
	if y.every > 0 && y.count%y.every == 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}
