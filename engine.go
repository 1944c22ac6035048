package quadfusion

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/quadfusion/engine/internal/logical"
	"github.com/quadfusion/engine/internal/queryoptimizer"
	"github.com/quadfusion/engine/internal/vectorexec"
	"github.com/quadfusion/engine/model"
)

// Engine is the session facade a caller embeds: it wires a QuadStorage
// backend, a Config, the rewriting pipeline, and the vectorized
// executor behind execute_query/contains/quads_for_pattern/len/storage,
// mirroring forma's root storage.go facade over its entity manager.
// Engine owns no storage lifecycle of its own — the caller constructs a
// concrete QuadStorage (internal/memstore.New(), a Postgres-backed one
// from internal/pgstore, …) and passes it to NewEngine, the same
// dependency-injection shape factory.New uses to avoid this root
// package importing any storage backend directly.
type Engine struct {
	storage QuadStorage
	cfg     *Config
	opt     *queryoptimizer.Optimizer
	log     *zap.SugaredLogger
}

// NewEngine wires a pre-constructed storage backend into an Engine,
// the Go shape of spec's `new_with_storage(config, storage) → Engine`.
func NewEngine(cfg *Config, storage QuadStorage) (*Engine, error) {
	if storage == nil {
		return nil, NewConfigError("engine: storage cannot be nil")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		storage: storage,
		cfg:     cfg,
		opt:     queryoptimizer.New(),
		log:     zap.S().Named("engine"),
	}, nil
}

// QueryRequest is the "query" argument to ExecuteQuery: an
// already-built algebra tree (SPARQL text parsing is an external
// collaborator's job, not this module's) plus the result form it is
// expected to produce.
type QueryRequest struct {
	Algebra queryoptimizer.Algebra
	Form    ResultForm

	// ConstructTemplate instantiates one Triple per matching solution
	// when Form is ResultFormTriples; a template triple referencing an
	// unbound variable is dropped for that solution, and blank nodes in
	// the template are freshly relabeled per solution, per CONSTRUCT's
	// scoping rule.
	ConstructTemplate []queryoptimizer.TriplePattern
}

// QueryOptions carries per-execution knobs that do not belong in the
// algebra tree itself.
type QueryOptions struct {
	// InitialBindings seeds every solution with externally-supplied
	// values before the query runs (the protocol-level "BINDINGS"
	// mechanism some SPARQL endpoints expose above this engine).
	InitialBindings QuerySolution
}

// QueryExplanation reports planning diagnostics: spec.md §6.1 asks for
// planning time, the initial logical plan, the optimized logical plan,
// and the physical plan, all printable. This architecture compiles the
// optimized logical plan directly to physical operators with no
// separate physical-planning pass, so OptimizedPlan and PhysicalPlan
// render the same tree; they are kept as distinct fields because a
// future physical planner (join algorithm choice, partitioning) would
// only need to change PhysicalPlan's source, not this type.
type QueryExplanation struct {
	PlanningTime  time.Duration
	InitialPlan   string
	OptimizedPlan string
	PhysicalPlan  string
	RulesApplied  []string
}

// ExecuteQuery normalizes req.Algebra, runs the rewriting pipeline, and
// executes the result against e's storage, returning a buffered
// QueryResult plus an explanation of how the plan was derived.
func (e *Engine) ExecuteQuery(ctx context.Context, req QueryRequest, opts QueryOptions) (QueryResult, QueryExplanation, error) {
	start := time.Now()

	initial, err := queryoptimizer.NormalizeQuery(req.Algebra)
	if err != nil {
		return QueryResult{}, QueryExplanation{}, NewParseError(err.Error())
	}

	plan, err := e.opt.GeneratePlan(ctx, initial)
	if err != nil {
		return QueryResult{}, QueryExplanation{}, NewPlanError(ErrCodeInternal, err.Error())
	}

	explain := QueryExplanation{
		InitialPlan:   plan.Explain.InitialPlan,
		OptimizedPlan: queryoptimizer.Describe(plan.Root),
		PhysicalPlan:  queryoptimizer.Describe(plan.Root),
		RulesApplied:  plan.Explain.RulesApplied,
	}

	explain.PlanningTime = time.Since(start)

	rows, err := vectorexec.Run(ctx, withInitialBindings(plan.Root, opts.InitialBindings), e.storage, e.cfg)
	if err != nil {
		return QueryResult{}, explain, err
	}

	result, err := assembleResult(req, rows)
	if err != nil {
		return QueryResult{}, explain, err
	}
	e.log.Debugw("executed query", "form", req.Form, "rows", len(rows), "planningTime", explain.PlanningTime)
	return result, explain, nil
}

// withInitialBindings wraps root in an InnerJoinNode against a
// single-row ValuesNode when the caller supplied bindings, so every
// downstream operator sees them as already-bound variables.
func withInitialBindings(root logical.PlanNode, bindings QuerySolution) logical.PlanNode {
	if len(bindings.Bindings) == 0 {
		return root
	}
	cols := make([]string, 0, len(bindings.Bindings))
	row := make([]model.Term, 0, len(bindings.Bindings))
	for name, term := range bindings.Bindings {
		cols = append(cols, name)
		row = append(row, term)
	}
	values := logical.ValuesNode{Columns: cols, Rows: [][]model.Term{row}}
	keys := make([]logical.JoinKeyPair, len(cols))
	for i, c := range cols {
		keys[i] = logical.JoinKeyPair{LeftVar: c, RightVar: c}
	}
	return logical.InnerJoinNode{Left: values, Right: root, Keys: keys}
}

func assembleResult(req QueryRequest, rows []QuerySolution) (QueryResult, error) {
	switch req.Form {
	case ResultFormBoolean:
		return QueryResult{Form: ResultFormBoolean, Boolean: len(rows) > 0}, nil
	case ResultFormTriples:
		triples, err := constructTriples(req.ConstructTemplate, rows)
		if err != nil {
			return QueryResult{}, err
		}
		return QueryResult{Form: ResultFormTriples, Triples: triples}, nil
	default:
		vars := projectedVariables(rows)
		return QueryResult{Form: ResultFormBindings, Variables: vars, Solutions: rows}, nil
	}
}

// projectedVariables collects the union of bound variable names across
// rows, ordered by the first row that binds each name; names first bound
// in the same row come in map iteration order, which is not fixed.
// assembleResult uses it for the Variables of every Bindings-form result.
func projectedVariables(rows []QuerySolution) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		for name := range r.Bindings {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

// constructTriples instantiates template against every row, skipping a
// template triple for a row where any referenced variable is unbound,
// and giving each row's own blank-node labels a solution-scoped rename
// so the same label reused across solutions doesn't merge unrelated
// blank nodes.
func constructTriples(template []queryoptimizer.TriplePattern, rows []QuerySolution) ([]Triple, error) {
	var out []Triple
	for _, row := range rows {
		relabel := make(map[string]model.Term)
		for _, tp := range template {
			s, ok := instantiate(tp.Subject, row, relabel)
			if !ok {
				continue
			}
			p, ok := instantiate(tp.Predicate, row, relabel)
			if !ok || !p.IsNamedNode() {
				continue
			}
			o, ok := instantiate(tp.Object, row, relabel)
			if !ok {
				continue
			}
			out = append(out, Triple{Subject: s, Predicate: p, Object: o})
		}
	}
	return out, nil
}

func instantiate(tp logical.TermPattern, row QuerySolution, relabel map[string]model.Term) (model.Term, bool) {
	if tp.Kind == logical.PatternConst {
		if tp.Term.IsBlankNode() {
			return relabelBlank(tp.Term, relabel), true
		}
		return tp.Term, true
	}
	t, ok := row.Get(tp.Var)
	return t, ok
}

func relabelBlank(t model.Term, relabel map[string]model.Term) model.Term {
	if fresh, ok := relabel[t.BlankNodeLabel()]; ok {
		return fresh
	}
	fresh := model.NewBlankNode(NewBlankNodeLabel())
	relabel[t.BlankNodeLabel()] = fresh
	return fresh
}

// Contains reports whether q is currently present in storage.
func (e *Engine) Contains(ctx context.Context, q model.Quad) (bool, error) {
	return e.storage.ContainsQuad(ctx, q)
}

// QuadsForPattern is the low-level scan spec.md §6.1 exposes directly,
// bypassing the query pipeline entirely.
func (e *Engine) QuadsForPattern(ctx context.Context, pattern model.QuadPattern) (QuadIterator, error) {
	return e.storage.QuadsForPattern(ctx, pattern)
}

// Len returns the total number of quads across all graphs.
func (e *Engine) Len(ctx context.Context) (int64, error) {
	return e.storage.Len(ctx)
}

// Storage returns e's mutation handle.
func (e *Engine) Storage() *StorageHandle {
	return &StorageHandle{storage: e.storage, log: e.log.Named("storage")}
}

// Metadata reports e's current state for introspection.
func (e *Engine) Metadata(ctx context.Context) (EngineMetadata, error) {
	n, err := e.storage.Len(ctx)
	if err != nil {
		return EngineMetadata{}, err
	}
	graphs, err := e.storage.NamedGraphs(ctx)
	if err != nil {
		return EngineMetadata{}, err
	}
	return EngineMetadata{
		Version:        EngineVersion,
		StorageBackend: e.cfg.Storage.Backend,
		QuadCount:      n,
		NamedGraphs:    len(graphs),
	}, nil
}
