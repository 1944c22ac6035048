package functions

import (
	"math"
	"strings"

	"github.com/quadfusion/engine/model"
)

// Aggregator folds a stream of per-group values into one result. DISTINCT dedup, if requested by the query, is
// the caller's responsibility — Step sees whatever values it is handed.
type Aggregator interface {
	// Step folds one more value into the running state. An Expected
	// value is simply skipped (SPARQL aggregates ignore unbound rows
	// rather than aborting), matching the teacher's null-skipping
	// reducers.
	Step(v model.ThinResult[model.Value])
	// Finish produces the aggregate's result after all rows are seen.
	Finish() model.ThinResult[model.Value]
}

// AggregateFactory constructs a fresh Aggregator for one GROUP BY group.
type AggregateFactory func() Aggregator

var aggregateRegistry = map[string]AggregateFactory{}

func registerAggregate(name string, f AggregateFactory) {
	aggregateRegistry[strings.ToUpper(name)] = f
}

// LookupAggregate finds a registered aggregate by name, case-insensitively.
func LookupAggregate(name string) (AggregateFactory, bool) {
	f, ok := aggregateRegistry[strings.ToUpper(name)]
	return f, ok
}

func init() {
	registerAggregate("COUNT", newCountAggregator)
	registerAggregate("SUM", newSumAggregator)
	registerAggregate("AVG", newAvgAggregator)
	registerAggregate("MIN", func() Aggregator { return newExtremeAggregator(model.Less) })
	registerAggregate("MAX", func() Aggregator { return newExtremeAggregator(model.Greater) })
	registerAggregate("SAMPLE", newSampleAggregator)
	registerAggregate("GROUP_CONCAT", func() Aggregator { return newGroupConcatAggregator(" ") })
}

// countAggregator implements COUNT(expr) and COUNT(*) (the caller passes
// a constant OK value per row for COUNT(*), since this type has no way
// to distinguish "no argument" from "a bound argument").
type countAggregator struct{ n int64 }

func newCountAggregator() Aggregator { return &countAggregator{} }

func (a *countAggregator) Step(v model.ThinResult[model.Value]) {
	if v.IsOK() {
		a.n++
	}
}

func (a *countAggregator) Finish() model.ThinResult[model.Value] {
	return model.OK(model.Value{Kind: model.ValueNumeric, Numeric: float64(a.n), NumKind: model.NumericInteger})
}

// sumAggregator implements SUM using the value model's numeric promotion
// lattice; any non-numeric row saturates the whole aggregate to Expected.
type sumAggregator struct {
	total   float64
	kind    model.NumericKind
	saw     bool
	invalid bool
}

func newSumAggregator() Aggregator { return &sumAggregator{} }

func (a *sumAggregator) Step(v model.ThinResult[model.Value]) {
	if a.invalid || !v.IsOK() {
		return
	}
	val, _ := v.Value()
	if val.Kind != model.ValueNumeric {
		a.invalid = true
		return
	}
	a.total += val.Numeric
	if !a.saw || val.NumKind > a.kind {
		a.kind = val.NumKind
	}
	a.saw = true
	if math.IsInf(a.total, 0) || math.IsNaN(a.total) {
		a.invalid = true
	}
}

func (a *sumAggregator) Finish() model.ThinResult[model.Value] {
	if a.invalid {
		return model.Expected[model.Value]("SUM: non-numeric operand or overflow")
	}
	if !a.saw {
		return model.OK(model.Value{Kind: model.ValueNumeric, Numeric: 0, NumKind: model.NumericInteger})
	}
	return model.OK(model.Value{Kind: model.ValueNumeric, Numeric: a.total, NumKind: a.kind})
}

// avgAggregator implements AVG as SUM/COUNT over the bound rows only.
type avgAggregator struct {
	sum sumAggregator
	n   int64
}

func newAvgAggregator() Aggregator { return &avgAggregator{} }

func (a *avgAggregator) Step(v model.ThinResult[model.Value]) {
	if v.IsOK() {
		a.n++
	}
	a.sum.Step(v)
}

func (a *avgAggregator) Finish() model.ThinResult[model.Value] {
	r := a.sum.Finish()
	if !r.IsOK() {
		return r
	}
	if a.n == 0 {
		return model.OK(model.Value{Kind: model.ValueNumeric, Numeric: 0, NumKind: model.NumericInteger})
	}
	val, _ := r.Value()
	kind := val.NumKind
	if kind < model.NumericDecimal {
		kind = model.NumericDecimal
	}
	return model.OK(model.Value{Kind: model.ValueNumeric, Numeric: val.Numeric / float64(a.n), NumKind: kind})
}

// extremeAggregator implements MIN/MAX by folding model.Compare across
// every bound row, keeping whichever side the wanted ordering prefers.
// Rows that don't order against the running value (incompatible types)
// are skipped rather than aborting the whole aggregate.
type extremeAggregator struct {
	want model.Ordering
	best model.Value
	saw  bool
}

func newExtremeAggregator(want model.Ordering) Aggregator {
	return &extremeAggregator{want: want}
}

func (a *extremeAggregator) Step(v model.ThinResult[model.Value]) {
	if !v.IsOK() {
		return
	}
	val, _ := v.Value()
	if !a.saw {
		a.best = val
		a.saw = true
		return
	}
	cmp := model.Compare(val, a.best)
	if !cmp.IsOK() {
		return
	}
	ord, _ := cmp.Value()
	if ord == a.want {
		a.best = val
	}
}

func (a *extremeAggregator) Finish() model.ThinResult[model.Value] {
	if !a.saw {
		return model.Expected[model.Value]("aggregate over empty group has no value")
	}
	return model.OK(a.best)
}

// sampleAggregator implements SAMPLE by returning the first bound value
// seen, which satisfies SPARQL's "an arbitrary value from the group"
// contract without needing random access into the group.
type sampleAggregator struct {
	val model.Value
	saw bool
}

func newSampleAggregator() Aggregator { return &sampleAggregator{} }

func (a *sampleAggregator) Step(v model.ThinResult[model.Value]) {
	if a.saw || !v.IsOK() {
		return
	}
	a.val, _ = v.Value()
	a.saw = true
}

func (a *sampleAggregator) Finish() model.ThinResult[model.Value] {
	if !a.saw {
		return model.Expected[model.Value]("aggregate over empty group has no value")
	}
	return model.OK(a.val)
}

// groupConcatAggregator implements GROUP_CONCAT, coercing each bound
// value to its string form via STR semantics and joining with sep.
type groupConcatAggregator struct {
	sep   string
	parts []string
}

func newGroupConcatAggregator(sep string) Aggregator {
	return &groupConcatAggregator{sep: sep}
}

func (a *groupConcatAggregator) Step(v model.ThinResult[model.Value]) {
	if !v.IsOK() {
		return
	}
	val, _ := v.Value()
	a.parts = append(a.parts, lexicalOf(val))
}

func (a *groupConcatAggregator) Finish() model.ThinResult[model.Value] {
	return model.OK(model.Value{Kind: model.ValueString, Text: strings.Join(a.parts, a.sep)})
}
