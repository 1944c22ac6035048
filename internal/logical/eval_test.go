package logical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadfusion/engine/internal/results"
	"github.com/quadfusion/engine/model"
)

func TestEvalVarExprReturnsUnboundAsExpected(t *testing.T) {
	sol := results.NewQuerySolution()
	r := Eval(VarExpr{Name: "x"}, sol)
	assert.True(t, r.IsExpected())
}

func TestEvalVarExprReturnsBoundValue(t *testing.T) {
	sol := results.NewQuerySolution().With("x", model.NewTypedLiteral("5", model.XSDInteger))
	r := Eval(VarExpr{Name: "x"}, sol)
	require.True(t, r.IsOK())
	v, _ := r.Value()
	assert.Equal(t, float64(5), v.Numeric)
}

func TestEvalCallExprDispatchesToRegistry(t *testing.T) {
	sol := results.NewQuerySolution().With("name", model.NewLiteral("hello"))
	e := CallExpr{Func: "STRLEN", Args: []Expr{VarExpr{Name: "name"}}}
	r := Eval(e, sol)
	require.True(t, r.IsOK())
	v, _ := r.Value()
	assert.Equal(t, float64(5), v.Numeric)
}

func TestEvalCallExprPropagatesUnboundArgument(t *testing.T) {
	sol := results.NewQuerySolution()
	e := CallExpr{Func: "STRLEN", Args: []Expr{VarExpr{Name: "missing"}}}
	r := Eval(e, sol)
	assert.True(t, r.IsExpected())
}

func TestEvalBoundReturnsFalseForUnboundWithoutError(t *testing.T) {
	sol := results.NewQuerySolution()
	e := CallExpr{Func: "BOUND", Args: []Expr{VarExpr{Name: "x"}}}
	r := Eval(e, sol)
	require.True(t, r.IsOK())
	v, _ := r.Value()
	assert.False(t, v.Bool)
}

func TestEvalSameTermDistinguishesFromValueEquality(t *testing.T) {
	sol := results.NewQuerySolution()
	e := CallExpr{Func: "sameTerm", Args: []Expr{
		TermExpr{Term: model.NewTypedLiteral("1", model.XSDInteger)},
		TermExpr{Term: model.NewTypedLiteral("1.0", model.XSDDecimal)},
	}}
	r := Eval(e, sol)
	require.True(t, r.IsOK())
	v, _ := r.Value()
	assert.False(t, v.Bool)
}

func TestEvalCoalesceReturnsFirstOK(t *testing.T) {
	sol := results.NewQuerySolution().With("y", model.NewLiteral("found"))
	e := CallExpr{Func: "COALESCE", Args: []Expr{VarExpr{Name: "x"}, VarExpr{Name: "y"}}}
	r := Eval(e, sol)
	require.True(t, r.IsOK())
	v, _ := r.Value()
	assert.Equal(t, "found", v.Text)
}

func TestEvalIfBranchesOnCondition(t *testing.T) {
	sol := results.NewQuerySolution()
	e := CallExpr{Func: "IF", Args: []Expr{
		TermExpr{Term: model.NewTypedLiteral("true", model.XSDBoolean)},
		TermExpr{Term: model.NewLiteral("yes")},
		TermExpr{Term: model.NewLiteral("no")},
	}}
	r := Eval(e, sol)
	require.True(t, r.IsOK())
	v, _ := r.Value()
	assert.Equal(t, "yes", v.Text)
}

func TestEvalLogicAndShortCircuitsOnFalse(t *testing.T) {
	sol := results.NewQuerySolution()
	e := LogicExpr{Op: ExprAnd, Operands: []Expr{
		TermExpr{Term: model.NewTypedLiteral("false", model.XSDBoolean)},
		VarExpr{Name: "never-evaluated-to-error"},
	}}
	r := Eval(e, sol)
	require.True(t, r.IsOK())
	v, _ := r.Value()
	assert.False(t, v.Bool)
}

func TestEvalLogicOrShortCircuitsOnTrue(t *testing.T) {
	sol := results.NewQuerySolution()
	e := LogicExpr{Op: ExprOr, Operands: []Expr{
		TermExpr{Term: model.NewTypedLiteral("true", model.XSDBoolean)},
		VarExpr{Name: "never-evaluated-to-error"},
	}}
	r := Eval(e, sol)
	require.True(t, r.IsOK())
	v, _ := r.Value()
	assert.True(t, v.Bool)
}

func TestEvalNotNegatesEffectiveBooleanValue(t *testing.T) {
	sol := results.NewQuerySolution()
	e := NotExpr{Operand: TermExpr{Term: model.NewTypedLiteral("false", model.XSDBoolean)}}
	r := Eval(e, sol)
	require.True(t, r.IsOK())
	v, _ := r.Value()
	assert.True(t, v.Bool)
}
