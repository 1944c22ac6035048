package quadfusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadfusion/engine/model"
)

func TestExprRoundTripThroughJSON(t *testing.T) {
	e := LogicExpr{
		Op: ExprAnd,
		Operands: []Expr{
			CallExpr{Func: "=", Args: []Expr{
				VarExpr{Name: "age"},
				TermExpr{Term: model.NewTypedLiteral("30", model.XSDInteger)},
			}},
			NotExpr{Operand: VarExpr{Name: "deleted"}},
		},
	}

	data, err := MarshalExpr(e)
	require.NoError(t, err)

	got, err := UnmarshalExpr(data)
	require.NoError(t, err)

	logic, ok := got.(LogicExpr)
	require.True(t, ok)
	assert.Equal(t, ExprAnd, logic.Op)
	require.Len(t, logic.Operands, 2)

	call, ok := logic.Operands[0].(CallExpr)
	require.True(t, ok)
	assert.Equal(t, "=", call.Func)
	require.Len(t, call.Args, 2)
	v, ok := call.Args[0].(VarExpr)
	require.True(t, ok)
	assert.Equal(t, "age", v.Name)

	term, ok := call.Args[1].(TermExpr)
	require.True(t, ok)
	assert.True(t, term.Term.SameTerm(model.NewTypedLiteral("30", model.XSDInteger)))

	not, ok := logic.Operands[1].(NotExpr)
	require.True(t, ok)
	_, ok = not.Operand.(VarExpr)
	assert.True(t, ok)
}

func TestUnmarshalExprRejectsUnknownKind(t *testing.T) {
	_, err := UnmarshalExpr([]byte(`{"kind":"bogus"}`))
	assert.Error(t, err)
}
