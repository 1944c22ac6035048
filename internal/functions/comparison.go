package functions

import "github.com/quadfusion/engine/model"

func init() {
	register("=", Immutable, equalityOp(false))
	register("!=", Immutable, equalityOp(true))
	register("<", Immutable, orderingOp(func(o model.Ordering) bool { return o == model.Less }))
	register("<=", Immutable, orderingOp(func(o model.Ordering) bool { return o != model.Greater }))
	register(">", Immutable, orderingOp(func(o model.Ordering) bool { return o == model.Greater }))
	register(">=", Immutable, orderingOp(func(o model.Ordering) bool { return o != model.Less }))
}

func equalityOp(negate bool) Impl {
	return func(args []model.Value) model.ThinResult[model.Value] {
		if len(args) != 2 {
			return model.Internal[model.Value]("equality operator takes exactly two arguments")
		}
		eq := model.ValueEquals(args[0], args[1])
		return model.MapThinResult(eq, func(b bool) model.ThinResult[model.Value] {
			if negate {
				b = !b
			}
			return model.OK(model.Value{Kind: model.ValueBoolean, Bool: b})
		})
	}
}

func orderingOp(accept func(model.Ordering) bool) Impl {
	return func(args []model.Value) model.ThinResult[model.Value] {
		if len(args) != 2 {
			return model.Internal[model.Value]("comparison operator takes exactly two arguments")
		}
		ord := model.Compare(args[0], args[1])
		return model.MapThinResult(ord, func(o model.Ordering) model.ThinResult[model.Value] {
			return model.OK(model.Value{Kind: model.ValueBoolean, Bool: accept(o)})
		})
	}
}
