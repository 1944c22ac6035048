package functions

import "github.com/quadfusion/engine/model"

func init() {
	register("+", Immutable, binaryArith(model.OpAdd))
	register("-", Immutable, binaryArith(model.OpSub))
	register("*", Immutable, binaryArith(model.OpMul))
	register("/", Immutable, binaryArith(model.OpDiv))
	register("UMINUS", Immutable, func(args []model.Value) model.ThinResult[model.Value] {
		if len(args) != 1 {
			return model.Internal[model.Value]("UMINUS takes exactly one argument")
		}
		return model.Arithmetic(model.OpUnaryMinus, args[0], model.Value{})
	})
}

func binaryArith(op model.ArithOp) Impl {
	return func(args []model.Value) model.ThinResult[model.Value] {
		if len(args) != 2 {
			return model.Internal[model.Value]("arithmetic operator takes exactly two arguments")
		}
		return model.Arithmetic(op, args[0], args[1])
	}
}
