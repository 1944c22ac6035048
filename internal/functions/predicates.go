package functions

import "github.com/quadfusion/engine/model"

func init() {
	register("ISIRI", Immutable, typePredicate(model.ValueNamedNode))
	register("ISURI", Immutable, typePredicate(model.ValueNamedNode))
	register("ISBLANK", Immutable, typePredicate(model.ValueBlankNode))
	register("ISNUMERIC", Immutable, typePredicate(model.ValueNumeric))
	register("ISLITERAL", Immutable, func(args []model.Value) model.ThinResult[model.Value] {
		if len(args) != 1 {
			return model.Internal[model.Value]("ISLITERAL takes exactly one argument")
		}
		switch args[0].Kind {
		case model.ValueNamedNode, model.ValueBlankNode:
			return model.OK(model.Value{Kind: model.ValueBoolean, Bool: false})
		default:
			return model.OK(model.Value{Kind: model.ValueBoolean, Bool: true})
		}
	})
}

func typePredicate(kind model.ValueKind) Impl {
	return func(args []model.Value) model.ThinResult[model.Value] {
		if len(args) != 1 {
			return model.Internal[model.Value]("type predicate takes exactly one argument")
		}
		return model.OK(model.Value{Kind: model.ValueBoolean, Bool: args[0].Kind == kind})
	}
}
