package functions

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/quadfusion/engine/model"
)

func init() {
	register("UUID", Volatile, func(args []model.Value) model.ThinResult[model.Value] {
		if len(args) != 0 {
			return model.Internal[model.Value]("UUID takes no arguments")
		}
		return model.OK(model.Value{Kind: model.ValueNamedNode, IRI: "urn:uuid:" + uuid.NewString()})
	})
	register("STRUUID", Volatile, func(args []model.Value) model.ThinResult[model.Value] {
		if len(args) != 0 {
			return model.Internal[model.Value]("STRUUID takes no arguments")
		}
		return model.OK(model.Value{Kind: model.ValueString, Text: uuid.NewString()})
	})
	register("BNODE", Volatile, bnodeFn)
	register("RAND", Volatile, func(args []model.Value) model.ThinResult[model.Value] {
		if len(args) != 0 {
			return model.Internal[model.Value]("RAND takes no arguments")
		}
		return model.OK(model.Value{Kind: model.ValueNumeric, Numeric: rand.Float64(), NumKind: model.NumericDouble})
	})
	register("NOW", Stable, func(args []model.Value) model.ThinResult[model.Value] {
		if len(args) != 0 {
			return model.Internal[model.Value]("NOW takes no arguments")
		}
		return model.OK(model.Value{Kind: model.ValueDateTime, Time: time.Now().UTC()})
	})
}

// bnodeFn implements BNODE (fresh label) and BNODE(str) (deterministic
// label derived from str, stable within one solution but fresh across
// calls with different arguments).
func bnodeFn(args []model.Value) model.ThinResult[model.Value] {
	switch len(args) {
	case 0:
		return model.OK(model.Value{Kind: model.ValueBlankNode, Lexical: "b" + uuid.NewString()})
	case 1:
		s, ok := stringOf(args[0])
		if !ok {
			return model.Expected[model.Value]("BNODE argument is not a string")
		}
		return model.OK(model.Value{Kind: model.ValueBlankNode, Lexical: s})
	default:
		return model.Internal[model.Value]("BNODE takes zero or one arguments")
	}
}
