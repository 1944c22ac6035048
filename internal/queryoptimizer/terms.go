package queryoptimizer

import "github.com/quadfusion/engine/model"

var (
	trueTerm  = model.NewTypedLiteral("true", model.XSDBoolean)
	falseTerm = model.NewTypedLiteral("false", model.XSDBoolean)
)
