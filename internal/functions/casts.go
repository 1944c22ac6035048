package functions

import (
	"strconv"

	"github.com/quadfusion/engine/model"
)

func init() {
	register("STR", Immutable, strCast)
	register("LANG", Immutable, langFn)
	register("DATATYPE", Immutable, datatypeFn)
	register("xsd:integer", Immutable, numericCast(model.NumericInteger))
	register("xsd:decimal", Immutable, numericCast(model.NumericDecimal))
	register("xsd:double", Immutable, numericCast(model.NumericDouble))
	register("xsd:float", Immutable, numericCast(model.NumericFloat))
	register("xsd:boolean", Immutable, booleanCast)
	register("xsd:string", Immutable, strCast)
}

// strCast implements the SPARQL STR built-in: the lexical form of any
// term, losing language tag and datatype.
func strCast(args []model.Value) model.ThinResult[model.Value] {
	if len(args) != 1 {
		return model.Internal[model.Value]("STR takes exactly one argument")
	}
	return model.OK(model.Value{Kind: model.ValueString, Text: lexicalOf(args[0])})
}

func lexicalOf(v model.Value) string {
	switch v.Kind {
	case model.ValueString, model.ValueLangString:
		return v.Text
	case model.ValueNamedNode:
		return v.IRI
	case model.ValueBlankNode, model.ValueOtherLiteral:
		return v.Lexical
	case model.ValueBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case model.ValueNumeric:
		return strconv.FormatFloat(v.Numeric, 'g', -1, 64)
	default:
		return model.TermFromValue(v).String()
	}
}

// langFn returns the language tag of a langString, or "" for any other
// value kind (including a plain string).
func langFn(args []model.Value) model.ThinResult[model.Value] {
	if len(args) != 1 {
		return model.Internal[model.Value]("LANG takes exactly one argument")
	}
	if args[0].Kind == model.ValueLangString {
		return model.OK(model.Value{Kind: model.ValueString, Text: args[0].Lang})
	}
	return model.OK(model.Value{Kind: model.ValueString, Text: ""})
}

// datatypeFn returns the datatype IRI of a literal value.
func datatypeFn(args []model.Value) model.ThinResult[model.Value] {
	if len(args) != 1 {
		return model.Internal[model.Value]("DATATYPE takes exactly one argument")
	}
	v := args[0]
	switch v.Kind {
	case model.ValueNamedNode, model.ValueBlankNode:
		return model.Expected[model.Value]("DATATYPE is undefined for IRIs and blank nodes")
	default:
		return model.OK(model.Value{Kind: model.ValueNamedNode, IRI: model.TermFromValue(v).Datatype()})
	}
}

func numericCast(target model.NumericKind) Impl {
	return func(args []model.Value) model.ThinResult[model.Value] {
		if len(args) != 1 {
			return model.Internal[model.Value]("numeric cast takes exactly one argument")
		}
		v := args[0]
		switch v.Kind {
		case model.ValueNumeric:
			return model.OK(model.Value{Kind: model.ValueNumeric, Numeric: v.Numeric, NumKind: target})
		case model.ValueString, model.ValueLangString:
			f, err := strconv.ParseFloat(v.Text, 64)
			if err != nil {
				return model.Expected[model.Value]("cannot cast %q to a numeric value", v.Text)
			}
			return model.OK(model.Value{Kind: model.ValueNumeric, Numeric: f, NumKind: target})
		case model.ValueBoolean:
			n := 0.0
			if v.Bool {
				n = 1.0
			}
			return model.OK(model.Value{Kind: model.ValueNumeric, Numeric: n, NumKind: target})
		default:
			return model.Expected[model.Value]("value is not castable to a numeric type")
		}
	}
}

func booleanCast(args []model.Value) model.ThinResult[model.Value] {
	if len(args) != 1 {
		return model.Internal[model.Value]("xsd:boolean cast takes exactly one argument")
	}
	v := args[0]
	switch v.Kind {
	case model.ValueBoolean:
		return model.OK(v)
	case model.ValueNumeric:
		return model.OK(model.Value{Kind: model.ValueBoolean, Bool: v.Numeric != 0})
	case model.ValueString, model.ValueLangString:
		switch v.Text {
		case "true", "1":
			return model.OK(model.Value{Kind: model.ValueBoolean, Bool: true})
		case "false", "0":
			return model.OK(model.Value{Kind: model.ValueBoolean, Bool: false})
		default:
			return model.Expected[model.Value]("cannot cast %q to xsd:boolean", v.Text)
		}
	default:
		return model.Expected[model.Value]("value of kind %v is not castable to xsd:boolean", v.Kind)
	}
}
