package model

import "math"

// Ordering mirrors the three-way result of a SPARQL ORDER BY / comparison
// operator evaluation.
type Ordering int

const (
	Less Ordering = -1
	Equal Ordering = 0
	Greater Ordering = 1
)

// Compare implements SPARQL's comparison operators (op:numeric-*,
// op:dateTime-*, string comparison with language-tag restrictions) used
// by <, <=, >, >=, and ORDER BY. It returns Expected when the two values
// are not comparable (e.g. a langString compared to a plain string with a
// different language, or incommensurable duration components).
func Compare(a, b Value) ThinResult[Ordering] {
	if a.Kind != b.Kind {
		if a.Kind == ValueNumeric && b.Kind == ValueNumeric {
			// unreachable, same-kind check above covers it
		}
		return Expected[Ordering]("cannot compare values of different kinds")
	}
	switch a.Kind {
	case ValueNumeric:
		return OK(compareFloat(a.Numeric, b.Numeric))
	case ValueBoolean:
		return OK(compareBool(a.Bool, b.Bool))
	case ValueString:
		return OK(compareString(a.Text, b.Text))
	case ValueLangString:
		if a.Lang != b.Lang {
			return Expected[Ordering]("cannot compare language-tagged strings with different tags")
		}
		return OK(compareString(a.Text, b.Text))
	case ValueDateTime, ValueDate, ValueTime:
		if a.Time.Equal(b.Time) {
			return OK(Equal)
		}
		if a.Time.Before(b.Time) {
			return OK(Less)
		}
		return OK(Greater)
	case ValueDuration:
		return compareDuration(a.Dur, b.Dur)
	case ValueNamedNode:
		return OK(compareString(a.IRI, b.IRI))
	default:
		return Expected[Ordering]("values of this kind are not ordered")
	}
}

func compareFloat(a, b float64) Ordering {
	switch {
	case a < b:
		return Less
	case a > b:
		return Greater
	default:
		return Equal
	}
}

func compareBool(a, b bool) Ordering {
	switch {
	case a == b:
		return Equal
	case !a && b:
		return Less
	default:
		return Greater
	}
}

func compareString(a, b string) Ordering {
	switch {
	case a < b:
		return Less
	case a > b:
		return Greater
	default:
		return Equal
	}
}

// compareDuration only orders durations whose month and second components
// do not disagree in sign; XPath leaves the remaining cases indeterminate
// and SPARQL propagates that as a type error rather than a guess.
func compareDuration(a, b Duration) ThinResult[Ordering] {
	dm := a.Months - b.Months
	ds := a.Seconds - b.Seconds
	switch {
	case dm == 0 && ds == 0:
		return OK(Equal)
	case dm >= 0 && ds >= 0 && (dm > 0 || ds > 0):
		return OK(Greater)
	case dm <= 0 && ds <= 0:
		return OK(Less)
	default:
		return Expected[Ordering]("durations with incommensurable components are not comparable")
	}
}

// ValueEquals implements SPARQL value-equality (distinct from Term's
// SameTerm): numerics compare across the promotion lattice, plain and
// language-tagged strings compare by lexical content subject to the
// language-tag restriction, and unrecognized "other literal" values fall
// back to structural (lexical form + datatype) comparison.
func ValueEquals(a, b Value) ThinResult[bool] {
	if a.Kind == ValueOtherLiteral && b.Kind == ValueOtherLiteral {
		return OK(a.Lexical == b.Lexical && a.IRI == b.IRI)
	}
	ord := Compare(a, b)
	if ord.IsOK() {
		v, _ := ord.Value()
		return OK(v == Equal)
	}
	return ThinResult[bool]{err: ord.Err()}
}

// ArithOp names a SPARQL numeric-expression operator.
type ArithOp uint8

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpUnaryMinus
)

// Arithmetic implements op:numeric-add/subtract/multiply/divide, promoting
// both operands to the wider numeric kind first. Division by zero follows
// IEEE 754 float semantics for float/double (producing +-Inf or NaN) but
// is an Expected error for integer/decimal operands, matching XPath.
func Arithmetic(op ArithOp, a, b Value) ThinResult[Value] {
	if a.Kind != ValueNumeric || (op != OpUnaryMinus && b.Kind != ValueNumeric) {
		return Expected[Value]("arithmetic operator applied to a non-numeric operand")
	}
	kind := a.NumKind
	if op != OpUnaryMinus {
		kind = Wider(a.NumKind, b.NumKind)
	}
	isFloatingPoint := kind == NumericFloat || kind == NumericDouble

	var result float64
	switch op {
	case OpAdd:
		result = a.Numeric + b.Numeric
	case OpSub:
		result = a.Numeric - b.Numeric
	case OpMul:
		result = a.Numeric * b.Numeric
	case OpDiv:
		if b.Numeric == 0 {
			if !isFloatingPoint {
				return Expected[Value]("division by zero")
			}
			result = a.Numeric / b.Numeric // yields +Inf/-Inf/NaN
		} else {
			result = a.Numeric / b.Numeric
		}
		if kind == NumericInt || kind == NumericInteger {
			kind = NumericDecimal // op:numeric-divide always widens to decimal
		}
	case OpUnaryMinus:
		result = -a.Numeric
	default:
		return Internal[Value]("unknown arithmetic operator")
	}
	if math.IsNaN(result) && !isFloatingPoint {
		return Expected[Value]("non-finite result for a non-floating-point numeric type")
	}
	return OK(Value{Kind: ValueNumeric, Numeric: result, NumKind: kind})
}
