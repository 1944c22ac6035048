package model

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// NumericKind orders the XPath numeric promotion lattice used by SPARQL
// arithmetic and comparison: Int < Integer < Decimal < Float < Double.
// Operands are promoted to the wider of the two kinds before an operator
// is applied.
type NumericKind uint8

const (
	NumericInt NumericKind = iota
	NumericInteger
	NumericDecimal
	NumericFloat
	NumericDouble
)

// Wider returns the wider of two numeric kinds per the promotion lattice.
func Wider(a, b NumericKind) NumericKind {
	if a > b {
		return a
	}
	return b
}

func (k NumericKind) DatatypeIRI() string {
	switch k {
	case NumericInt:
		return XSDInt
	case NumericInteger:
		return XSDInteger
	case NumericDecimal:
		return XSDDecimal
	case NumericFloat:
		return XSDFloat
	case NumericDouble:
		return XSDDouble
	default:
		return XSDDouble
	}
}

// ValueKind discriminates the value-model categories a literal Term can
// be decoded into. Terms whose datatype is not one of these recognized
// kinds still round-trip through the "other literal" fallback.
type ValueKind uint8

const (
	ValueOtherLiteral ValueKind = iota
	ValueBoolean
	ValueNumeric
	ValueString
	ValueLangString
	ValueDateTime
	ValueDate
	ValueTime
	ValueDuration
	ValueNamedNode
	ValueBlankNode
)

// Duration represents an xsd:duration family value as separate month and
// second components, mirroring the two orthogonal XPath duration facets
// (yearMonthDuration, dayTimeDuration) so that comparisons between
// incommensurable durations can report "indeterminate" rather than guess.
type Duration struct {
	Months  int64
	Seconds float64
}

// Value is the decoded, typed-value-space representation of an RDF term:
// the result of applying the value model to a literal, or the identity
// projection for IRIs and blank nodes. Exactly one of the typed fields
// is meaningful, selected by Kind.
type Value struct {
	Kind ValueKind

	Bool    bool
	Numeric float64     // the operable value, always a float64
	NumKind NumericKind // which numeric type it was promoted from
	Text    string      // ValueString/ValueLangString lexical content
	Lang    string      // ValueLangString language tag
	Time    time.Time   // ValueDateTime/ValueDate/ValueTime
	Dur     Duration
	IRI     string // ValueNamedNode, or the datatype of an other-literal
	Lexical string // ValueOtherLiteral lexical form, or BNode label
}

// ThinErrorKind distinguishes a row-local SPARQL evaluation error
// ("Expected": type errors, unbound variables, division by zero — the
// row is simply excluded or the expression is unbound) from a fatal
// engine error ("Internal": out of memory, storage corruption) that
// must abort the whole query.
type ThinErrorKind uint8

const (
	ExpectedError ThinErrorKind = iota
	InternalError
)

// ThinError is the error half of a ThinResult.
type ThinError struct {
	Kind    ThinErrorKind
	Message string
}

func (e *ThinError) Error() string { return e.Message }

// ThinResult is SPARQL's three-valued logic result wrapper: a successful
// value, a row-local "expected" failure (propagates as unbound, never
// aborts evaluation of sibling rows), or an internal failure (aborts the
// query). Functions in internal/functions and internal/vectorexec return
// ThinResult[Value] instead of (Value, error) so that callers cannot
// accidentally treat an expected failure as a Go error needing %w wrapping.
type ThinResult[T any] struct {
	value T
	err   *ThinError
}

func OK[T any](v T) ThinResult[T] { return ThinResult[T]{value: v} }

func Expected[T any](format string, args ...any) ThinResult[T] {
	return ThinResult[T]{err: &ThinError{Kind: ExpectedError, Message: fmt.Sprintf(format, args...)}}
}

func Internal[T any](format string, args ...any) ThinResult[T] {
	return ThinResult[T]{err: &ThinError{Kind: InternalError, Message: fmt.Sprintf(format, args...)}}
}

func (r ThinResult[T]) IsOK() bool       { return r.err == nil }
func (r ThinResult[T]) IsExpected() bool { return r.err != nil && r.err.Kind == ExpectedError }
func (r ThinResult[T]) IsInternal() bool { return r.err != nil && r.err.Kind == InternalError }
func (r ThinResult[T]) Err() *ThinError  { return r.err }

// Value returns the wrapped value and true, or the zero value and false
// if this result carries an error of either kind.
func (r ThinResult[T]) Value() (T, bool) {
	if r.err != nil {
		var zero T
		return zero, false
	}
	return r.value, true
}

// MapThinResult transforms an OK value, passing through either error kind.
func MapThinResult[T, U any](r ThinResult[T], f func(T) ThinResult[U]) ThinResult[U] {
	if r.err != nil {
		return ThinResult[U]{err: r.err}
	}
	return f(r.value)
}

// ValueOf decodes a literal Term into the value model. Terms that are not
// literals (IRIs, blank nodes) project to ValueNamedNode/ValueBlankNode
// with no further coercion since SPARQL value-equality for those kinds
// coincides with SameTerm.
func ValueOf(t Term) ThinResult[Value] {
	switch t.Kind() {
	case KindNamedNode:
		return OK(Value{Kind: ValueNamedNode, IRI: t.IRI()})
	case KindBlankNode:
		return OK(Value{Kind: ValueBlankNode, Lexical: t.BlankNodeLabel()})
	case KindLiteral:
		return valueOfLiteral(t)
	default:
		return Internal[Value]("cannot decode default graph term as a value")
	}
}

func valueOfLiteral(t Term) ThinResult[Value] {
	dt := t.Datatype()
	lex := t.LexicalForm()
	switch dt {
	case XSDString:
		return OK(Value{Kind: ValueString, Text: lex})
	case RDFLangString:
		return OK(Value{Kind: ValueLangString, Text: lex, Lang: t.Language()})
	case XSDBoolean:
		b, ok := parseXSDBoolean(lex)
		if !ok {
			return OK(Value{Kind: ValueOtherLiteral, Lexical: lex, IRI: dt})
		}
		return OK(Value{Kind: ValueBoolean, Bool: b})
	case XSDInt, XSDInteger:
		n, err := strconv.ParseInt(lex, 10, 64)
		if err != nil {
			return OK(Value{Kind: ValueOtherLiteral, Lexical: lex, IRI: dt})
		}
		kind := NumericInteger
		if dt == XSDInt {
			kind = NumericInt
		}
		return OK(Value{Kind: ValueNumeric, Numeric: float64(n), NumKind: kind})
	case XSDDecimal:
		f, err := strconv.ParseFloat(lex, 64)
		if err != nil {
			return OK(Value{Kind: ValueOtherLiteral, Lexical: lex, IRI: dt})
		}
		return OK(Value{Kind: ValueNumeric, Numeric: f, NumKind: NumericDecimal})
	case XSDFloat:
		f, err := strconv.ParseFloat(lex, 32)
		if err != nil {
			return OK(Value{Kind: ValueOtherLiteral, Lexical: lex, IRI: dt})
		}
		return OK(Value{Kind: ValueNumeric, Numeric: f, NumKind: NumericFloat})
	case XSDDouble:
		f, err := strconv.ParseFloat(lex, 64)
		if err != nil {
			return OK(Value{Kind: ValueOtherLiteral, Lexical: lex, IRI: dt})
		}
		return OK(Value{Kind: ValueNumeric, Numeric: f, NumKind: NumericDouble})
	case XSDDateTime:
		tm, err := time.Parse(time.RFC3339Nano, lex)
		if err != nil {
			return OK(Value{Kind: ValueOtherLiteral, Lexical: lex, IRI: dt})
		}
		return OK(Value{Kind: ValueDateTime, Time: tm})
	case XSDDate:
		tm, err := time.Parse("2006-01-02", lex)
		if err != nil {
			return OK(Value{Kind: ValueOtherLiteral, Lexical: lex, IRI: dt})
		}
		return OK(Value{Kind: ValueDate, Time: tm})
	case XSDTime:
		tm, err := time.Parse("15:04:05.999999999", lex)
		if err != nil {
			return OK(Value{Kind: ValueOtherLiteral, Lexical: lex, IRI: dt})
		}
		return OK(Value{Kind: ValueTime, Time: tm})
	case XSDDuration, XSDYearMonthDur, XSDDayTimeDur:
		d, ok := parseXSDDuration(lex)
		if !ok {
			return OK(Value{Kind: ValueOtherLiteral, Lexical: lex, IRI: dt})
		}
		return OK(Value{Kind: ValueDuration, Dur: d})
	default:
		return OK(Value{Kind: ValueOtherLiteral, Lexical: lex, IRI: dt})
	}
}

func parseXSDBoolean(lex string) (bool, bool) {
	switch lex {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	default:
		return false, false
	}
}

// parseXSDDuration parses the PnYnMnDTnHnMnS canonical form into its
// month/second decomposition. It rejects mixed-sign durations, treating
// them as an other-literal rather than a value-model duration.
func parseXSDDuration(lex string) (Duration, bool) {
	s := lex
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if len(s) == 0 || s[0] != 'P' {
		return Duration{}, false
	}
	s = s[1:]
	datePart, timePart := s, ""
	if i := indexByte(s, 'T'); i >= 0 {
		datePart, timePart = s[:i], s[i+1:]
	}
	var months, days int64
	var seconds float64
	var err error
	if months, days, err = parseDurationDateComponents(datePart); err != nil {
		return Duration{}, false
	}
	if seconds, err = parseDurationTimeComponents(timePart); err != nil {
		return Duration{}, false
	}
	totalSeconds := float64(days)*86400 + seconds
	if neg {
		months, totalSeconds = -months, -totalSeconds
	}
	return Duration{Months: months, Seconds: totalSeconds}, true
}

func parseDurationDateComponents(s string) (months, days int64, err error) {
	var num int64
	hasNum := false
	years := int64(0)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			num = num*10 + int64(c-'0')
			hasNum = true
		case c == 'Y':
			years = num
			num, hasNum = 0, false
		case c == 'M':
			months += num
			num, hasNum = 0, false
		case c == 'D':
			days = num
			num, hasNum = 0, false
		default:
			return 0, 0, fmt.Errorf("invalid duration date component")
		}
	}
	if hasNum {
		return 0, 0, fmt.Errorf("trailing digits in duration")
	}
	months += years * 12
	return months, days, nil
}

func parseDurationTimeComponents(s string) (seconds float64, err error) {
	if s == "" {
		return 0, nil
	}
	var buf []byte
	flush := func(unit float64) {
		f, _ := strconv.ParseFloat(string(buf), 64)
		seconds += f * unit
		buf = buf[:0]
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case (c >= '0' && c <= '9') || c == '.':
			buf = append(buf, c)
		case c == 'H':
			flush(3600)
		case c == 'M':
			flush(60)
		case c == 'S':
			flush(1)
		default:
			return 0, fmt.Errorf("invalid duration time component")
		}
	}
	if len(buf) > 0 {
		return 0, fmt.Errorf("trailing digits in duration time")
	}
	return seconds, nil
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// EffectiveBooleanValue implements the SPARQL EBV coercion: booleans pass
// through, numerics are false iff zero or NaN, strings are false iff
// empty, everything else has no EBV.
func EffectiveBooleanValue(v Value) ThinResult[bool] {
	switch v.Kind {
	case ValueBoolean:
		return OK(v.Bool)
	case ValueNumeric:
		return OK(v.Numeric != 0 && !math.IsNaN(v.Numeric))
	case ValueString, ValueLangString:
		return OK(v.Text != "")
	default:
		return Expected[bool]("effective boolean value is not defined for this value kind")
	}
}
