package model

import "strconv"

// TermFromValue re-encodes a decoded Value back into a literal (or
// IRI/blank node) Term, the inverse of ValueOf used whenever a scalar
// function's result must be rebound into a solution mapping.
func TermFromValue(v Value) Term {
	switch v.Kind {
	case ValueBoolean:
		if v.Bool {
			return NewTypedLiteral("true", XSDBoolean)
		}
		return NewTypedLiteral("false", XSDBoolean)
	case ValueNumeric:
		return NewTypedLiteral(formatNumeric(v.Numeric, v.NumKind), v.NumKind.DatatypeIRI())
	case ValueString:
		return NewLiteral(v.Text)
	case ValueLangString:
		return NewLangLiteral(v.Text, v.Lang)
	case ValueDateTime:
		return NewTypedLiteral(v.Time.Format("2006-01-02T15:04:05.999999999Z07:00"), XSDDateTime)
	case ValueDate:
		return NewTypedLiteral(v.Time.Format("2006-01-02"), XSDDate)
	case ValueTime:
		return NewTypedLiteral(v.Time.Format("15:04:05.999999999"), XSDTime)
	case ValueDuration:
		m, s, sign := v.Dur.Months, v.Dur.Seconds, ""
		if m < 0 || s < 0 {
			m, s, sign = -m, -s, "-"
		}
		lex := sign + "P" + strconv.FormatInt(m/12, 10) + "Y" + strconv.FormatInt(m%12, 10) +
			"MT" + strconv.FormatFloat(s, 'f', -1, 64) + "S"
		return NewTypedLiteral(lex, XSDDuration)
	case ValueNamedNode:
		return NewNamedNode(v.IRI)
	case ValueBlankNode:
		return NewBlankNode(v.Lexical)
	case ValueOtherLiteral:
		return NewTypedLiteral(v.Lexical, v.IRI)
	default:
		return NewLiteral("")
	}
}

func formatNumeric(n float64, kind NumericKind) string {
	switch kind {
	case NumericInt, NumericInteger:
		return strconv.FormatInt(int64(n), 10)
	case NumericFloat:
		return strconv.FormatFloat(n, 'g', -1, 32)
	default:
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
}
