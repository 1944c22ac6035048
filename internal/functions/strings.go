package functions

import (
	"regexp"
	"strings"

	"github.com/quadfusion/engine/model"
)

func init() {
	register("STRLEN", Immutable, unaryString(func(s string) model.ThinResult[model.Value] {
		return model.OK(model.Value{Kind: model.ValueNumeric, Numeric: float64(len([]rune(s))), NumKind: model.NumericInteger})
	}))
	register("UCASE", Immutable, unaryStringPreserveLang(strings.ToUpper))
	register("LCASE", Immutable, unaryStringPreserveLang(strings.ToLower))
	register("CONCAT", Immutable, concatFn)
	register("CONTAINS", Immutable, binaryStringPredicate(strings.Contains))
	register("STRSTARTS", Immutable, binaryStringPredicate(strings.HasPrefix))
	register("STRENDS", Immutable, binaryStringPredicate(strings.HasSuffix))
	register("SUBSTR", Immutable, substrFn)
	register("REGEX", Immutable, regexFn)
	register("REPLACE", Immutable, replaceFn)
}

// stringOf extracts the text content of a ValueString/ValueLangString,
// the two value kinds SPARQL string functions operate over.
func stringOf(v model.Value) (string, bool) {
	switch v.Kind {
	case model.ValueString, model.ValueLangString:
		return v.Text, true
	default:
		return "", false
	}
}

func unaryString(f func(string) model.ThinResult[model.Value]) Impl {
	return func(args []model.Value) model.ThinResult[model.Value] {
		if len(args) != 1 {
			return model.Internal[model.Value]("string function takes exactly one argument")
		}
		s, ok := stringOf(args[0])
		if !ok {
			return model.Expected[model.Value]("argument is not a string")
		}
		return f(s)
	}
}

// unaryStringPreserveLang applies f to the text content, keeping the
// argument's value kind and language tag (UCASE/LCASE preserve rdf:langString-ness).
func unaryStringPreserveLang(f func(string) string) Impl {
	return func(args []model.Value) model.ThinResult[model.Value] {
		if len(args) != 1 {
			return model.Internal[model.Value]("string function takes exactly one argument")
		}
		s, ok := stringOf(args[0])
		if !ok {
			return model.Expected[model.Value]("argument is not a string")
		}
		out := args[0]
		out.Text = f(s)
		return model.OK(out)
	}
}

func concatFn(args []model.Value) model.ThinResult[model.Value] {
	var b strings.Builder
	for _, a := range args {
		s, ok := stringOf(a)
		if !ok {
			return model.Expected[model.Value]("CONCAT argument is not a string")
		}
		b.WriteString(s)
	}
	return model.OK(model.Value{Kind: model.ValueString, Text: b.String()})
}

func binaryStringPredicate(pred func(s, substr string) bool) Impl {
	return func(args []model.Value) model.ThinResult[model.Value] {
		if len(args) != 2 {
			return model.Internal[model.Value]("string predicate takes exactly two arguments")
		}
		a, ok1 := stringOf(args[0])
		b, ok2 := stringOf(args[1])
		if !ok1 || !ok2 {
			return model.Expected[model.Value]("argument is not a string")
		}
		return model.OK(model.Value{Kind: model.ValueBoolean, Bool: pred(a, b)})
	}
}

// substrFn implements SUBSTR(str, start[, length]), 1-indexed per XPath
// fn:substring semantics.
func substrFn(args []model.Value) model.ThinResult[model.Value] {
	if len(args) < 2 || len(args) > 3 {
		return model.Internal[model.Value]("SUBSTR takes two or three arguments")
	}
	s, ok := stringOf(args[0])
	if !ok {
		return model.Expected[model.Value]("SUBSTR argument is not a string")
	}
	if args[1].Kind != model.ValueNumeric {
		return model.Expected[model.Value]("SUBSTR start is not numeric")
	}
	runes := []rune(s)
	start := int(args[1].Numeric) - 1
	length := len(runes) - start
	if len(args) == 3 {
		if args[2].Kind != model.ValueNumeric {
			return model.Expected[model.Value]("SUBSTR length is not numeric")
		}
		length = int(args[2].Numeric)
	}
	if start < 0 {
		length += start
		start = 0
	}
	if start > len(runes) {
		start = len(runes)
	}
	end := start + length
	if end > len(runes) {
		end = len(runes)
	}
	if end < start {
		end = start
	}
	return model.OK(model.Value{Kind: model.ValueString, Text: string(runes[start:end])})
}

func regexFn(args []model.Value) model.ThinResult[model.Value] {
	if len(args) < 2 || len(args) > 3 {
		return model.Internal[model.Value]("REGEX takes two or three arguments")
	}
	s, ok := stringOf(args[0])
	if !ok {
		return model.Expected[model.Value]("REGEX argument is not a string")
	}
	pattern, ok := stringOf(args[1])
	if !ok {
		return model.Expected[model.Value]("REGEX pattern is not a string")
	}
	if len(args) == 3 {
		flags, ok := stringOf(args[2])
		if !ok {
			return model.Expected[model.Value]("REGEX flags argument is not a string")
		}
		pattern = applyRegexFlags(pattern, flags)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return model.Expected[model.Value]("invalid regular expression: %v", err)
	}
	return model.OK(model.Value{Kind: model.ValueBoolean, Bool: re.MatchString(s)})
}

func applyRegexFlags(pattern, flags string) string {
	var goFlags string
	for _, f := range flags {
		switch f {
		case 'i':
			goFlags += "i"
		case 's':
			goFlags += "s"
		case 'm':
			goFlags += "m"
		}
	}
	if goFlags == "" {
		return pattern
	}
	return "(?" + goFlags + ")" + pattern
}

func replaceFn(args []model.Value) model.ThinResult[model.Value] {
	if len(args) < 3 || len(args) > 4 {
		return model.Internal[model.Value]("REPLACE takes three or four arguments")
	}
	s, ok := stringOf(args[0])
	if !ok {
		return model.Expected[model.Value]("REPLACE argument is not a string")
	}
	pattern, ok := stringOf(args[1])
	if !ok {
		return model.Expected[model.Value]("REPLACE pattern is not a string")
	}
	replacement, ok := stringOf(args[2])
	if !ok {
		return model.Expected[model.Value]("REPLACE replacement is not a string")
	}
	if len(args) == 4 {
		flags, ok := stringOf(args[3])
		if !ok {
			return model.Expected[model.Value]("REPLACE flags argument is not a string")
		}
		pattern = applyRegexFlags(pattern, flags)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return model.Expected[model.Value]("invalid regular expression: %v", err)
	}
	out := args[0]
	out.Text = re.ReplaceAllString(s, goReplacement(replacement))
	return model.OK(out)
}

// goReplacement rewrites XPath/SPARQL's $1-style backreferences into Go's
// regexp ${1} form.
func goReplacement(r string) string {
	var b strings.Builder
	for i := 0; i < len(r); i++ {
		if r[i] == '$' && i+1 < len(r) && r[i+1] >= '0' && r[i+1] <= '9' {
			j := i + 1
			for j < len(r) && r[j] >= '0' && r[j] <= '9' {
				j++
			}
			b.WriteString("${" + r[i+1:j] + "}")
			i = j - 1
			continue
		}
		b.WriteByte(r[i])
	}
	return b.String()
}
