package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quadfusion/engine/model"
)

// parseTerm reads a single term in the debug syntax model.Term.String()
// emits: <iri>, _:label, "lexical", "lexical"@lang, "lexical"^^<iri>, or
// DEFAULT. It exists only so quadctl's own output can be piped back into
// its own input — this is not a general RDF text format and deliberately
// does not attempt full Turtle/N-Quads parsing.
func parseTerm(tok string) (model.Term, error) {
	switch {
	case tok == "DEFAULT":
		return model.DefaultGraph, nil
	case strings.HasPrefix(tok, "<") && strings.HasSuffix(tok, ">"):
		return model.NewNamedNode(tok[1 : len(tok)-1]), nil
	case strings.HasPrefix(tok, "_:"):
		return model.NewBlankNode(tok[2:]), nil
	case strings.HasPrefix(tok, `"`):
		return parseLiteral(tok)
	default:
		return model.Term{}, fmt.Errorf("unrecognized term %q", tok)
	}
}

func parseLiteral(tok string) (model.Term, error) {
	end := strings.LastIndex(tok, `"`)
	if end <= 0 {
		return model.Term{}, fmt.Errorf("malformed literal %q", tok)
	}
	lexical, err := strconv.Unquote(tok[:end+1])
	if err != nil {
		return model.Term{}, fmt.Errorf("malformed literal %q: %w", tok, err)
	}
	suffix := tok[end+1:]
	switch {
	case suffix == "":
		return model.NewLiteral(lexical), nil
	case strings.HasPrefix(suffix, "@"):
		return model.NewLangLiteral(lexical, suffix[1:]), nil
	case strings.HasPrefix(suffix, "^^<") && strings.HasSuffix(suffix, ">"):
		return model.NewTypedLiteral(lexical, suffix[3:len(suffix)-1]), nil
	default:
		return model.Term{}, fmt.Errorf("malformed literal suffix %q", suffix)
	}
}

// parseQuadLine splits a whitespace-separated quad line (subject,
// predicate, object, optional graph) honoring double-quoted literals so
// a literal's own internal spaces don't get split.
func parseQuadLine(line string) (model.Quad, error) {
	toks, err := tokenizeQuadLine(line)
	if err != nil {
		return model.Quad{}, err
	}
	if len(toks) != 3 && len(toks) != 4 {
		return model.Quad{}, fmt.Errorf("expected 3 or 4 terms, got %d", len(toks))
	}
	s, err := parseTerm(toks[0])
	if err != nil {
		return model.Quad{}, fmt.Errorf("subject: %w", err)
	}
	p, err := parseTerm(toks[1])
	if err != nil {
		return model.Quad{}, fmt.Errorf("predicate: %w", err)
	}
	o, err := parseTerm(toks[2])
	if err != nil {
		return model.Quad{}, fmt.Errorf("object: %w", err)
	}
	g := model.DefaultGraph
	if len(toks) == 4 {
		g, err = parseTerm(toks[3])
		if err != nil {
			return model.Quad{}, fmt.Errorf("graph: %w", err)
		}
	}
	return model.Quad{Subject: s, Predicate: p, Object: o, GraphName: g}, nil
}

func tokenizeQuadLine(line string) ([]string, error) {
	var toks []string
	var cur strings.Builder
	inQuote := false
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			inQuote = !inQuote
			cur.WriteByte(c)
		case c == ' ' && !inQuote:
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quoted literal in %q", line)
	}
	flush()
	return toks, nil
}
