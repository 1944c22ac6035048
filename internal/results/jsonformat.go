package results

import (
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/quadfusion/engine/model"
)

// WriteJSON streams r as the W3C SPARQL 1.1 Query Results JSON Format
// (https://www.w3.org/TR/sparql11-results-json/) directly onto w, one
// jsontext.Token at a time rather than building an intermediate
// map[string]any — the same token-level encoder style used for the
// marshalers this is grounded on.
func WriteJSON(w io.Writer, r QueryResult) error {
	enc := jsontext.NewEncoder(w)
	if err := writeJSONResult(enc, r); err != nil {
		return err
	}
	return nil
}

func writeJSONResult(enc *jsontext.Encoder, r QueryResult) error {
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}

	if r.Form == ResultFormBoolean {
		if err := writeKey(enc, "boolean"); err != nil {
			return err
		}
		if err := enc.WriteToken(jsontext.Bool(r.Boolean)); err != nil {
			return err
		}
		return enc.WriteToken(jsontext.EndObject)
	}

	if err := writeKey(enc, "head"); err != nil {
		return err
	}
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	if err := writeKey(enc, "vars"); err != nil {
		return err
	}
	if err := enc.WriteToken(jsontext.BeginArray); err != nil {
		return err
	}
	for _, v := range r.Variables {
		if err := enc.WriteToken(jsontext.String(v)); err != nil {
			return err
		}
	}
	if err := enc.WriteToken(jsontext.EndArray); err != nil {
		return err
	}
	if err := enc.WriteToken(jsontext.EndObject); err != nil {
		return err
	}

	if err := writeKey(enc, "results"); err != nil {
		return err
	}
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	if err := writeKey(enc, "bindings"); err != nil {
		return err
	}
	if err := enc.WriteToken(jsontext.BeginArray); err != nil {
		return err
	}
	for _, sol := range r.Solutions {
		if err := writeJSONSolution(enc, r.Variables, sol); err != nil {
			return err
		}
	}
	if err := enc.WriteToken(jsontext.EndArray); err != nil {
		return err
	}
	if err := enc.WriteToken(jsontext.EndObject); err != nil {
		return err
	}

	return enc.WriteToken(jsontext.EndObject)
}

func writeJSONSolution(enc *jsontext.Encoder, vars []string, sol QuerySolution) error {
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	for _, v := range vars {
		term, ok := sol.Get(v)
		if !ok {
			continue
		}
		if err := writeKey(enc, v); err != nil {
			return err
		}
		if err := writeJSONTerm(enc, term); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndObject)
}

func writeJSONTerm(enc *jsontext.Encoder, t model.Term) error {
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}

	switch t.Kind() {
	case model.KindNamedNode:
		if err := writeKey(enc, "type"); err != nil {
			return err
		}
		if err := enc.WriteToken(jsontext.String("uri")); err != nil {
			return err
		}
		if err := writeKey(enc, "value"); err != nil {
			return err
		}
		if err := enc.WriteToken(jsontext.String(t.IRI())); err != nil {
			return err
		}

	case model.KindBlankNode:
		if err := writeKey(enc, "type"); err != nil {
			return err
		}
		if err := enc.WriteToken(jsontext.String("bnode")); err != nil {
			return err
		}
		if err := writeKey(enc, "value"); err != nil {
			return err
		}
		if err := enc.WriteToken(jsontext.String(t.BlankNodeLabel())); err != nil {
			return err
		}

	case model.KindLiteral:
		if err := writeKey(enc, "type"); err != nil {
			return err
		}
		if err := enc.WriteToken(jsontext.String("literal")); err != nil {
			return err
		}
		if err := writeKey(enc, "value"); err != nil {
			return err
		}
		if err := enc.WriteToken(jsontext.String(t.LexicalForm())); err != nil {
			return err
		}
		switch {
		case t.HasLanguage():
			if err := writeKey(enc, "xml:lang"); err != nil {
				return err
			}
			if err := enc.WriteToken(jsontext.String(t.Language())); err != nil {
				return err
			}
		case t.Datatype() != model.XSDString:
			if err := writeKey(enc, "datatype"); err != nil {
				return err
			}
			if err := enc.WriteToken(jsontext.String(t.Datatype())); err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("results: term of kind %s has no SPARQL JSON binding form", t.Kind())
	}

	return enc.WriteToken(jsontext.EndObject)
}

func writeKey(enc *jsontext.Encoder, key string) error {
	return enc.WriteToken(jsontext.String(key))
}
