package results

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV and WriteTSV render a Solutions-form QueryResult as the W3C
// SPARQL 1.1 CSV/TSV results formats
// (https://www.w3.org/TR/sparql11-results-csv-tsv/): one header row of
// variable names, one row per solution, unbound variables as empty
// fields. Neither form can express a language tag or datatype, so both
// are lossy compared to WriteJSON — callers that need that information
// back out should use the JSON form instead.
func WriteCSV(w io.Writer, r QueryResult) error {
	return writeTabular(w, r, ',')
}

func WriteTSV(w io.Writer, r QueryResult) error {
	return writeTabular(w, r, '\t')
}

func writeTabular(w io.Writer, r QueryResult, sep rune) error {
	if r.Form != ResultFormBindings {
		return fmt.Errorf("results: CSV/TSV output only supports the Solutions form, got %v", r.Form)
	}

	cw := csv.NewWriter(w)
	cw.Comma = sep
	if err := cw.Write(r.Variables); err != nil {
		return err
	}
	row := make([]string, len(r.Variables))
	for _, sol := range r.Solutions {
		for i, v := range r.Variables {
			term, ok := sol.Get(v)
			switch {
			case !ok:
				row[i] = ""
			case term.IsNamedNode():
				row[i] = term.IRI()
			case term.IsBlankNode():
				row[i] = "_:" + term.BlankNodeLabel()
			default:
				row[i] = term.LexicalForm()
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
