// Command quadctl is a small demo/operations CLI over a quadfusion.Engine,
// the way the teacher's cmd/server and cmd/tools exposed its EntityManager
// to an operator from the shell: flag-parsed subcommands, no cobra/urfave
// dependency, just the standard library's flag package the way the
// teacher's own command-line entry points used it.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/quadfusion/engine"
	"github.com/quadfusion/engine/factory"
	"github.com/quadfusion/engine/model"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]

	logger, _ := zap.NewProduction()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg := buildConfig()
	ctx := context.Background()
	e, err := factory.New(ctx, cfg)
	if err != nil {
		fatal("quadctl: build engine: %v", err)
	}

	switch cmd {
	case "stats":
		runStats(ctx, e)
	case "pattern":
		runPattern(ctx, e, args)
	case "insert":
		runInsert(ctx, e)
	case "export":
		runExport(ctx, e, args)
	case "import":
		runImport(ctx, e, args)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `quadctl <command> [flags]

Commands:
  stats                          print engine metadata as JSON
  pattern [-s IRI] [-p IRI] [-o TERM] [-g IRI] [-format text|json|csv|tsv]
                                  scan matching quads
  insert                         read quads (one per line, stdin) and insert them
  export -out PATH               bulk-export every quad to a Parquet snapshot
  import -in PATH                bulk-import a Parquet snapshot

Quad line syntax (matches Term.String()):
  <http://example.org/s> <http://example.org/p> "literal"@en DEFAULT

Backend selection (env):
  QUADCTL_BACKEND=memory|postgres (default memory)
  QUADCTL_PG_CONNSTRING=postgres://...`)
}

func buildConfig() *quadfusion.Config {
	cfg := quadfusion.DefaultConfig()
	if backend := os.Getenv("QUADCTL_BACKEND"); backend != "" {
		cfg.Storage.Backend = quadfusion.StorageBackend(backend)
	}
	if dsn := os.Getenv("QUADCTL_PG_CONNSTRING"); dsn != "" {
		cfg.Postgres.ConnString = dsn
	}
	return cfg
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func runStats(ctx context.Context, e *quadfusion.Engine) {
	meta, err := e.Metadata(ctx)
	if err != nil {
		fatal("quadctl stats: %v", err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		fatal("quadctl stats: encode: %v", err)
	}
}

func runPattern(ctx context.Context, e *quadfusion.Engine, args []string) {
	fs := flag.NewFlagSet("pattern", flag.ExitOnError)
	s := fs.String("s", "", "subject term")
	p := fs.String("p", "", "predicate term")
	o := fs.String("o", "", "object term")
	g := fs.String("g", "", "graph term")
	format := fs.String("format", "text", "output format: text, json, csv, or tsv")
	fs.Parse(args)

	pattern := model.QuadPattern{}
	if err := bindTerm(*s, &pattern.Subject); err != nil {
		fatal("quadctl pattern: subject: %v", err)
	}
	if err := bindTerm(*p, &pattern.Predicate); err != nil {
		fatal("quadctl pattern: predicate: %v", err)
	}
	if err := bindTerm(*o, &pattern.Object); err != nil {
		fatal("quadctl pattern: object: %v", err)
	}
	if err := bindTerm(*g, &pattern.GraphName); err != nil {
		fatal("quadctl pattern: graph: %v", err)
	}

	it, err := e.QuadsForPattern(ctx, pattern)
	if err != nil {
		fatal("quadctl pattern: %v", err)
	}
	defer it.Close()

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	if *format == "text" {
		for {
			ok, err := it.Next(ctx)
			if err != nil {
				fatal("quadctl pattern: %v", err)
			}
			if !ok {
				return
			}
			fmt.Fprintln(w, it.Quad().String())
		}
	}

	vars := []string{"s", "p", "o", "g"}
	result := quadfusion.QueryResult{Form: quadfusion.ResultFormBindings, Variables: vars}
	for {
		ok, err := it.Next(ctx)
		if err != nil {
			fatal("quadctl pattern: %v", err)
		}
		if !ok {
			break
		}
		q := it.Quad()
		sol := quadfusion.NewQuerySolution().
			With("s", q.Subject).With("p", q.Predicate).With("o", q.Object)
		if !q.GraphName.IsDefaultGraph() {
			sol = sol.With("g", q.GraphName)
		}
		result.Solutions = append(result.Solutions, sol)
	}

	var writeErr error
	switch *format {
	case "json":
		writeErr = quadfusion.WriteJSON(w, result)
	case "csv":
		writeErr = quadfusion.WriteCSV(w, result)
	case "tsv":
		writeErr = quadfusion.WriteTSV(w, result)
	default:
		fatal("quadctl pattern: unknown -format %q", *format)
	}
	if writeErr != nil {
		fatal("quadctl pattern: %v", writeErr)
	}
}

func bindTerm(raw string, field **model.Term) error {
	if raw == "" {
		return nil
	}
	t, err := parseTerm(raw)
	if err != nil {
		return err
	}
	*field = &t
	return nil
}

func runInsert(ctx context.Context, e *quadfusion.Engine) {
	scanner := bufio.NewScanner(os.Stdin)
	var quads []model.Quad
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}
		q, err := parseQuadLine(text)
		if err != nil {
			fatal("quadctl insert: line %d: %v", line, err)
		}
		quads = append(quads, q)
	}
	if err := scanner.Err(); err != nil {
		fatal("quadctl insert: reading stdin: %v", err)
	}
	n, err := e.Storage().Extend(ctx, quads)
	if err != nil {
		fatal("quadctl insert: %v", err)
	}
	fmt.Printf("inserted %d of %d quads\n", n, len(quads))
}

func runExport(ctx context.Context, e *quadfusion.Engine, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "", "destination .parquet path")
	fs.Parse(args)
	if *out == "" {
		fatal("quadctl export: -out is required")
	}
	if err := e.ExportSnapshot(ctx, *out); err != nil {
		fatal("quadctl export: %v", err)
	}
}

func runImport(ctx context.Context, e *quadfusion.Engine, args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	in := fs.String("in", "", "source .parquet path")
	fs.Parse(args)
	if *in == "" {
		fatal("quadctl import: -in is required")
	}
	n, err := e.ImportSnapshot(ctx, *in)
	if err != nil {
		fatal("quadctl import: %v", err)
	}
	fmt.Printf("imported %d quads\n", n)
}
