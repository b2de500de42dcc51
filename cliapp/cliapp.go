// Package cliapp implements the minic-analyzer command line, grounded on
// the teacher's engine/cli package: a single Run entry point over
// injected stdin/stdout/stderr, flag-based configuration, and an integer
// exit code a thin main() just passes to os.Exit.
package cliapp

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/minic-lang/minic-analyzer/analysis"
	"github.com/minic-lang/minic-analyzer/ast"
	"github.com/minic-lang/minic-analyzer/cfg"
	"github.com/minic-lang/minic-analyzer/diagnostic"
	"github.com/minic-lang/minic-analyzer/parser"
	"github.com/minic-lang/minic-analyzer/report"
	"github.com/minic-lang/minic-analyzer/symbols"
)

const useHelp = "Run 'minic-analyzer -help' for more information.\n"

// Run runs the minic-analyzer command-line interface. Typical usage is
//
//	os.Exit(cliapp.Run(os.Stdin, os.Stdout, os.Stderr, os.Args))
//
// All arguments must be non-nil, and args[0] is required.
func Run(stdin io.Reader, stdout, stderr io.Writer, args []string) int {
	flags := flag.NewFlagSet("minic-analyzer", flag.ContinueOnError)

	formatFlag := flags.String("format", "text", "Output format: text or sarif")
	colorFlag := flags.Bool("color", false, "Force-enable colored text output")

	flags.Usage = func() { fmt.Fprint(stderr, useHelp) }
	flags.SetOutput(stderr)
	if err := flags.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			printHelp(flags, stderr)
			return 2
		}
		return 2
	}

	if *formatFlag != "text" && *formatFlag != "sarif" {
		fmt.Fprintf(stderr, "Error: -format must be \"text\" or \"sarif\", found %q\n", *formatFlag)
		return 2
	}

	rest := flags.Args()
	if len(rest) != 1 {
		printHelp(flags, stderr)
		return 2
	}

	var src []byte
	var filename string
	if rest[0] == "-" {
		filename = "<stdin>"
		data, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %s\n", err)
			return 2
		}
		src = data
	} else {
		filename = rest[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %s\n", err)
			return 2
		}
		src = data
	}

	sink, runErr := runWithRecovery(filename, src)
	if runErr != nil {
		fmt.Fprintf(stderr, "Error: %s\n", runErr)
		return 2
	}

	sink.Sort()

	color := *colorFlag
	if !color && *formatFlag == "text" {
		color = isTTY(stdout)
	}

	var writeErr error
	switch *formatFlag {
	case "sarif":
		writeErr = report.SARIF(stdout, sink)
	default:
		writeErr = report.Text(stdout, sink, color)
	}
	if writeErr != nil {
		fmt.Fprintf(stderr, "Error: %s\n", writeErr)
		return 2
	}

	if sink.HasErrors() {
		return 1
	}
	return 0
}

func printHelp(flags *flag.FlagSet, stderr io.Writer) {
	fmt.Fprintln(stderr, `MiniC static analyzer.
Usage: minic-analyzer [<flag> ...] <file>
Use "-" as <file> to read from standard input.

Each <flag> must be one of the following:`)
	flags.VisitAll(func(f *flag.Flag) {
		fmt.Fprintf(stderr, "    -%-8s %s\n", f.Name, f.Usage)
	})
}

// runWithRecovery parses, binds, and analyzes every function in filename,
// recovering any internal-invariant panic (a malformed AST reaching a core
// package's exhaustive type switch) as a single internal-error result,
// rather than letting it escape to main.
func runWithRecovery(filename string, src []byte) (sink *diagnostic.Sink, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()
	return runPipeline(filename, src)
}

// runPipeline parses the source, binds each function's names, and runs the
// full analysis core over it. A front-end failure (syntax error or a
// rejected name/type error from the symbol binder) is a single aggregated
// error, not a diagnostic: these are "the input was not a valid MiniC
// program" failures, distinct from the closed set of defects the core
// itself reports.
func runPipeline(filename string, src []byte) (*diagnostic.Sink, error) {
	prog, err := parser.Parse(filename, src)
	if err != nil {
		return nil, err
	}

	var bindErrs []string
	infos := make(map[*ast.Func]*symbols.FuncInfo, len(prog.Funcs))
	for _, fn := range prog.Funcs {
		info, errs := symbols.Bind(fn)
		infos[fn] = info
		for _, e := range errs {
			bindErrs = append(bindErrs, e.Error())
		}
	}
	if len(bindErrs) > 0 {
		return nil, errors.New(strings.Join(bindErrs, "\n"))
	}

	sink := &diagnostic.Sink{}
	for _, fn := range prog.Funcs {
		analyzeFunc(fn, infos[fn], sink)
	}
	return sink, nil
}

func analyzeFunc(fn *ast.Func, info *symbols.FuncInfo, sink *diagnostic.Sink) {
	g := cfg.Build(fn)
	reached := analysis.Reachability(g, fn.Name, sink)
	analysis.ReturnPath(g, fn, reached, sink)
	analysis.DefiniteAssignment(g, fn, info, sink)
	analysis.Liveness(g, fn, info, sink)
	analysis.Zero(g, fn, info, sink)
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
