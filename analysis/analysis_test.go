package analysis

import (
	"testing"

	"github.com/minic-lang/minic-analyzer/ast"
	"github.com/minic-lang/minic-analyzer/cfg"
	"github.com/minic-lang/minic-analyzer/diagnostic"
	"github.com/minic-lang/minic-analyzer/parser"
	"github.com/minic-lang/minic-analyzer/symbols"
)

// runFunc parses src, binds every function in it, builds each function's
// CFG, and runs every core analysis over it, mirroring cliapp.analyzeFunc so
// per-analysis tests exercise the same wiring the CLI does.
func runFunc(t *testing.T, src string) *diagnostic.Sink {
	t.Helper()
	prog, err := parser.Parse("t.minic", []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	infos := make(map[*ast.Func]*symbols.FuncInfo, len(prog.Funcs))
	for _, f := range prog.Funcs {
		info, errs := symbols.Bind(f)
		if len(errs) != 0 {
			t.Fatalf("Bind: %v", errs)
		}
		infos[f] = info
	}

	sink := &diagnostic.Sink{}
	for _, f := range prog.Funcs {
		g := cfg.Build(f)
		reached := Reachability(g, f.Name, sink)
		ReturnPath(g, f, reached, sink)
		DefiniteAssignment(g, f, infos[f], sink)
		Liveness(g, f, infos[f], sink)
		Zero(g, f, infos[f], sink)
	}
	return sink
}

func kinds(sink *diagnostic.Sink) []diagnostic.Kind {
	var ks []diagnostic.Kind
	for _, d := range sink.Diagnostics {
		ks = append(ks, d.Kind)
	}
	return ks
}

func hasKind(sink *diagnostic.Sink, k diagnostic.Kind) bool {
	for _, d := range sink.Diagnostics {
		if d.Kind == k {
			return true
		}
	}
	return false
}

func countKind(sink *diagnostic.Sink, k diagnostic.Kind) int {
	n := 0
	for _, d := range sink.Diagnostics {
		if d.Kind == k {
			n++
		}
	}
	return n
}
