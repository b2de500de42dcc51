package analysis

import (
	"github.com/minic-lang/minic-analyzer/ast"
	"github.com/minic-lang/minic-analyzer/cfg"
	"github.com/minic-lang/minic-analyzer/diagnostic"
)

// ReturnPath reports MissingReturn once for every reachable predecessor of
// exit that falls through to it rather than returning: control running off
// the end of the function body. reached is the result of Reachability,
// reused here so a structurally-present but provably-infeasible
// fall-through (e.g. after a constant-true while loop) is not flagged.
func ReturnPath(g *cfg.Graph, fn *ast.Func, reached []bool, sink *diagnostic.Sink) {
	for _, p := range g.Preds(g.Exit) {
		if !reached[p] {
			continue
		}
		if g.Block(p).Term == cfg.TermFallthrough {
			sink.Report(diagnostic.MissingReturn, fn.Name, fn.End, "missing return statement")
		}
	}
}
