package analysis

import (
	"fmt"

	"github.com/minic-lang/minic-analyzer/ast"
	"github.com/minic-lang/minic-analyzer/cfg"
	"github.com/minic-lang/minic-analyzer/dataflow"
	"github.com/minic-lang/minic-analyzer/diagnostic"
	"github.com/minic-lang/minic-analyzer/symbols"
)

// DefiniteAssignment runs the forward, intersection-joined dataflow
// analysis and reports UseBeforeDef for every variable read that is not
// definitely assigned on every path reaching it.
//
// The engine's Transfer is solved first with no side effects, then the
// solved per-block IN facts drive a single deterministic report pass; this
// avoids reporting the same defect once per fixed-point iteration, since
// Transfer itself may run many times before convergence.
func DefiniteAssignment(g *cfg.Graph, fn *ast.Func, info *symbols.FuncInfo, sink *diagnostic.Sink) {
	width := uint(len(info.Symbols))
	lat := dataflow.IntersectLattice{Width: width}

	bf := dataflow.NewSetFact(width, nil)
	for _, id := range info.ParamIDs {
		bf = bf.With(id)
	}
	var boundary dataflow.Fact = bf

	transfer := func(block int, in dataflow.Fact) dataflow.Fact {
		f := in.(dataflow.SetFact)
		for _, u := range g.Block(block).Units {
			f = daApply(u, f)
		}
		return f
	}

	res := dataflow.Solve(g, dataflow.Forward, lat, boundary, transfer)

	for b := 0; b < g.NumBlocks(); b++ {
		running := res.In[b].(dataflow.SetFact)
		blk := g.Block(b)
		for _, u := range blk.Units {
			running = daCheck(u, running, info, fn.Name, sink)
		}
		switch blk.Term {
		case cfg.TermConditional:
			daCheckExpr(blk.Cond, running, info, fn.Name, sink)
		case cfg.TermReturn:
			if blk.HasReturnExpr {
				daCheckExpr(blk.ReturnExpr, running, info, fn.Name, sink)
			}
		}
	}
}

// daApply is the pure half of the transfer: it only ever grows the definite
// set, regardless of whether a use-before-def was found along the way.
func daApply(u ast.Stmt, f dataflow.SetFact) dataflow.SetFact {
	switch s := u.(type) {
	case *ast.DeclStmt:
		if s.Init != nil {
			return f.With(s.Symbol)
		}
		return f
	case *ast.AssignStmt:
		return f.With(s.Symbol)
	default:
		return f
	}
}

// daCheck checks uses in u against running, reports any undefined use, and
// returns the resulting definite set (mirroring daApply's growth rule).
func daCheck(u ast.Stmt, running dataflow.SetFact, info *symbols.FuncInfo, fnName string, sink *diagnostic.Sink) dataflow.SetFact {
	switch s := u.(type) {
	case *ast.DeclStmt:
		if s.Init != nil {
			daCheckExpr(s.Init, running, info, fnName, sink)
		}
	case *ast.AssignStmt:
		daCheckExpr(s.Value, running, info, fnName, sink)
	case *ast.PrintStmt:
		daCheckExpr(s.Value, running, info, fnName, sink)
	}
	return daApply(u, running)
}

func daCheckExpr(e ast.Expr, running dataflow.SetFact, info *symbols.FuncInfo, fnName string, sink *diagnostic.Sink) {
	switch x := e.(type) {
	case *ast.IntLit, *ast.BoolLit:
	case *ast.Ident:
		if !running.Has(x.Symbol) {
			sink.Report(diagnostic.UseBeforeDef, fnName, x.Pos, "variable %q used before it is assigned", x.Name)
		}
	case *ast.UnaryExpr:
		daCheckExpr(x.X, running, info, fnName, sink)
	case *ast.BinaryExpr:
		daCheckExpr(x.X, running, info, fnName, sink)
		daCheckExpr(x.Y, running, info, fnName, sink)
	case *ast.CallExpr:
		for _, a := range x.Args {
			daCheckExpr(a, running, info, fnName, sink)
		}
	default:
		panic(fmt.Sprintf("analysis: unhandled expression kind %T", e))
	}
}
