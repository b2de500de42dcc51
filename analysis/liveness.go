package analysis

import (
	"github.com/minic-lang/minic-analyzer/ast"
	"github.com/minic-lang/minic-analyzer/cfg"
	"github.com/minic-lang/minic-analyzer/dataflow"
	"github.com/minic-lang/minic-analyzer/diagnostic"
	"github.com/minic-lang/minic-analyzer/symbols"
)

// Liveness runs the backward, union-joined live-variables analysis and
// reports DeadStore for every assignment whose value is never read on any
// path before the variable is assigned again or the function returns.
//
// As in DefiniteAssignment, Transfer stays pure during solving; diagnostics
// come from a single deterministic pass over the solved per-block OUT
// facts afterward.
func Liveness(g *cfg.Graph, fn *ast.Func, info *symbols.FuncInfo, sink *diagnostic.Sink) {
	width := uint(len(info.Symbols))
	lat := dataflow.UnionLattice{Width: width}
	boundary := lat.Bottom()

	transfer := func(block int, out dataflow.Fact) dataflow.Fact {
		live := out.(dataflow.SetFact)
		blk := g.Block(block)
		live = lvTerminatorUses(blk, live)
		for i := len(blk.Units) - 1; i >= 0; i-- {
			live = lvApply(blk.Units[i], live)
		}
		return live
	}

	res := dataflow.Solve(g, dataflow.Backward, lat, boundary, transfer)

	for b := 0; b < g.NumBlocks(); b++ {
		blk := g.Block(b)
		live := res.Out[b].(dataflow.SetFact)
		live = lvTerminatorUses(blk, live)
		for i := len(blk.Units) - 1; i >= 0; i-- {
			live = lvCheck(blk.Units[i], live, fn.Name, sink)
		}
	}
}

func lvTerminatorUses(blk *cfg.Block, live dataflow.SetFact) dataflow.SetFact {
	switch blk.Term {
	case cfg.TermConditional:
		return lvUses(blk.Cond, live)
	case cfg.TermReturn:
		if blk.HasReturnExpr {
			return lvUses(blk.ReturnExpr, live)
		}
	}
	return live
}

// lvApply is the pure half of the transfer: it kills the assigned symbol
// and adds the uses of its right-hand side, with no side effects.
func lvApply(u ast.Stmt, live dataflow.SetFact) dataflow.SetFact {
	switch s := u.(type) {
	case *ast.DeclStmt:
		if s.Init != nil {
			return lvUses(s.Init, live.Without(s.Symbol))
		}
		return live
	case *ast.AssignStmt:
		return lvUses(s.Value, live.Without(s.Symbol))
	case *ast.PrintStmt:
		return lvUses(s.Value, live)
	default:
		return live
	}
}

// lvCheck mirrors lvApply but additionally reports DeadStore when the
// assigned symbol is not live in the fact flowing out of this statement.
func lvCheck(u ast.Stmt, live dataflow.SetFact, fnName string, sink *diagnostic.Sink) dataflow.SetFact {
	switch s := u.(type) {
	case *ast.DeclStmt:
		if s.Init != nil {
			if !live.Has(s.Symbol) {
				sink.Report(diagnostic.DeadStore, fnName, s.Pos, "value stored in %q is never used", s.Name)
			}
			return lvUses(s.Init, live.Without(s.Symbol))
		}
		return live
	case *ast.AssignStmt:
		if !live.Has(s.Symbol) {
			sink.Report(diagnostic.DeadStore, fnName, s.Pos, "value stored in %q is never used", s.Name)
		}
		return lvUses(s.Value, live.Without(s.Symbol))
	case *ast.PrintStmt:
		return lvUses(s.Value, live)
	default:
		return live
	}
}

func lvUses(e ast.Expr, live dataflow.SetFact) dataflow.SetFact {
	switch x := e.(type) {
	case *ast.IntLit, *ast.BoolLit:
		return live
	case *ast.Ident:
		return live.With(x.Symbol)
	case *ast.UnaryExpr:
		return lvUses(x.X, live)
	case *ast.BinaryExpr:
		return lvUses(x.Y, lvUses(x.X, live))
	case *ast.CallExpr:
		for _, a := range x.Args {
			live = lvUses(a, live)
		}
		return live
	default:
		panic("analysis: unhandled expression kind in lvUses")
	}
}
