package analysis

import (
	"github.com/minic-lang/minic-analyzer/cfg"
	"github.com/minic-lang/minic-analyzer/diagnostic"
)

// Reachability runs a DFS from the graph's entry, pruning the infeasible
// side of a conditional edge whenever the block's condition folds to a
// constant, and reports Unreachable for every block the DFS never visits
// that still holds statement units. It returns the per-block reached flags
// so returnpath.go can reuse them without re-walking the graph.
func Reachability(g *cfg.Graph, funcName string, sink *diagnostic.Sink) []bool {
	reached := make([]bool, g.NumBlocks())

	var visit func(b int)
	visit = func(b int) {
		if reached[b] {
			return
		}
		reached[b] = true
		blk := g.Block(b)
		for _, e := range blk.Succs {
			if blk.Term == cfg.TermConditional {
				if truth, ok := FoldConst(blk.Cond).Truthy(); ok {
					if truth && e.Label == cfg.False {
						continue
					}
					if !truth && e.Label == cfg.True {
						continue
					}
				}
			}
			visit(e.To)
		}
	}
	visit(g.Entry)

	for i := 0; i < g.NumBlocks(); i++ {
		if reached[i] || i == g.Exit {
			continue
		}
		blk := g.Block(i)
		if len(blk.Units) == 0 {
			continue
		}
		sink.Report(diagnostic.Unreachable, funcName, blk.Units[0].Position(), "unreachable code")
	}

	return reached
}
