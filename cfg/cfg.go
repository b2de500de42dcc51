// Package cfg builds a control flow graph from a MiniC function body. This
// is the analysis core's primary input structure: every dataflow analysis
// in the analysis package walks a *cfg.Graph, never the raw AST.
//
// The graph is built once per function and is read-only afterward (the
// "arena-owned graph" design: blocks are allocated in a single slice and
// referred to by dense index, so fact stores can use plain arrays/bitsets
// keyed by block index instead of a pointer-keyed map).
package cfg

import "github.com/minic-lang/minic-analyzer/ast"

// Terminator is the closed set of ways a block can end.
type Terminator int

const (
	// TermNone marks a block that has not been closed yet (only ever
	// observed transiently during construction) or the Exit block, which
	// has no terminator at all.
	TermNone Terminator = iota
	TermFallthrough
	TermConditional
	TermReturn
)

func (t Terminator) String() string {
	switch t {
	case TermFallthrough:
		return "fallthrough"
	case TermConditional:
		return "conditional"
	case TermReturn:
		return "return"
	default:
		return "none"
	}
}

// EdgeLabel distinguishes the two out-edges of a conditional block.
type EdgeLabel int

const (
	Unconditional EdgeLabel = iota
	True
	False
)

// Edge is one outgoing edge of a block.
type Edge struct {
	Label EdgeLabel
	To    int // block index
}

// Block is a basic block: a maximal straight-line run of statement units
// with a single terminator.
type Block struct {
	Index int

	// Units holds the straight-line statements in this block: decl,
	// assign, and print statements, in source order. If and while
	// conditions are not units; they are carried on the block itself
	// (Cond) since they belong to the terminator, not the straight-line
	// body.
	Units []ast.Stmt

	Term Terminator

	// Cond is set when Term == TermConditional: the branch condition
	// whose evaluation closes the block.
	Cond ast.Expr

	// ReturnExpr is set when Term == TermReturn and the return statement
	// had a value; HasReturnExpr distinguishes "return;" from "return 0;"
	// returning a falsy-looking nil.
	ReturnExpr    ast.Expr
	HasReturnExpr bool

	Succs []Edge
	Preds []int
}

// Graph is the CFG for a single function.
type Graph struct {
	Func   *ast.Func
	Entry  int
	Exit   int
	Blocks []*Block
}

func (g *Graph) newBlock() int {
	idx := len(g.Blocks)
	g.Blocks = append(g.Blocks, &Block{Index: idx})
	return idx
}

// Block returns the block at index i.
func (g *Graph) Block(i int) *Block { return g.Blocks[i] }

// NumBlocks returns the number of blocks in the graph, including Entry and
// Exit.
func (g *Graph) NumBlocks() int { return len(g.Blocks) }

// Preds returns the predecessor block indices of block i.
func (g *Graph) Preds(i int) []int { return g.Blocks[i].Preds }

// Succs returns the successor edges of block i.
func (g *Graph) Succs(i int) []Edge { return g.Blocks[i].Succs }

// SuccIndices returns just the successor block indices of block i, dropping
// edge labels.
func (g *Graph) SuccIndices(i int) []int {
	edges := g.Blocks[i].Succs
	out := make([]int, len(edges))
	for j, e := range edges {
		out[j] = e.To
	}
	return out
}

// EdgeLabelTo returns the label of the edge from block from to block to. It
// panics if no such edge exists, since callers only ever ask about edges
// they already know are present in the graph.
func (g *Graph) EdgeLabelTo(from, to int) EdgeLabel {
	for _, e := range g.Blocks[from].Succs {
		if e.To == to {
			return e.Label
		}
	}
	panic("cfg: no edge from given blocks")
}
