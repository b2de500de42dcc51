package cfg

import "github.com/minic-lang/minic-analyzer/ast"

// Build constructs the control flow graph for fn's body. The builder walks
// the statement list with a "current block" cursor, exactly as a
// straight-line sequence of units accumulates until a control statement
// forces a new block; if and while each expand into their own
// fixed shape of blocks and edges.
//
// A cursor of -1 means "no open block": every statement on the path so far
// has returned. The next statement encountered in that state starts a fresh
// orphan block with no predecessor, so that code following an
// always-returning branch is structurally disconnected from the entry and
// is caught by the reachability analysis rather than silently dropped.
func Build(fn *ast.Func) *Graph {
	g := &Graph{Func: fn}
	g.Entry = g.newBlock()
	g.Exit = g.newBlock()

	b := &builder{g: g}
	cur := b.buildStmts(fn.Body.Stmts, g.Entry)
	if cur != -1 {
		g.Blocks[cur].Term = TermFallthrough
		b.link(cur, Unconditional, g.Exit)
	}
	return g
}

type builder struct {
	g *Graph
}

func (b *builder) link(from int, label EdgeLabel, to int) {
	g := b.g
	g.Blocks[from].Succs = append(g.Blocks[from].Succs, Edge{Label: label, To: to})
	g.Blocks[to].Preds = append(g.Blocks[to].Preds, from)
}

// buildStmts appends stmts to cur in order, returning the resulting open
// block (or -1 if every path through stmts returns).
func (b *builder) buildStmts(stmts []ast.Stmt, cur int) int {
	for _, s := range stmts {
		if cur == -1 {
			cur = b.g.newBlock()
		}
		cur = b.buildStmt(s, cur)
	}
	return cur
}

func (b *builder) buildStmt(s ast.Stmt, cur int) int {
	g := b.g
	switch st := s.(type) {
	case *ast.DeclStmt, *ast.AssignStmt, *ast.PrintStmt:
		blk := g.Blocks[cur]
		blk.Units = append(blk.Units, s)
		return cur
	case *ast.NestedBlock:
		return b.buildStmts(st.Body.Stmts, cur)
	case *ast.IfStmt:
		return b.buildIf(st, cur)
	case *ast.WhileStmt:
		return b.buildWhile(st, cur)
	case *ast.ReturnStmt:
		blk := g.Blocks[cur]
		blk.Term = TermReturn
		if st.Value != nil {
			blk.ReturnExpr = st.Value
			blk.HasReturnExpr = true
		}
		b.link(cur, Unconditional, g.Exit)
		return -1
	default:
		panic("cfg: unhandled statement kind")
	}
}

func (b *builder) buildIf(st *ast.IfStmt, cur int) int {
	g := b.g

	thenBlock := g.newBlock()
	b.link(cur, True, thenBlock)
	thenTrail := b.buildStmts(st.Then.Stmts, thenBlock)

	hasElse := st.Else != nil
	elseTrail := -1
	if hasElse {
		elseBlock := g.newBlock()
		b.link(cur, False, elseBlock)
		elseTrail = b.buildStmts(st.Else.Stmts, elseBlock)
	}

	blk := g.Blocks[cur]
	blk.Term = TermConditional
	blk.Cond = st.Cond

	if hasElse && thenTrail == -1 && elseTrail == -1 {
		return -1
	}

	join := g.newBlock()
	if thenTrail != -1 {
		g.Blocks[thenTrail].Term = TermFallthrough
		b.link(thenTrail, Unconditional, join)
	}
	if hasElse {
		if elseTrail != -1 {
			g.Blocks[elseTrail].Term = TermFallthrough
			b.link(elseTrail, Unconditional, join)
		}
	} else {
		b.link(cur, False, join)
	}
	return join
}

func (b *builder) buildWhile(st *ast.WhileStmt, cur int) int {
	g := b.g

	header := g.newBlock()
	g.Blocks[cur].Term = TermFallthrough
	b.link(cur, Unconditional, header)

	body := g.newBlock()
	after := g.newBlock()
	g.Blocks[header].Term = TermConditional
	g.Blocks[header].Cond = st.Cond
	b.link(header, True, body)
	b.link(header, False, after)

	bodyTrail := b.buildStmts(st.Body.Stmts, body)
	if bodyTrail != -1 {
		g.Blocks[bodyTrail].Term = TermFallthrough
		b.link(bodyTrail, Unconditional, header)
	}
	return after
}
