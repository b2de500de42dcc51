package analysis

import (
	"github.com/minic-lang/minic-analyzer/ast"
	"github.com/minic-lang/minic-analyzer/cfg"
	"github.com/minic-lang/minic-analyzer/dataflow"
	"github.com/minic-lang/minic-analyzer/diagnostic"
	"github.com/minic-lang/minic-analyzer/symbols"
)

// ZeroState is the three-valued zero/non-zero abstract domain, plus the
// lattice's bottom element for "not yet assigned on this path".
type ZeroState int

const (
	ZBottom ZeroState = iota
	ZUnknown
	ZZero
	ZNonzero
)

func joinState(a, b ZeroState) ZeroState {
	if a == ZBottom {
		return b
	}
	if b == ZBottom {
		return a
	}
	if a == b {
		return a
	}
	return ZUnknown
}

// ZeroFact maps integer-typed symbol ids to their abstract value. Absent
// keys are ZBottom: a variable not yet assigned on this path. An int whose
// value is not known gets an explicit ZUnknown entry; bool-typed symbols
// are never given an entry.
type ZeroFact struct {
	states map[int]ZeroState
}

func (f ZeroFact) Get(id int) ZeroState {
	if f.states == nil {
		return ZBottom
	}
	return f.states[id]
}

func (f ZeroFact) Set(id int, s ZeroState) ZeroFact {
	clone := make(map[int]ZeroState, len(f.states)+1)
	for k, v := range f.states {
		clone[k] = v
	}
	clone[id] = s
	return ZeroFact{states: clone}
}

func (f ZeroFact) Equal(other dataflow.Fact) bool {
	o, ok := other.(ZeroFact)
	if !ok {
		return false
	}
	for k, v := range f.states {
		if o.Get(k) != v {
			return false
		}
	}
	for k, v := range o.states {
		if f.Get(k) != v {
			return false
		}
	}
	return true
}

// Zero runs the path-sensitive zero/non-zero analysis and reports
// DivisionByZero, PossibleDivisionByZero, and ConstantOverflow.
func Zero(g *cfg.Graph, fn *ast.Func, info *symbols.FuncInfo, sink *diagnostic.Sink) {
	intSyms := map[int]bool{}
	for _, sym := range info.Symbols {
		if sym.Type == ast.Int {
			intSyms[sym.ID] = true
		}
	}

	lat := refiningZeroLattice{g: g, intSyms: intSyms}
	bf := lat.Bottom().(ZeroFact)
	for _, id := range info.ParamIDs {
		if intSyms[id] {
			bf = bf.Set(id, ZUnknown)
		}
	}
	var boundary dataflow.Fact = bf

	transfer := func(block int, in dataflow.Fact) dataflow.Fact {
		f := in.(ZeroFact)
		for _, u := range g.Block(block).Units {
			f = zApply(u, f, intSyms)
		}
		return f
	}

	res := dataflow.Solve(g, dataflow.Forward, lat, boundary, transfer)

	for b := 0; b < g.NumBlocks(); b++ {
		running := res.In[b].(ZeroFact)
		blk := g.Block(b)
		for _, u := range blk.Units {
			checkDivisions(unitExpr(u), running, fn.Name, sink)
			running = zApplyChecked(u, running, intSyms, fn.Name, sink)
		}
		switch blk.Term {
		case cfg.TermConditional:
			checkDivisions(blk.Cond, running, fn.Name, sink)
		case cfg.TermReturn:
			if blk.HasReturnExpr {
				checkDivisions(blk.ReturnExpr, running, fn.Name, sink)
			}
		}
	}
}

// refiningZeroLattice is both the dataflow.Lattice and dataflow.Refiner for
// the zero/non-zero analysis; Refine is what turns a branch condition into
// a narrower fact on the edge it labels.
type refiningZeroLattice struct {
	g       *cfg.Graph
	intSyms map[int]bool
}

func (refiningZeroLattice) Bottom() dataflow.Fact { return ZeroFact{} }

func (refiningZeroLattice) Join(facts []dataflow.Fact) dataflow.Fact {
	acc := map[int]ZeroState{}
	for _, raw := range facts {
		zf := raw.(ZeroFact)
		for id, s := range zf.states {
			acc[id] = joinState(acc[id], s)
		}
	}
	return ZeroFact{states: acc}
}

func (l refiningZeroLattice) Refine(fact dataflow.Fact, fromBlock int, label cfg.EdgeLabel) dataflow.Fact {
	blk := l.g.Block(fromBlock)
	if blk.Term != cfg.TermConditional {
		return fact
	}
	refined := refineCond(blk.Cond, label, fact.(ZeroFact))
	kept := make(map[int]ZeroState, len(refined.states))
	for id, s := range refined.states {
		if l.intSyms[id] {
			kept[id] = s
		}
	}
	return ZeroFact{states: kept}
}

func flip(label cfg.EdgeLabel) cfg.EdgeLabel {
	if label == cfg.True {
		return cfg.False
	}
	if label == cfg.False {
		return cfg.True
	}
	return label
}

// identVsZero recognizes `ident == 0` / `ident != 0` in either operand
// order, returning the ident's symbol.
func identVsZero(x, y ast.Expr) (int, bool) {
	if id, ok := x.(*ast.Ident); ok {
		if lit, ok := y.(*ast.IntLit); ok && lit.Value == 0 {
			return id.Symbol, true
		}
	}
	if id, ok := y.(*ast.Ident); ok {
		if lit, ok := x.(*ast.IntLit); ok && lit.Value == 0 {
			return id.Symbol, true
		}
	}
	return 0, false
}

func refineCond(cond ast.Expr, label cfg.EdgeLabel, fact ZeroFact) ZeroFact {
	switch c := cond.(type) {
	case *ast.Ident:
		if label == cfg.True {
			return fact.Set(c.Symbol, ZNonzero)
		}
		if label == cfg.False {
			return fact.Set(c.Symbol, ZZero)
		}
		return fact

	case *ast.UnaryExpr:
		if c.Op == ast.Not {
			return refineCond(c.X, flip(label), fact)
		}
		return fact

	case *ast.BinaryExpr:
		switch c.Op {
		case ast.Eq:
			if sym, ok := identVsZero(c.X, c.Y); ok {
				if label == cfg.True {
					return fact.Set(sym, ZZero)
				}
				if label == cfg.False {
					return fact.Set(sym, ZNonzero)
				}
			}
			return fact
		case ast.Ne:
			if sym, ok := identVsZero(c.X, c.Y); ok {
				if label == cfg.True {
					return fact.Set(sym, ZNonzero)
				}
				if label == cfg.False {
					return fact.Set(sym, ZZero)
				}
			}
			return fact
		case ast.And:
			if label == cfg.True {
				fact = refineCond(c.X, cfg.True, fact)
				fact = refineCond(c.Y, cfg.True, fact)
			}
			return fact
		case ast.Or:
			if label == cfg.False {
				fact = refineCond(c.X, cfg.False, fact)
				fact = refineCond(c.Y, cfg.False, fact)
			}
			return fact
		default:
			return fact
		}

	default:
		return fact
	}
}

// exprZeroState computes e's abstract value from the running fact, without
// reporting anything. A folded literal takes precedence over shape-based
// reasoning; overflow is reported only by the caller that already has a
// sink in scope.
func exprZeroState(e ast.Expr, running ZeroFact) (state ZeroState, overflow bool) {
	if cv := FoldConst(e); cv.Valid && cv.Type == ast.Int {
		if cv.Int == 0 {
			return ZZero, false
		}
		return ZNonzero, false
	} else if cv.Overflow {
		return ZUnknown, true
	}

	switch x := e.(type) {
	case *ast.Ident:
		return running.Get(x.Symbol), false
	case *ast.UnaryExpr:
		if x.Op == ast.Neg {
			s, ov := exprZeroState(x.X, running)
			return s, ov
		}
		return ZUnknown, false
	case *ast.BinaryExpr:
		if x.Op == ast.Mul {
			a, ova := exprZeroState(x.X, running)
			b, ovb := exprZeroState(x.Y, running)
			ov := ova || ovb
			if a == ZZero || b == ZZero {
				return ZZero, ov
			}
			if a == ZNonzero && b == ZNonzero {
				return ZNonzero, ov
			}
			return ZUnknown, ov
		}
		return ZUnknown, false
	default:
		return ZUnknown, false
	}
}

// unitExpr returns the single expression a statement unit evaluates, or
// nil for a declaration with no initializer.
func unitExpr(u ast.Stmt) ast.Expr {
	switch s := u.(type) {
	case *ast.DeclStmt:
		return s.Init
	case *ast.AssignStmt:
		return s.Value
	case *ast.PrintStmt:
		return s.Value
	default:
		return nil
	}
}

func assignedSymbol(u ast.Stmt) (int, ast.Expr, bool) {
	switch s := u.(type) {
	case *ast.DeclStmt:
		if s.Init != nil {
			return s.Symbol, s.Init, true
		}
	case *ast.AssignStmt:
		return s.Symbol, s.Value, true
	}
	return 0, nil, false
}

func zApply(u ast.Stmt, f ZeroFact, intSyms map[int]bool) ZeroFact {
	sym, e, ok := assignedSymbol(u)
	if !ok || !intSyms[sym] {
		return f
	}
	state, _ := exprZeroState(e, f)
	return f.Set(sym, state)
}

func zApplyChecked(u ast.Stmt, f ZeroFact, intSyms map[int]bool, fnName string, sink *diagnostic.Sink) ZeroFact {
	sym, e, ok := assignedSymbol(u)
	if !ok {
		return f
	}
	if cv := FoldConst(e); cv.Overflow {
		sink.Report(diagnostic.ConstantOverflow, fnName, e.Position(), "constant expression overflows a 32-bit signed integer")
	}
	if !intSyms[sym] {
		return f
	}
	state, _ := exprZeroState(e, f)
	return f.Set(sym, state)
}

// checkDivisions recursively reports DivisionByZero/PossibleDivisionByZero
// for every division found in e, evaluated against running.
func checkDivisions(e ast.Expr, running ZeroFact, fnName string, sink *diagnostic.Sink) {
	if e == nil {
		return
	}
	switch x := e.(type) {
	case *ast.IntLit, *ast.BoolLit, *ast.Ident:
	case *ast.UnaryExpr:
		checkDivisions(x.X, running, fnName, sink)
	case *ast.CallExpr:
		for _, a := range x.Args {
			checkDivisions(a, running, fnName, sink)
		}
	case *ast.BinaryExpr:
		checkDivisions(x.X, running, fnName, sink)
		checkDivisions(x.Y, running, fnName, sink)
		if x.Op == ast.Div {
			state, _ := exprZeroState(x.Y, running)
			switch state {
			case ZZero:
				sink.Report(diagnostic.DivisionByZero, fnName, x.Pos, "division by a value proven zero")
			case ZUnknown:
				sink.Report(diagnostic.PossibleDivisionByZero, fnName, x.Pos, "division by a value that may be zero")
			}
		}
	}
}
