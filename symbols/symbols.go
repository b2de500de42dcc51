// Package symbols binds every name-use in a parsed MiniC function to a
// unique, dense per-function symbol id and declared type, and rejects the
// plain name/type errors that are not the analysis core's concern:
// undeclared names, redeclaration within a scope, assigning an int or bool
// literal to a variable of the other type, and a bare int literal used as a
// condition. Non-literal expressions are not type-checked. It is a
// front-end collaborator;
// the core only ever sees the resolved ast.Ident.Symbol / ast.DeclStmt.Symbol
// fields it produces.
package symbols

import (
	"fmt"

	"github.com/minic-lang/minic-analyzer/ast"
	"github.com/minic-lang/minic-analyzer/token"
)

// Kind distinguishes a parameter from a local variable.
type Kind int

const (
	Param Kind = iota
	Local
)

// Symbol is the resolved information for one declared variable, keyed by a
// dense id that is unique within its function (so dataflow facts can be
// represented as bitsets/arrays indexed by id).
type Symbol struct {
	ID      int
	Name    string
	Type    ast.Type
	ScopeID int
	Kind    Kind
}

// FuncInfo is the result of binding a single function: its resolved symbol
// table and, for convenience, the ids of its parameters in declaration
// order. Parameters are definitely assigned on entry; locals are not, so
// ParamIDs doubles as the definite-assignment analysis's boundary value.
type FuncInfo struct {
	Symbols  []*Symbol
	ParamIDs []int
}

// ErrBind reports a single binding failure (undeclared name, redeclaration,
// or type mismatch) with its source position.
type ErrBind struct {
	Pos token.Position
	Msg string
}

func (e *ErrBind) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

type scope struct {
	id     int
	parent *scope
	names  map[string]*Symbol
}

func (s *scope) lookup(name string) (*Symbol, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.names[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// Binder resolves one function at a time.
type Binder struct {
	nextScope int
	nextSym   int
	info      *FuncInfo
	errs      []error
}

// Bind resolves every declaration and name-use in fn, mutating its AST nodes
// in place (filling in Symbol fields) and returning the resolved FuncInfo.
// All binding errors are returned together rather than failing on the
// first one, mirroring how the analysis core itself never aborts on a
// single defect.
func Bind(fn *ast.Func) (*FuncInfo, []error) {
	b := &Binder{info: &FuncInfo{}}
	top := &scope{id: b.newScope(), names: map[string]*Symbol{}}

	for _, p := range fn.Params {
		sym := b.declare(top, p.Name, p.Type, Param, p.Pos)
		p.Symbol = sym.ID
		b.info.ParamIDs = append(b.info.ParamIDs, sym.ID)
	}

	b.bindBlock(fn.Body, top)
	return b.info, b.errs
}

func (b *Binder) newScope() int {
	id := b.nextScope
	b.nextScope++
	return id
}

func (b *Binder) errf(pos token.Position, format string, args ...interface{}) {
	b.errs = append(b.errs, &ErrBind{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

func (b *Binder) declare(sc *scope, name string, typ ast.Type, kind Kind, pos token.Position) *Symbol {
	if _, dup := sc.names[name]; dup {
		b.errf(pos, "%q is already declared in this scope", name)
	}
	sym := &Symbol{ID: b.nextSym, Name: name, Type: typ, ScopeID: sc.id, Kind: kind}
	b.nextSym++
	sc.names[name] = sym
	b.info.Symbols = append(b.info.Symbols, sym)
	return sym
}

func (b *Binder) bindBlock(block *ast.Block, parent *scope) {
	sc := &scope{id: b.newScope(), parent: parent, names: map[string]*Symbol{}}
	for _, stmt := range block.Stmts {
		b.bindStmt(stmt, sc)
	}
}

func (b *Binder) bindStmt(stmt ast.Stmt, sc *scope) {
	switch s := stmt.(type) {
	case *ast.DeclStmt:
		if s.Init != nil {
			b.bindExpr(s.Init, sc)
			b.checkAssignable(s.Type, s.Init, s.Pos)
		}
		sym := b.declare(sc, s.Name, s.Type, Local, s.Pos)
		s.Symbol = sym.ID
	case *ast.AssignStmt:
		b.bindExpr(s.Value, sc)
		if sym, ok := sc.lookup(s.Name); ok {
			s.Symbol = sym.ID
			b.checkAssignable(sym.Type, s.Value, s.Pos)
		} else {
			b.errf(s.Pos, "undeclared variable %q", s.Name)
		}
	case *ast.IfStmt:
		b.bindExpr(s.Cond, sc)
		b.checkBool(s.Cond)
		b.bindBlock(s.Then, sc)
		if s.Else != nil {
			b.bindBlock(s.Else, sc)
		}
	case *ast.WhileStmt:
		b.bindExpr(s.Cond, sc)
		b.checkBool(s.Cond)
		b.bindBlock(s.Body, sc)
	case *ast.ReturnStmt:
		if s.Value != nil {
			b.bindExpr(s.Value, sc)
		}
	case *ast.PrintStmt:
		b.bindExpr(s.Value, sc)
	case *ast.NestedBlock:
		b.bindBlock(s.Body, sc)
	default:
		panic(fmt.Sprintf("symbols: unhandled statement kind %T", stmt))
	}
}

func (b *Binder) bindExpr(expr ast.Expr, sc *scope) {
	switch e := expr.(type) {
	case *ast.IntLit, *ast.BoolLit:
		// no names to resolve
	case *ast.Ident:
		sym, ok := sc.lookup(e.Name)
		if !ok {
			b.errf(e.Pos, "undeclared variable %q", e.Name)
			return
		}
		e.Symbol = sym.ID
	case *ast.UnaryExpr:
		b.bindExpr(e.X, sc)
	case *ast.BinaryExpr:
		b.bindExpr(e.X, sc)
		b.bindExpr(e.Y, sc)
	case *ast.CallExpr:
		for _, a := range e.Args {
			b.bindExpr(a, sc)
		}
	default:
		panic(fmt.Sprintf("symbols: unhandled expression kind %T", expr))
	}
}

// checkBool is a plain type check, not the analysis core's concern: a
// branch condition must be boolean-typed. Errors are attached to the binder
// but do not block further binding.
func (b *Binder) checkBool(cond ast.Expr) {
	// Literal-level check only; a full type checker would thread inferred
	// types through every expression. That wider pass is a separate,
	// out-of-scope front-end concern, so it is intentionally left shallow
	// here.
	if lit, ok := cond.(*ast.IntLit); ok {
		b.errf(lit.Pos, "condition must be bool, found int")
	}
}

func (b *Binder) checkAssignable(want ast.Type, value ast.Expr, pos token.Position) {
	switch v := value.(type) {
	case *ast.IntLit:
		if want != ast.Int {
			b.errf(pos, "cannot assign int to %s", want)
		}
	case *ast.BoolLit:
		if want != ast.Bool {
			b.errf(pos, "cannot assign bool to %s", want)
		}
	case *ast.Ident:
		_ = v // symbol already resolved; full cross-type checking is out of
		// scope for this shallow collaborator (see checkBool).
	}
}
