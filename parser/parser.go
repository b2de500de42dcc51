// Package parser implements a recursive-descent parser that turns a MiniC
// token stream into the typed AST the analysis core consumes. Like the
// lexer, it is a front-end collaborator: it is responsible for syntax only,
// never for the name/type resolution the symbols package performs.
package parser

import (
	"fmt"

	"github.com/minic-lang/minic-analyzer/ast"
	"github.com/minic-lang/minic-analyzer/lexer"
	"github.com/minic-lang/minic-analyzer/token"
)

// ErrSyntax reports a single parse failure with its source position.
type ErrSyntax struct {
	Pos token.Position
	Msg string
}

func (e *ErrSyntax) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Parser consumes a token stream and builds a *ast.Program.
type Parser struct {
	lex  *lexer.Lexer
	tok  lexer.Token
	next lexer.Token
}

// Parse parses the named file's contents into a *ast.Program.
func Parse(file string, src []byte) (*ast.Program, error) {
	l := lexer.New(file, src)
	p := &Parser{lex: l}
	p.tok = l.Next()
	p.next = l.Next()

	var prog *ast.Program
	err := p.recover(func() {
		prog = p.parseProgram()
	})
	if err != nil {
		return nil, err
	}
	if l.Err() != nil {
		return nil, l.Err()
	}
	return prog, nil
}

// recover converts the panic thrown by fail() back into an error, so callers
// never see a panic escape Parse for a mere syntax error (a malformed AST
// escaping the front-end is still a programmer error, handled by the
// analysis core's own panic boundary, but a syntax error in the source text
// is expected, recoverable input).
func (p *Parser) recover(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*ErrSyntax); ok {
				err = se
				return
			}
			panic(r)
		}
	}()
	f()
	return nil
}

func (p *Parser) fail(format string, args ...interface{}) {
	panic(&ErrSyntax{Pos: p.tok.Pos, Msg: fmt.Sprintf(format, args...)})
}

func (p *Parser) advance() {
	p.tok = p.next
	p.next = p.lex.Next()
}

func (p *Parser) expect(k lexer.Kind, what string) lexer.Token {
	if p.tok.Kind != k {
		p.fail("expected %s, found %q", what, p.tok.Text)
	}
	t := p.tok
	p.advance()
	return t
}

func (p *Parser) at(k lexer.Kind) bool { return p.tok.Kind == k }

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.at(lexer.EOF) {
		prog.Funcs = append(prog.Funcs, p.parseFunc())
	}
	return prog
}

func (p *Parser) parseType() ast.Type {
	switch p.tok.Kind {
	case lexer.KwInt:
		p.advance()
		return ast.Int
	case lexer.KwBool:
		p.advance()
		return ast.Bool
	default:
		p.fail("expected type, found %q", p.tok.Text)
		return ast.Invalid
	}
}

func (p *Parser) parseFunc() *ast.Func {
	pos := p.tok.Pos
	retType := p.parseType()
	name := p.expect(lexer.Ident, "function name").Text

	p.expect(lexer.LParen, "(")
	var params []*ast.Param
	for !p.at(lexer.RParen) {
		if len(params) > 0 {
			p.expect(lexer.Comma, ",")
		}
		ppos := p.tok.Pos
		ptype := p.parseType()
		pname := p.expect(lexer.Ident, "parameter name").Text
		params = append(params, &ast.Param{Name: pname, Type: ptype, Pos: ppos})
	}
	p.expect(lexer.RParen, ")")

	body, end := p.parseBlockWithEnd()
	return &ast.Func{Name: name, Params: params, ReturnType: retType, Body: body, Pos: pos, End: end}
}

// parseBlockWithEnd parses a `{ ... }` block and also returns the position
// of its closing brace, used to anchor MissingReturn diagnostics.
func (p *Parser) parseBlockWithEnd() (*ast.Block, token.Position) {
	pos := p.expect(lexer.LBrace, "{").Pos
	block := &ast.Block{Pos: pos}
	for !p.at(lexer.RBrace) {
		block.Stmts = append(block.Stmts, p.parseStmt())
	}
	end := p.tok.Pos
	p.expect(lexer.RBrace, "}")
	return block, end
}

func (p *Parser) parseBlock() *ast.Block {
	b, _ := p.parseBlockWithEnd()
	return b
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.tok.Kind {
	case lexer.KwInt, lexer.KwBool:
		return p.parseDecl()
	case lexer.KwIf:
		return p.parseIf()
	case lexer.KwWhile:
		return p.parseWhile()
	case lexer.KwReturn:
		return p.parseReturn()
	case lexer.KwPrint:
		return p.parsePrint()
	case lexer.LBrace:
		pos := p.tok.Pos
		body := p.parseBlock()
		return &ast.NestedBlock{Body: body, Pos: pos}
	case lexer.Ident:
		return p.parseAssign()
	default:
		p.fail("expected statement, found %q", p.tok.Text)
		return nil
	}
}

func (p *Parser) parseDecl() ast.Stmt {
	pos := p.tok.Pos
	typ := p.parseType()
	name := p.expect(lexer.Ident, "variable name").Text
	var init ast.Expr
	if p.at(lexer.Assign) {
		p.advance()
		init = p.parseExpr()
	}
	p.expect(lexer.Semi, ";")
	return &ast.DeclStmt{Name: name, Type: typ, Init: init, Pos: pos}
}

func (p *Parser) parseAssign() ast.Stmt {
	pos := p.tok.Pos
	name := p.expect(lexer.Ident, "identifier").Text
	p.expect(lexer.Assign, "=")
	value := p.parseExpr()
	p.expect(lexer.Semi, ";")
	return &ast.AssignStmt{Name: name, Value: value, Pos: pos}
}

func (p *Parser) parseIf() ast.Stmt {
	pos := p.tok.Pos
	p.advance()
	p.expect(lexer.LParen, "(")
	cond := p.parseExpr()
	p.expect(lexer.RParen, ")")
	then := p.parseBlock()
	var els *ast.Block
	if p.at(lexer.KwElse) {
		p.advance()
		els = p.parseBlock()
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: els, Pos: pos}
}

func (p *Parser) parseWhile() ast.Stmt {
	pos := p.tok.Pos
	p.advance()
	p.expect(lexer.LParen, "(")
	cond := p.parseExpr()
	p.expect(lexer.RParen, ")")
	body := p.parseBlock()
	return &ast.WhileStmt{Cond: cond, Body: body, Pos: pos}
}

func (p *Parser) parseReturn() ast.Stmt {
	pos := p.tok.Pos
	p.advance()
	var value ast.Expr
	if !p.at(lexer.Semi) {
		value = p.parseExpr()
	}
	p.expect(lexer.Semi, ";")
	return &ast.ReturnStmt{Value: value, Pos: pos}
}

func (p *Parser) parsePrint() ast.Stmt {
	pos := p.tok.Pos
	p.advance()
	p.expect(lexer.LParen, "(")
	value := p.parseExpr()
	p.expect(lexer.RParen, ")")
	p.expect(lexer.Semi, ";")
	return &ast.PrintStmt{Value: value, Pos: pos}
}

// Expressions, precedence climbing from lowest to highest:
//   || -> && -> equality -> relational -> additive -> multiplicative -> unary -> primary

func (p *Parser) parseExpr() ast.Expr { return p.parseOr() }

func (p *Parser) parseOr() ast.Expr {
	x := p.parseAnd()
	for p.at(lexer.OrOr) {
		pos := p.tok.Pos
		p.advance()
		x = &ast.BinaryExpr{Op: ast.Or, X: x, Y: p.parseAnd(), Pos: pos}
	}
	return x
}

func (p *Parser) parseAnd() ast.Expr {
	x := p.parseEquality()
	for p.at(lexer.AndAnd) {
		pos := p.tok.Pos
		p.advance()
		x = &ast.BinaryExpr{Op: ast.And, X: x, Y: p.parseEquality(), Pos: pos}
	}
	return x
}

func (p *Parser) parseEquality() ast.Expr {
	x := p.parseRelational()
	for p.at(lexer.EqEq) || p.at(lexer.NotEq) {
		op := ast.Eq
		if p.tok.Kind == lexer.NotEq {
			op = ast.Ne
		}
		pos := p.tok.Pos
		p.advance()
		x = &ast.BinaryExpr{Op: op, X: x, Y: p.parseRelational(), Pos: pos}
	}
	return x
}

func (p *Parser) parseRelational() ast.Expr {
	x := p.parseAdditive()
	for p.at(lexer.Lt) || p.at(lexer.Le) || p.at(lexer.Gt) || p.at(lexer.Ge) {
		var op ast.BinaryOp
		switch p.tok.Kind {
		case lexer.Lt:
			op = ast.Lt
		case lexer.Le:
			op = ast.Le
		case lexer.Gt:
			op = ast.Gt
		case lexer.Ge:
			op = ast.Ge
		}
		pos := p.tok.Pos
		p.advance()
		x = &ast.BinaryExpr{Op: op, X: x, Y: p.parseAdditive(), Pos: pos}
	}
	return x
}

func (p *Parser) parseAdditive() ast.Expr {
	x := p.parseMultiplicative()
	for p.at(lexer.Plus) || p.at(lexer.Minus) {
		op := ast.Add
		if p.tok.Kind == lexer.Minus {
			op = ast.Sub
		}
		pos := p.tok.Pos
		p.advance()
		x = &ast.BinaryExpr{Op: op, X: x, Y: p.parseMultiplicative(), Pos: pos}
	}
	return x
}

func (p *Parser) parseMultiplicative() ast.Expr {
	x := p.parseUnary()
	for p.at(lexer.Star) || p.at(lexer.Slash) {
		op := ast.Mul
		if p.tok.Kind == lexer.Slash {
			op = ast.Div
		}
		pos := p.tok.Pos
		p.advance()
		x = &ast.BinaryExpr{Op: op, X: x, Y: p.parseUnary(), Pos: pos}
	}
	return x
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.tok.Kind {
	case lexer.Minus:
		pos := p.tok.Pos
		p.advance()
		return &ast.UnaryExpr{Op: ast.Neg, X: p.parseUnary(), Pos: pos}
	case lexer.Bang:
		pos := p.tok.Pos
		p.advance()
		return &ast.UnaryExpr{Op: ast.Not, X: p.parseUnary(), Pos: pos}
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.tok.Kind {
	case lexer.IntLit:
		pos := p.tok.Pos
		text := p.tok.Text
		p.advance()
		var v int64
		for _, c := range []byte(text) {
			v = v*10 + int64(c-'0')
		}
		return &ast.IntLit{Value: v, Pos: pos}
	case lexer.KwTrue:
		pos := p.tok.Pos
		p.advance()
		return &ast.BoolLit{Value: true, Pos: pos}
	case lexer.KwFalse:
		pos := p.tok.Pos
		p.advance()
		return &ast.BoolLit{Value: false, Pos: pos}
	case lexer.LParen:
		p.advance()
		x := p.parseExpr()
		p.expect(lexer.RParen, ")")
		return x
	case lexer.Ident:
		pos := p.tok.Pos
		name := p.tok.Text
		p.advance()
		if p.at(lexer.LParen) {
			p.advance()
			var args []ast.Expr
			for !p.at(lexer.RParen) {
				if len(args) > 0 {
					p.expect(lexer.Comma, ",")
				}
				args = append(args, p.parseExpr())
			}
			p.expect(lexer.RParen, ")")
			return &ast.CallExpr{Callee: name, Args: args, Pos: pos}
		}
		return &ast.Ident{Name: name, Pos: pos}
	default:
		p.fail("expected expression, found %q", p.tok.Text)
		return nil
	}
}
