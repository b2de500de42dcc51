package parser

import (
	"testing"

	"github.com/minic-lang/minic-analyzer/ast"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := Parse("t.minic", []byte(src))
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return prog
}

func TestParseSimpleFunc(t *testing.T) {
	prog := mustParse(t, `int main() { return 0; }`)
	if len(prog.Funcs) != 1 {
		t.Fatalf("got %d funcs, want 1", len(prog.Funcs))
	}
	fn := prog.Funcs[0]
	if fn.Name != "main" || fn.ReturnType != ast.Int {
		t.Errorf("fn = %+v", fn)
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("got %d stmts, want 1", len(fn.Body.Stmts))
	}
	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("stmt = %T, want *ast.ReturnStmt", fn.Body.Stmts[0])
	}
	lit, ok := ret.Value.(*ast.IntLit)
	if !ok || lit.Value != 0 {
		t.Errorf("return value = %+v", ret.Value)
	}
}

func TestParseParamsAndCall(t *testing.T) {
	prog := mustParse(t, `int add(int a, int b) { return a + b; }
int main() { print(add(1, 2)); return 0; }`)
	if len(prog.Funcs) != 2 {
		t.Fatalf("got %d funcs, want 2", len(prog.Funcs))
	}
	add := prog.Funcs[0]
	if len(add.Params) != 2 || add.Params[0].Name != "a" || add.Params[1].Name != "b" {
		t.Fatalf("params = %+v", add.Params)
	}
	main := prog.Funcs[1]
	print, ok := main.Body.Stmts[0].(*ast.PrintStmt)
	if !ok {
		t.Fatalf("stmt = %T, want *ast.PrintStmt", main.Body.Stmts[0])
	}
	call, ok := print.Value.(*ast.CallExpr)
	if !ok || call.Callee != "add" || len(call.Args) != 2 {
		t.Errorf("call = %+v", print.Value)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	prog := mustParse(t, `int main() { return 1 + 2 * 3; }`)
	ret := prog.Funcs[0].Body.Stmts[0].(*ast.ReturnStmt)
	top, ok := ret.Value.(*ast.BinaryExpr)
	if !ok || top.Op != ast.Add {
		t.Fatalf("top = %+v, want Add at the root", ret.Value)
	}
	rhs, ok := top.Y.(*ast.BinaryExpr)
	if !ok || rhs.Op != ast.Mul {
		t.Errorf("rhs = %+v, want Mul nested under Add", top.Y)
	}
}

func TestIfElseWhile(t *testing.T) {
	prog := mustParse(t, `int main() {
		if (1 < 2) { print(1); } else { print(2); }
		while (1 < 2) { print(3); }
		return 0;
	}`)
	body := prog.Funcs[0].Body.Stmts
	ifs, ok := body[0].(*ast.IfStmt)
	if !ok || ifs.Else == nil {
		t.Fatalf("if = %+v, want an else branch", body[0])
	}
	if _, ok := body[1].(*ast.WhileStmt); !ok {
		t.Fatalf("stmt 1 = %T, want *ast.WhileStmt", body[1])
	}
}

func TestSyntaxErrorReturnsErr(t *testing.T) {
	_, err := Parse("t.minic", []byte(`int main() { return 0 }`))
	if err == nil {
		t.Fatal("expected a syntax error for a missing semicolon")
	}
}

func TestFuncEndPositionIsClosingBrace(t *testing.T) {
	prog := mustParse(t, "int main() {\n  return 0;\n}")
	fn := prog.Funcs[0]
	if fn.End.Line != 3 {
		t.Errorf("End = %+v, want line 3", fn.End)
	}
}
