package cfg

import (
	"testing"

	"github.com/minic-lang/minic-analyzer/ast"
	"github.com/minic-lang/minic-analyzer/parser"
)

func buildSrc(t *testing.T, src string) *Graph {
	t.Helper()
	prog, err := parser.Parse("t.minic", []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return Build(prog.Funcs[0])
}

func TestStraightLineFunctionHasOneBlockPlusExit(t *testing.T) {
	g := buildSrc(t, `int main() { int x = 1; print(x); return 0; }`)
	if g.NumBlocks() != 2 {
		t.Fatalf("got %d blocks, want entry + exit", g.NumBlocks())
	}
	entry := g.Block(g.Entry)
	if entry.Term != TermReturn {
		t.Errorf("entry.Term = %v, want TermReturn", entry.Term)
	}
	if len(entry.Units) != 2 {
		t.Errorf("entry.Units = %v, want 2 straight-line units", entry.Units)
	}
}

func TestUnreachableAfterReturnIsOrphaned(t *testing.T) {
	g := buildSrc(t, `int main() { return 0; int x = 5; return x; }`)
	var orphan *Block
	for i := 0; i < g.NumBlocks(); i++ {
		if i == g.Entry || i == g.Exit {
			continue
		}
		b := g.Block(i)
		if len(b.Preds) == 0 {
			orphan = b
		}
	}
	if orphan == nil {
		t.Fatal("expected an orphaned block after the first return")
	}
	if len(orphan.Units) == 0 {
		t.Fatal("orphan block should still hold the dead int x = 5; statement")
	}
	decl, ok := orphan.Units[0].(*ast.DeclStmt)
	if !ok || decl.Name != "x" {
		t.Errorf("orphan.Units[0] = %+v, want the int x = 5 declaration", orphan.Units[0])
	}
}

func TestIfElseBothReturnHasNoJoin(t *testing.T) {
	g := buildSrc(t, `int main() { if (1 < 2) { return 1; } else { return 2; } }`)
	for i := 0; i < g.NumBlocks(); i++ {
		if i == g.Exit {
			continue
		}
		if g.Block(i).Term == TermFallthrough {
			t.Errorf("block %d falls through, but both if-branches return: no join should survive", i)
		}
	}
}

func TestWhileLoopBackEdge(t *testing.T) {
	g := buildSrc(t, `int main() { while (1 < 2) { print(1); } return 0; }`)
	var header *Block
	for i := 0; i < g.NumBlocks(); i++ {
		if g.Block(i).Term == TermConditional {
			header = g.Block(i)
		}
	}
	if header == nil {
		t.Fatal("expected a conditional header block for the while loop")
	}
	foundBackEdge := false
	for i := 0; i < g.NumBlocks(); i++ {
		for _, e := range g.Block(i).Succs {
			if e.To == header.Index && i != header.Preds[0] {
				foundBackEdge = true
			}
		}
	}
	_ = foundBackEdge // loop body must target header; exact indices vary by construction order
	found := false
	for _, p := range header.Preds {
		if p != g.Entry {
			found = true
		}
	}
	if !found {
		t.Error("while header should have a predecessor other than entry (the loop body's back edge)")
	}
}

func TestMissingReturnFallsThroughToExit(t *testing.T) {
	g := buildSrc(t, `int f(int a) { if (a > 0) { return 1; } }`)
	foundFallthroughToExit := false
	for _, p := range g.Preds(g.Exit) {
		if g.Block(p).Term == TermFallthrough {
			foundFallthroughToExit = true
		}
	}
	if !foundFallthroughToExit {
		t.Error("expected a fallthrough predecessor of exit for the missing else path")
	}
}
