package diagnostic

import (
	"testing"

	"github.com/minic-lang/minic-analyzer/token"
)

func TestAdvisoryKindsAreWarnings(t *testing.T) {
	for _, k := range []Kind{DeadStore, PossibleDivisionByZero, Unreachable, ConstantOverflow} {
		if k.Severity() != Warning {
			t.Errorf("%s.Severity() = %v, want Warning", k, k.Severity())
		}
	}
}

func TestHardKindsAreErrors(t *testing.T) {
	for _, k := range []Kind{MissingReturn, UseBeforeDef, DivisionByZero} {
		if k.Severity() != Error {
			t.Errorf("%s.Severity() = %v, want Error", k, k.Severity())
		}
	}
}

func TestHasErrorsOnlyTrueWithAnErrorDiagnostic(t *testing.T) {
	sink := &Sink{}
	sink.Report(DeadStore, "f", token.Position{Line: 1, Column: 1}, "unused")
	if sink.HasErrors() {
		t.Fatal("HasErrors() = true with only a warning present")
	}
	sink.Report(MissingReturn, "f", token.Position{Line: 2, Column: 1}, "missing return")
	if !sink.HasErrors() {
		t.Fatal("HasErrors() = false after reporting an Error-severity diagnostic")
	}
}

func TestSortOrdersByPositionThenKind(t *testing.T) {
	sink := &Sink{}
	sink.Report(DeadStore, "f", token.Position{File: "a.mc", Line: 5, Column: 1}, "z")
	sink.Report(MissingReturn, "f", token.Position{File: "a.mc", Line: 1, Column: 1}, "a")
	sink.Report(UseBeforeDef, "f", token.Position{File: "a.mc", Line: 1, Column: 2}, "b")
	sink.Sort()

	want := []Kind{MissingReturn, UseBeforeDef, DeadStore}
	for i, k := range want {
		if sink.Diagnostics[i].Kind != k {
			t.Fatalf("Diagnostics[%d].Kind = %v, want %v", i, sink.Diagnostics[i].Kind, k)
		}
	}
}

func TestSortIsStableAndDeterministicAcrossRuns(t *testing.T) {
	build := func() *Sink {
		sink := &Sink{}
		sink.Report(UseBeforeDef, "f", token.Position{File: "a.mc", Line: 3, Column: 1}, "x")
		sink.Report(DeadStore, "f", token.Position{File: "a.mc", Line: 3, Column: 1}, "y")
		sink.Sort()
		return sink
	}
	a, b := build(), build()
	if len(a.Diagnostics) != len(b.Diagnostics) {
		t.Fatalf("non-deterministic diagnostic counts: %d vs %d", len(a.Diagnostics), len(b.Diagnostics))
	}
	for i := range a.Diagnostics {
		if a.Diagnostics[i] != b.Diagnostics[i] {
			t.Fatalf("Sort produced different output across identical runs at index %d", i)
		}
	}
}

func TestDiagnosticStringIncludesSeverityAndPosition(t *testing.T) {
	d := Diagnostic{Kind: MissingReturn, Func: "f", Pos: token.Position{File: "a.mc", Line: 2, Column: 3}, Message: "missing return statement"}
	got := d.String()
	want := "error: a.mc:2:3: missing return statement"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestNoPosDiagnosticOmitsLocation(t *testing.T) {
	d := Diagnostic{Kind: DeadStore, Func: "f", Pos: token.NoPos, Message: "value never used"}
	got := d.String()
	want := "warning: value never used"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
