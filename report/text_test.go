package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/minic-lang/minic-analyzer/diagnostic"
	"github.com/minic-lang/minic-analyzer/token"
)

func TestTextOneLinePerDiagnostic(t *testing.T) {
	sink := &diagnostic.Sink{}
	sink.Report(diagnostic.MissingReturn, "f", token.Position{File: "a.mc", Line: 1, Column: 1}, "missing return statement")
	sink.Report(diagnostic.DeadStore, "f", token.Position{File: "a.mc", Line: 2, Column: 1}, "value never used")

	var buf bytes.Buffer
	if err := Text(&buf, sink, false); err != nil {
		t.Fatalf("Text: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "a.mc:1:1") || !strings.Contains(lines[0], "missing return statement") {
		t.Errorf("line 0 = %q, missing position or message", lines[0])
	}
}

func TestTextColorAddsANSIEscapes(t *testing.T) {
	sink := &diagnostic.Sink{}
	sink.Report(diagnostic.MissingReturn, "f", token.Position{File: "a.mc", Line: 1, Column: 1}, "missing return statement")

	var plain, colored bytes.Buffer
	Text(&plain, sink, false)
	Text(&colored, sink, true)

	if colored.String() == plain.String() {
		t.Error("colored output should differ from plain output")
	}
	if !strings.Contains(colored.String(), colorRed) || !strings.Contains(colored.String(), colorReset) {
		t.Error("colored output missing ANSI escape sequences for an error")
	}
}
