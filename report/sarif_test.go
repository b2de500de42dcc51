package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/minic-lang/minic-analyzer/diagnostic"
	"github.com/minic-lang/minic-analyzer/token"
)

func TestSARIFIsValidJSONWithOneRunAndResultsPerDiagnostic(t *testing.T) {
	sink := &diagnostic.Sink{}
	sink.Report(diagnostic.MissingReturn, "f", token.Position{File: "a.mc", Line: 1, Column: 1}, "missing return statement")
	sink.Report(diagnostic.DeadStore, "g", token.Position{File: "a.mc", Line: 5, Column: 2}, "value never used")

	var buf bytes.Buffer
	if err := SARIF(&buf, sink); err != nil {
		t.Fatalf("SARIF: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("SARIF output is not valid JSON: %v", err)
	}

	runs, ok := doc["runs"].([]interface{})
	if !ok || len(runs) != 1 {
		t.Fatalf("runs = %v, want exactly one run", doc["runs"])
	}
	run := runs[0].(map[string]interface{})
	results, ok := run["results"].([]interface{})
	if !ok || len(results) != 2 {
		t.Fatalf("results = %v, want exactly 2 results", run["results"])
	}
}

func TestSARIFDedupesRulesByKind(t *testing.T) {
	sink := &diagnostic.Sink{}
	sink.Report(diagnostic.DeadStore, "f", token.Position{File: "a.mc", Line: 1, Column: 1}, "value never used")
	sink.Report(diagnostic.DeadStore, "f", token.Position{File: "a.mc", Line: 2, Column: 1}, "value never used")

	var buf bytes.Buffer
	if err := SARIF(&buf, sink); err != nil {
		t.Fatalf("SARIF: %v", err)
	}
	var doc map[string]interface{}
	json.Unmarshal(buf.Bytes(), &doc)
	run := doc["runs"].([]interface{})[0].(map[string]interface{})
	tool := run["tool"].(map[string]interface{})
	driver := tool["driver"].(map[string]interface{})
	rules, _ := driver["rules"].([]interface{})
	if len(rules) != 1 {
		t.Fatalf("got %d rules for two diagnostics of the same kind, want 1", len(rules))
	}
}
