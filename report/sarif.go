package report

import (
	"encoding/json"
	"io"

	sarif "github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/minic-lang/minic-analyzer/diagnostic"
)

const toolName = "minic-analyzer"
const toolURI = "https://github.com/minic-lang/minic-analyzer"

// SARIF writes sink's diagnostics as a SARIF 2.1.0 document with a single
// run, one rule per diagnostic kind and one result per diagnostic.
func SARIF(w io.Writer, sink *diagnostic.Sink) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}

	run := sarif.NewRunWithInformationURI(toolName, toolURI)
	buildRules(sink, run)
	for _, d := range sink.Diagnostics {
		buildResult(d, run)
	}
	report.AddRun(run)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func buildRules(sink *diagnostic.Sink, run *sarif.Run) {
	seen := map[diagnostic.Kind]bool{}
	for _, d := range sink.Diagnostics {
		if seen[d.Kind] {
			continue
		}
		seen[d.Kind] = true
		run.AddRule(d.Kind.String()).
			WithDescription(d.Kind.String()).
			WithDefaultConfiguration(
				sarif.NewReportingConfiguration().WithLevel(sarifLevel(d.Kind.Severity())))
	}
}

func buildResult(d diagnostic.Diagnostic, run *sarif.Run) {
	result := run.CreateResultForRule(d.Kind.String()).
		WithMessage(sarif.NewTextMessage(d.Message))

	region := sarif.NewRegion().WithStartLine(d.Pos.Line)
	if d.Pos.Column > 0 {
		region.WithStartColumn(d.Pos.Column)
	}
	location := sarif.NewLocation().
		WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(d.Pos.File)).
				WithRegion(region))
	result.AddLocation(location)
}

func sarifLevel(sev diagnostic.Severity) string {
	if sev == diagnostic.Error {
		return "error"
	}
	return "warning"
}
