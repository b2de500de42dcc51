// Package report formats a diagnostic.Sink's accumulated findings for
// output, as plain text (the teacher's LogEntry.String() layout) or as a
// SARIF document.
package report

import (
	"fmt"
	"io"

	"github.com/minic-lang/minic-analyzer/diagnostic"
)

const (
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

// Text writes one line per diagnostic in "severity: file:line:col: message"
// form (Diagnostic.String), in the sink's current order (callers should Sort
// it first). When color is true, each whole line is wrapped in ANSI escapes:
// red for errors, yellow for warnings.
func Text(w io.Writer, sink *diagnostic.Sink, color bool) error {
	for _, d := range sink.Diagnostics {
		line := d.String()
		if color {
			line = colorize(d.Severity(), line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func colorize(sev diagnostic.Severity, line string) string {
	c := colorYellow
	if sev == diagnostic.Error {
		c = colorRed
	}
	return c + line + colorReset
}
