// Package diagnostic defines the Diagnostic type every analysis reports
// into, and the Sink that accumulates and orders them. Analyses never abort
// on the first defect they see; they just keep appending to a shared sink.
package diagnostic

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/minic-lang/minic-analyzer/token"
)

// Severity distinguishes a hard error (the function is broken on some
// path) from advice that does not by itself fail analysis.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Kind is the closed set of defects the analyzer can report.
type Kind int

const (
	Unreachable Kind = iota
	MissingReturn
	UseBeforeDef
	DeadStore
	DivisionByZero
	PossibleDivisionByZero
	ConstantOverflow
)

var kindNames = map[Kind]string{
	Unreachable:            "unreachable-code",
	MissingReturn:          "missing-return",
	UseBeforeDef:           "use-before-def",
	DeadStore:              "dead-store",
	DivisionByZero:         "division-by-zero",
	PossibleDivisionByZero: "possible-division-by-zero",
	ConstantOverflow:       "constant-overflow",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Severity is the kind's default severity. DeadStore,
// PossibleDivisionByZero, Unreachable, and ConstantOverflow are advisory;
// everything else indicates the function is unsound on some path.
func (k Kind) Severity() Severity {
	switch k {
	case DeadStore, PossibleDivisionByZero, Unreachable, ConstantOverflow:
		return Warning
	default:
		return Error
	}
}

// Diagnostic is a single reported defect, anchored to a source position and
// naming the function it was found in.
type Diagnostic struct {
	Kind    Kind
	Func    string
	Pos     token.Position
	Message string
}

func (d Diagnostic) Severity() Severity { return d.Kind.Severity() }

func (d Diagnostic) String() string {
	var buf bytes.Buffer
	if d.Severity() == Warning {
		buf.WriteString("warning: ")
	} else {
		buf.WriteString("error: ")
	}
	if d.Pos.IsValid() {
		buf.WriteString(d.Pos.String())
		buf.WriteString(": ")
	}
	buf.WriteString(d.Message)
	return buf.String()
}

// Sink accumulates diagnostics across every analysis run over every
// function in a program.
type Sink struct {
	Diagnostics []Diagnostic
}

// Report appends a diagnostic to the sink.
func (s *Sink) Report(kind Kind, fn string, pos token.Position, format string, args ...interface{}) {
	s.Diagnostics = append(s.Diagnostics, Diagnostic{
		Kind:    kind,
		Func:    fn,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any accumulated diagnostic is Error severity,
// the signal cliapp uses to choose its exit code.
func (s *Sink) HasErrors() bool {
	for _, d := range s.Diagnostics {
		if d.Severity() == Error {
			return true
		}
	}
	return false
}

// Sort orders diagnostics by (file, line, column, kind) so output is
// deterministic regardless of analysis order.
func (s *Sink) Sort() {
	sort.SliceStable(s.Diagnostics, func(i, j int) bool {
		a, b := s.Diagnostics[i], s.Diagnostics[j]
		if a.Pos.Less(b.Pos) {
			return true
		}
		if b.Pos.Less(a.Pos) {
			return false
		}
		return a.Kind < b.Kind
	})
}
