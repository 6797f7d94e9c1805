package transpiler

import (
	"fmt"
	"slices"

	"martianoff/tscs/internal/tsast"
)

// Severity of a diagnostic. Only warnings exist: anything worse is a
// structural error that stops the file.
type Severity int

const (
	SeverityWarning Severity = iota
)

func (s Severity) String() string {
	return "warning"
}

// Diagnostic reports a construct translated with a best-effort or inferred strategy.
type Diagnostic struct {
	Severity Severity
	Message  string
	Line     int
	Column   int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Column, d.Severity, d.Message)
}

// Diagnostics is the append-only diagnostic sink of one file transformation.
// It is owned by a single transformation and never shared across files.
type Diagnostics struct {
	items []Diagnostic
}

// NewDiagnostics returns an empty sink.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

// Warn appends a warning at pos.
func (d *Diagnostics) Warn(pos tsast.Pos, format string, args ...any) {
	d.items = append(d.items, Diagnostic{
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
		Line:     pos.Line,
		Column:   pos.Column,
	})
}

// All returns a copy of the collected diagnostics in append order.
func (d *Diagnostics) All() []Diagnostic {
	return slices.Clone(d.items)
}

// Len returns the number of collected diagnostics.
func (d *Diagnostics) Len() int {
	return len(d.items)
}
