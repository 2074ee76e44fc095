package ir

import "fmt"

// Severity grades a non-fatal load diagnostic.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Diagnostic is a non-fatal condition observed while building the knowledge base.
// Fatal conditions are returned as errors instead.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Source   string   `json:"source"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s: %s", d.Code, d.Severity, d.Source, d.Message)
}

// DiagnosticSink receives diagnostics as they are emitted.
type DiagnosticSink interface {
	Emit(Diagnostic)
}

// DiagnosticFunc adapts a function to DiagnosticSink.
type DiagnosticFunc func(Diagnostic)

// Emit calls f(d).
func (f DiagnosticFunc) Emit(d Diagnostic) { f(d) }

// NopSink discards every diagnostic.
var NopSink DiagnosticSink = DiagnosticFunc(func(Diagnostic) {})

// Warn builds a warning diagnostic.
func Warn(code, source, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Source:   source,
		Message:  fmt.Sprintf(format, args...),
	}
}

// HasCode reports whether any diagnostic carries code.
func HasCode(diags []Diagnostic, code string) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}
