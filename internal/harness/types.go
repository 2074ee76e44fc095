package harness

import (
	"fmt"

	"github.com/roach88/reachkb/internal/ir"
	"github.com/roach88/reachkb/internal/kb"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool

	// Errors describes each failed expectation.
	Errors []string

	// Store is the knowledge base the scenario ran against.
	Store *kb.Store

	// Diagnostics emitted while building the store.
	Diagnostics []ir.Diagnostic
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError records a failed expectation.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}
