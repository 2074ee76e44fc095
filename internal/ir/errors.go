package ir

import "fmt"

// Invariant violation codes (E1xx). Each signals source-data or constant
// drift and terminates the build.
const (
	ErrDuplicateClass         = "E101" // class id registered twice
	ErrDuplicateHazardProfile = "E102" // class hazard-profiled twice
	ErrUnknownInfrastructure  = "E103" // infrastructure constant names an undeclared class
	ErrConflictingTransition  = "E104" // token pair declared with conflicting classes
	ErrMultipleRegimes        = "E105" // context assigned to more than one regime
	ErrEmptyProtectedSet      = "E106" // protected set derived empty
	ErrUndeclaredClass        = "E107" // record references an undeclared class
	ErrTokenInMultipleClasses = "E108" // token is a member of two classes
	ErrDuplicateMorphology    = "E109" // class has two morphology records
	ErrClassOutOfRange        = "E110" // class id outside the grammar
	ErrDuplicateContext       = "E111" // context id declared twice
)

// InvariantError is a load-time invariant violation.
type InvariantError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("[%s] invariant violated: %s", e.Code, e.Message)
}

// Invariantf builds an InvariantError.
func Invariantf(code, format string, args ...any) *InvariantError {
	return &InvariantError{Code: code, Message: fmt.Sprintf(format, args...)}
}
