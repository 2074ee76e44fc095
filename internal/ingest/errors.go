package ingest

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Ingestion error and diagnostic codes (E0xx fatal, W2xx non-fatal).
const (
	ErrCodeGeneric         = "E001" // generic/unknown error
	ErrCodeMissingRequired = "E002" // required source absent
	ErrCodeReadFailed      = "E003" // source could not be read
	ErrCodeParseFailed     = "E004" // source is not valid JSON/YAML
	ErrCodeSchema          = "E005" // source violates its schema

	WarnOptionalMissing = "W201" // optional source absent
)

// SourceError is a fatal ingestion error naming the source and, when known,
// the position inside it.
type SourceError struct {
	Source  string
	Code    string
	Message string
	Pos     token.Pos
}

func (e *SourceError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Source, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Code, e.Message)
}

// formatCUEError converts a CUE error into a SourceError, preferring a
// position inside the source file over one inside the schema.
func formatCUEError(source, filename, code string, err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &SourceError{Source: source, Code: code, Message: err.Error()}
	}

	first := errs[0]
	out := &SourceError{Source: source, Code: code, Message: first.Error()}
	positions := errors.Positions(first)
	for _, pos := range positions {
		if pos.Filename() == filename {
			out.Pos = pos
			return out
		}
	}
	if len(positions) > 0 {
		out.Pos = positions[0]
	}
	return out
}
