package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDataUnavailable is returned when the source cannot be found or parsed.
	// It is fatal: callers must stop rather than work on partial data.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrSchemaMismatch is returned when a required column is absent or ambiguous.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// SchemaError names the column that could not be resolved from the header.
type SchemaError struct {
	Column  string   // canonical column name
	Headers []string // conflicting headers; empty when the column is missing
}

func (e *SchemaError) Error() string {
	if len(e.Headers) > 1 {
		return fmt.Sprintf("schema mismatch: column %q is ambiguous (headers %s)",
			e.Column, strings.Join(e.Headers, ", "))
	}
	return fmt.Sprintf("schema mismatch: required column %q is missing", e.Column)
}

func (e *SchemaError) Unwrap() error { return ErrSchemaMismatch }

// DataError reports why a source could not be loaded. Line is the 1-based
// line of the offending row, or 0 when the failure is not tied to a row.
type DataError struct {
	Source string
	Line   int
	Err    error
}

func (e *DataError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("data unavailable: %s: line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("data unavailable: %s: %v", e.Source, e.Err)
}

func (e *DataError) Unwrap() []error { return []error{ErrDataUnavailable, e.Err} }
