// Package parsererror defines the typed errors surfaced while reading input
// sheets and processing language model output.
package parsererror

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned for input files that are neither .xlsx nor .xls.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// ParseError represents an error during parsing of a single field or cell.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents an input sheet that cannot be used as given,
// for example a ledger without the remark column.
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// ResponseError is returned when the model's reply cannot be turned into
// categorized records. Raw keeps the reply for logs.
type ResponseError struct {
	Raw string
	Err error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("LLM response could not be processed: %v", e.Err)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

// LLMError represents a failed call to a language model provider.
// StatusCode is zero when the failure happened before an HTTP response.
type LLMError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *LLMError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed with status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *LLMError) Unwrap() error {
	return e.Err
}

// IsResponseError reports whether err wraps a *ResponseError.
func IsResponseError(err error) bool {
	var re *ResponseError
	return errors.As(err, &re)
}
