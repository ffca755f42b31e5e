package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ParseError
		expected string
	}{
		{
			name: "basic parse error",
			err: &ParseError{
				Parser: "xlsx",
				Field:  "AMOUNT",
				Value:  "abc",
				Err:    errors.New("invalid decimal"),
			},
			expected: "xlsx: failed to parse AMOUNT='abc': invalid decimal",
		},
		{
			name: "parse error with empty value",
			err: &ParseError{
				Parser: "xls",
				Field:  "sheet",
				Value:  "",
				Err:    errors.New("no sheets"),
			},
			expected: "xls: failed to parse sheet='': no sheets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestParseError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	parseErr := &ParseError{Parser: "xlsx", Field: "AMOUNT", Value: "x", Err: originalErr}

	assert.Equal(t, originalErr, parseErr.Unwrap())
	assert.True(t, errors.Is(parseErr, originalErr))
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{FilePath: "ledger.xlsx", Reason: "missing column REMARK_CLEAN"}
	assert.Equal(t, "validation failed for ledger.xlsx: missing column REMARK_CLEAN", err.Error())
}

func TestResponseError(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := &ResponseError{Raw: "[{\"transaction\":", Err: cause}

	assert.Equal(t, "LLM response could not be processed: unexpected end of JSON input", err.Error())
	assert.True(t, errors.Is(err, cause))

	wrapped := fmt.Errorf("batch 2: %w", err)
	assert.True(t, IsResponseError(wrapped))
	assert.False(t, IsResponseError(cause))

	var re *ResponseError
	require.True(t, errors.As(wrapped, &re))
	assert.Equal(t, "[{\"transaction\":", re.Raw)
}

func TestLLMError(t *testing.T) {
	tests := []struct {
		name     string
		err      *LLMError
		expected string
	}{
		{
			name:     "with status",
			err:      &LLMError{Provider: "ollama", StatusCode: 404, Err: errors.New("model not found")},
			expected: "ollama request failed with status 404: model not found",
		},
		{
			name:     "transport failure",
			err:      &LLMError{Provider: "gemini", Err: errors.New("connection refused")},
			expected: "gemini request failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.NotNil(t, errors.Unwrap(tt.err))
		})
	}
}

func TestErrorTypes(t *testing.T) {
	var _ error = &ParseError{}
	var _ error = &ValidationError{}
	var _ error = &ResponseError{}
	var _ error = &LLMError{}
}
