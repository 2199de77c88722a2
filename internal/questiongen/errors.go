package questiongen

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoProvider is wrapped by ConfigurationError when the generator was
// built without a model provider.
var ErrNoProvider = errors.New("no LLM provider configured")

// FieldProblem names one invalid request field.
type FieldProblem struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports missing or invalid request fields. The caller can
// fix the request and try again.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.Field + " " + p.Reason
	}
	return "invalid generation request: " + strings.Join(parts, "; ")
}

// Fields returns the names of the offending fields in order.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		out[i] = p.Field
	}
	return out
}

// ServiceError means the model could not be reached or kept failing after
// all retries. Attempts is 0 when the call stopped for a reason other
// than exhausting retries, such as cancellation.
type ServiceError struct {
	Attempts int
	Err      error
}

func (e *ServiceError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("question generation service failed after %d attempts: %v", e.Attempts, e.Err)
	}
	return fmt.Sprintf("question generation service failed: %v", e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// snippetRunes bounds how much untrusted model output a ParseError carries.
const snippetRunes = 120

// ParseError means the model output could not be turned into questions.
// It carries only the output length and a short prefix, never the full text.
type ParseError struct {
	Length  int
	Snippet string
	Err     error
}

func newParseError(raw string, err error) *ParseError {
	snippet := strings.TrimSpace(raw)
	if r := []rune(snippet); len(r) > snippetRunes {
		snippet = string(r[:snippetRunes]) + "…"
	}
	return &ParseError{Length: len(raw), Snippet: snippet, Err: err}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not extract questions from model output (%d bytes, starts %q): %v", e.Length, e.Snippet, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConfigurationError means generation cannot run at all.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("question generation is not configured: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
