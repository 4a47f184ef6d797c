// Package errors provides structured error types for the Spindle pipeline.
// Errors carry a code, a category, and optional context so that a failed
// run reports exactly which stage aborted and why.
package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Category classifies errors for consistent handling and display.
type Category string

const (
	CategoryConfig   Category = "config"   // Configuration loading/validation errors
	CategoryCorpus   Category = "corpus"   // Export file reading/parsing errors
	CategoryEncoding Category = "encoding" // Text cleaning/re-decoding errors
	CategoryVocab    Category = "vocab"    // Vocabulary persistence errors
	CategoryTensor   Category = "tensor"   // One-hot tensor construction errors
	CategoryModel    Category = "model"    // Trainer collaborator errors
	CategoryIO       Category = "io"       // File/IO errors
	CategoryInternal Category = "internal" // Internal/unexpected errors
)

// PipelineError is a structured error with context.
// It implements the error interface and supports error wrapping.
type PipelineError struct {
	// Code is a unique identifier for this error type (e.g., "CORPUS_PARSE_FAILED")
	Code string

	// Category classifies this error for consistent handling
	Category Category

	// Message is the primary error message describing what went wrong
	Message string

	// Context provides additional key-value details about the error
	Context map[string]string

	// Cause is the underlying error that triggered this error (for wrapping)
	Cause error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain inspection.
// This enables errors.Is() and errors.As() to work with PipelineError.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Is reports whether e matches target for errors.Is() checks.
// Two PipelineErrors match if they have the same Code.
func (e *PipelineError) Is(target error) bool {
	if t, ok := target.(*PipelineError); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new PipelineError with the given code, category, and message.
func New(code string, category Category, message string) *PipelineError {
	return &PipelineError{
		Code:     code,
		Category: category,
		Message:  message,
		Context:  make(map[string]string),
	}
}

// Newf creates a new PipelineError with a formatted message.
func Newf(code string, category Category, format string, args ...interface{}) *PipelineError {
	return New(code, category, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a code, category, and message.
func Wrap(cause error, code string, category Category, message string) *PipelineError {
	return &PipelineError{
		Code:     code,
		Category: category,
		Message:  message,
		Context:  make(map[string]string),
		Cause:    cause,
	}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(cause error, code string, category Category, format string, args ...interface{}) *PipelineError {
	return Wrap(cause, code, category, fmt.Sprintf(format, args...))
}

// WithContext adds a context key-value pair and returns the error for chaining.
func (e *PipelineError) WithContext(key, value string) *PipelineError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// Detail returns a multi-line representation including context entries,
// sorted by key for stable output.
func (e *PipelineError) Detail() string {
	var b strings.Builder
	b.WriteString(e.Error())
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "\n  %s: %s", k, e.Context[k])
		}
	}
	return b.String()
}
