// Package errors provides a lightweight structured error type (DocIndexError)
// for category-based classification and retry semantics in HTTP adapters and CLI.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a DocIndex error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// External system integration errors
	CategoryNetwork ErrorCategory = "network"
	CategoryCatalog ErrorCategory = "catalog"
	CategoryListing ErrorCategory = "listing"

	// Rendering and output errors
	CategoryRender     ErrorCategory = "render"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// DocIndexError is a structured error with category, retryability, and context
type DocIndexError struct {
	Category  ErrorCategory `json:"category"`
	Severity  ErrorSeverity `json:"severity"`
	Message   string        `json:"message"`
	Cause     error         `json:"cause,omitempty"`
	Retryable bool          `json:"retryable"`
	Context   ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for DocIndexError
type ContextFields map[string]any

// Error implements the error interface
func (e *DocIndexError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *DocIndexError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *DocIndexError) WithContext(key string, value any) *DocIndexError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new DocIndexError
func New(category ErrorCategory, severity ErrorSeverity, message string) *DocIndexError {
	return &DocIndexError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Retryable: false,
	}
}

// Wrap creates a new DocIndexError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *DocIndexError {
	return &DocIndexError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: false,
	}
}

// WrapRetryable creates a new retryable DocIndexError that wraps an existing error
func WrapRetryable(err error, category ErrorCategory, severity ErrorSeverity, message string) *DocIndexError {
	return &DocIndexError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: true,
	}
}

// FetchError builds the fatal error for an exhausted catalog fetch.
func FetchError(err error, uri string) *DocIndexError {
	return Wrap(err, CategoryCatalog, SeverityFatal, "catalog fetch failed").WithContext("uri", uri)
}

// ListingError builds the fatal error for a failed artifact listing request or parse.
func ListingError(err error, url string) *DocIndexError {
	return Wrap(err, CategoryListing, SeverityFatal, "artifact listing failed").WithContext("url", url)
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if die, ok := err.(*DocIndexError); ok {
		return die.Category == category
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if die, ok := err.(*DocIndexError); ok {
		return die.Retryable
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a DocIndexError
func GetCategory(err error) ErrorCategory {
	if die, ok := err.(*DocIndexError); ok {
		return die.Category
	}
	return CategoryInternal
}

// IsFatal reports whether the error should abort the pipeline.
func IsFatal(err error) bool {
	if die, ok := err.(*DocIndexError); ok {
		return die.Severity == SeverityFatal
	}
	return false
}
