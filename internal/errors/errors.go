// Package errors provides the structured error type (BuildError) used by every
// pipeline stage, with category-based classification for CLI exit codes.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a build error for classification.
type ErrorCategory string

const (
	// CategoryConfiguration covers malformed or stale declarations, e.g. a
	// blank header entry or a declared header missing from the staged tree.
	CategoryConfiguration ErrorCategory = "configuration"

	// CategoryExternalTool covers nonzero exits from staging, configure,
	// make, binding generation and shim compilation.
	CategoryExternalTool ErrorCategory = "external_tool"

	// CategoryEnvironment covers required environment values that are absent.
	CategoryEnvironment ErrorCategory = "environment"

	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the pipeline
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// ContextFields carries structured context for BuildError
type ContextFields map[string]any

// BuildError is a structured error with category, severity, context and the
// captured diagnostic output of the failing external step, if any.
type BuildError struct {
	Category ErrorCategory `json:"category" yaml:"category"`
	Severity ErrorSeverity `json:"severity" yaml:"severity"`
	Message  string        `json:"message" yaml:"message"`
	Cause    error         `json:"-" yaml:"-"`
	Output   string        `json:"output,omitempty" yaml:"output,omitempty"`
	Context  ContextFields `json:"context,omitempty" yaml:"context,omitempty"`
}

// Error implements the error interface. Captured output is not part of the
// one-line message; see Diagnostics.
func (e *BuildError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *BuildError) Unwrap() error {
	return e.Cause
}

// Diagnostics returns the one-line message followed by the full captured output.
func (e *BuildError) Diagnostics() string {
	if e.Output == "" {
		return e.Error()
	}
	return e.Error() + "\n" + e.Output
}

// WithContext adds context information to the error
func (e *BuildError) WithContext(key string, value any) *BuildError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// WithOutput attaches captured tool output.
func (e *BuildError) WithOutput(output string) *BuildError {
	e.Output = output
	return e
}

// New creates a new fatal BuildError
func New(category ErrorCategory, message string) *BuildError {
	return &BuildError{
		Category: category,
		Severity: SeverityFatal,
		Message:  message,
	}
}

// Wrap creates a new fatal BuildError that wraps an existing error
func Wrap(err error, category ErrorCategory, message string) *BuildError {
	return &BuildError{
		Category: category,
		Severity: SeverityFatal,
		Message:  message,
		Cause:    err,
	}
}

// AsBuildError finds the first BuildError in err's chain.
func AsBuildError(err error) (*BuildError, bool) {
	var be *BuildError
	if stdErrors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsCategory checks if any error in the chain belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if be, ok := AsBuildError(err); ok {
		return be.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal
func GetCategory(err error) ErrorCategory {
	if be, ok := AsBuildError(err); ok {
		return be.Category
	}
	return CategoryInternal
}
