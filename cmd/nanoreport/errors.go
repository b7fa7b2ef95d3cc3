package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/arthur-debert/nanoreport/nanoreport/attr"
	"github.com/arthur-debert/nanoreport/nanoreport/filter"
	"github.com/arthur-debert/nanoreport/nanoreport/layout"
)

// CLIError represents a user-friendly CLI error with context and suggestions
type CLIError struct {
	Operation   string   // The operation that failed (e.g., "save", "set filters")
	Cause       string   // The underlying cause (e.g., "report not found")
	Details     string   // Additional technical details
	Suggestions []string // Helpful suggestions for the user
	Underlying  error    // Original error for debugging
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var msg strings.Builder

	if e.Operation != "" {
		msg.WriteString(fmt.Sprintf("Failed to %s", e.Operation))
	} else {
		msg.WriteString("Operation failed")
	}

	if e.Cause != "" {
		msg.WriteString(fmt.Sprintf(": %s", e.Cause))
	}

	if e.Details != "" {
		msg.WriteString(fmt.Sprintf(" (%s)", e.Details))
	}

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			msg.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return msg.String()
}

// Unwrap returns the underlying error for error chain compatibility
func (e *CLIError) Unwrap() error {
	return e.Underlying
}

// NewNotFoundError creates an error for missing resources
func NewNotFoundError(operation, resource, id string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("%s %q not found", resource, id),
		Suggestions: suggestions,
	}
}

// NewStoreError creates an error for report file issues
func NewStoreError(operation string, underlying error, suggestions ...string) *CLIError {
	cause := "report store error"
	details := ""
	if underlying != nil {
		details = underlying.Error()
		switch {
		case errors.Is(underlying, os.ErrNotExist):
			cause = "report file not found"
		case errors.Is(underlying, os.ErrPermission):
			cause = "insufficient permissions to access report file"
		case strings.Contains(details, "lock"):
			cause = "report is currently locked by another process"
		}
	}

	return &CLIError{
		Operation:   operation,
		Cause:       cause,
		Details:     details,
		Suggestions: suggestions,
		Underlying:  underlying,
	}
}

// NewFilterError creates an error for filter expressions that do not compile
func NewFilterError(operation, expr string, underlying error) *CLIError {
	suggestions := []string{
		"Compare a column to a literal: loss < 0.5 or State == \"finished\"",
		"Available operators: ==, !=, <, <=, >, >=, in, not in",
		"Combine comparisons with and, or and parentheses",
	}

	var unsupported *filter.UnsupportedExpressionError
	if errors.As(underlying, &unsupported) {
		suggestions = append(suggestions, "Calls, arithmetic and attribute access are not filters")
	}

	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("invalid filter %q", expr),
		Details:     underlying.Error(),
		Suggestions: suggestions,
		Underlying:  underlying,
	}
}

// WrapError wraps an existing error with CLI-friendly context
func WrapError(operation string, err error, suggestions ...string) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		if cliErr.Operation == "" {
			cliErr.Operation = operation
		}
		return cliErr
	}

	var verr *attr.ValidationError
	var collision *layout.CollisionError
	switch {
	case errors.As(err, &verr):
		return &CLIError{
			Operation:   operation,
			Cause:       fmt.Sprintf("invalid value for %s", verr.Field),
			Details:     err.Error(),
			Suggestions: append(suggestions, CommonSuggestions.CheckValue),
			Underlying:  err,
		}
	case errors.As(err, &collision):
		return &CLIError{
			Operation:   operation,
			Cause:       "panels overlap",
			Details:     err.Error(),
			Suggestions: append(suggestions, CommonSuggestions.TryPack),
			Underlying:  err,
		}
	}

	return NewStoreError(operation, err, suggestions...)
}

// Common error messages and suggestions
var (
	CommonSuggestions = struct {
		CheckDir   string
		CheckRef   string
		CheckValue string
		TryPack    string
		RunHelp    string
		TryDryRun  string
	}{
		CheckDir:   "Verify --dir points to the directory holding your reports",
		CheckRef:   "Run 'nanoreport list' to see available reports",
		CheckValue: "Check the value against the field's allowed values",
		TryPack:    "Run 'nanoreport layout pack' to move overlapping panels",
		RunHelp:    "Run command with --help for usage information",
		TryDryRun:  "Use --dry-run to preview the operation",
	}
)
