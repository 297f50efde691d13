package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arthur-debert/taskboard/taskboard/imports"
	"github.com/arthur-debert/taskboard/types"
)

// CLIError represents a user-friendly CLI error with context and suggestions
type CLIError struct {
	Operation   string   // The operation that failed (e.g., "add", "move", "import")
	Cause       string   // The underlying cause (e.g., "task not found")
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

// NewValidationError creates an error for validation failures
func NewValidationError(operation, field, value string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("invalid %s: %q", field, value),
		Suggestions: suggestions,
	}
}

// NewStatusError creates an error for an unknown column name
func NewStatusError(operation, value string) *CLIError {
	names := make([]string, 0, 3)
	for _, s := range types.Statuses() {
		names = append(names, fmt.Sprintf("%q", s))
	}
	return NewValidationError(operation, "status", value,
		fmt.Sprintf("Use one of: %s", strings.Join(names, ", ")),
		"Status names are case-insensitive (e.g. \"in progress\")")
}

// NewNotFoundError creates an error for missing tasks
func NewNotFoundError(operation string, id int, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("task #%d not found", id),
		Suggestions: suggestions,
	}
}

// NewConfigError creates an error for configuration issues
func NewConfigError(operation, issue string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("configuration error: %s", issue),
		Suggestions: suggestions,
	}
}

// NewImportError explains why a bulk import was rejected
func NewImportError(err *imports.Error) *CLIError {
	cliErr := &CLIError{
		Operation:  "import tasks",
		Cause:      err.Error(),
		Underlying: err,
	}

	switch err.Reason {
	case imports.ReasonMalformedInput:
		cliErr.Cause = "the input is not valid JSON"
		cliErr.Suggestions = []string{
			"Check for missing commas, quotes or brackets",
			"Validate the file with a JSON linter",
		}
	case imports.ReasonNotAnArray:
		cliErr.Cause = "the input must be a JSON array of tasks"
		cliErr.Suggestions = []string{
			`Wrap your tasks in [ ... ], e.g. [{"title":"A","description":"d","status":"To Do","assignee":"X"}]`,
		}
	case imports.ReasonMissingFields:
		cliErr.Cause = fmt.Sprintf("task at index %d is missing a required field", err.Index)
		cliErr.Suggestions = []string{
			fmt.Sprintf("Every task needs non-empty %s", strings.Join(imports.RequiredFields, ", ")),
		}
	case imports.ReasonInvalidStatus:
		cliErr.Cause = fmt.Sprintf("task at index %d has an unknown status", err.Index)
		cliErr.Suggestions = []string{
			"Use To Do, In Progress or Done",
		}
	}
	cliErr.Suggestions = append(cliErr.Suggestions, "No tasks were imported; fix the input and run the import again")
	return cliErr
}

// NewStoreError creates an error for store-related issues
func NewStoreError(operation string, underlying error, suggestions ...string) *CLIError {
	cause := "store operation failed"
	details := ""

	if underlying != nil {
		details = underlying.Error()

		errStr := strings.ToLower(underlying.Error())
		switch {
		case strings.Contains(errStr, "permission denied"):
			cause = "insufficient permissions to access the board files"
		case strings.Contains(errStr, "lock"):
			cause = "the board is currently locked by another process"
		case strings.Contains(errStr, "failed to load"), strings.Contains(errStr, "invalid character"):
			cause = "the board files could not be read"
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

	var importErr *imports.Error
	if errors.As(err, &importErr) {
		return NewImportError(importErr)
	}

	return NewStoreError(operation, err, suggestions...)
}

// Common error messages and suggestions
var CommonSuggestions = struct {
	CheckID     string
	CheckDir    string
	CheckConfig string
	RunHelp     string
	CheckPerms  string
}{
	CheckID:     "Verify the task ID exists (try 'list' command first)",
	CheckDir:    "Verify --dir points to the board's data directory",
	CheckConfig: "Check your configuration file or TASKBOARD_* environment variables",
	RunHelp:     "Run command with --help for usage information",
	CheckPerms:  "Check file permissions and directory access",
}
