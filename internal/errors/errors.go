package errors

import (
	"errors"
	"fmt"
)

// Exit codes for archconf
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitUsageError       = 2
	ExitParseError       = 3
	ExitCardinalityError = 4
	ExitUnboundReference = 5
	ExitValidationError  = 6
	ExitFetchError       = 7
	ExitEnvironmentError = 8
)

// ConfError is the base error type for archconf
type ConfError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ConfError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ConfError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *ConfError) ExitCode() int {
	return e.Code
}

// New creates a new ConfError
func New(code int, message string) *ConfError {
	return &ConfError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a ConfError
func Wrap(code int, message string, cause error) *ConfError {
	return &ConfError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// ParseFailed returns an error for configuration that does not parse
func ParseFailed(path string, cause error) *ConfError {
	return Wrap(ExitParseError, fmt.Sprintf("failed to parse %s", path), cause)
}

// CardinalityConflict returns an error for a key with too many enabled values
func CardinalityConflict(cause error) *ConfError {
	return Wrap(ExitCardinalityError, "cardinality conflict", cause)
}

// UnboundReference returns an error for interpolation of an unknown key
func UnboundReference(cause error) *ConfError {
	return Wrap(ExitUnboundReference, "unbound reference", cause)
}

// ValidationFailed returns an error for profile validation failures
func ValidationFailed(message string, cause error) *ConfError {
	return Wrap(ExitValidationError, message, cause)
}

// FetchFailed returns an error for download failures
func FetchFailed(message string, cause error) *ConfError {
	return Wrap(ExitFetchError, message, cause)
}

// EnvironmentError returns an error for failed environment checks
func EnvironmentError(message string) *ConfError {
	return New(ExitEnvironmentError, message)
}

// KeyNotFound returns an error for a key absent from the configuration
func KeyNotFound(key string) *ConfError {
	return New(ExitGeneralError, fmt.Sprintf("key not found: %s", key))
}

// UsageError returns an error for invalid command invocations
func UsageError(message string) *ConfError {
	return New(ExitUsageError, message)
}

// ConfigError returns an error for configuration file issues
func ConfigError(message string, cause error) *ConfError {
	return Wrap(ExitGeneralError, message, cause)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var confErr *ConfError
	if errors.As(err, &confErr) {
		return confErr.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
