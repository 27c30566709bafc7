// Package errors provides typed errors with exit codes for archconf.
//
// # Error Types
//
// ConfError is the base error type that wraps an error with an exit code:
//
//	type ConfError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
// Defined exit codes for different error categories:
//
//	ExitSuccess          = 0  // Success
//	ExitGeneralError     = 1  // General/unknown errors
//	ExitUsageError       = 2  // Invalid invocation
//	ExitParseError       = 3  // Configuration does not parse
//	ExitCardinalityError = 4  // Too many enabled values for a key
//	ExitUnboundReference = 5  // Interpolation of an unknown key
//	ExitValidationError  = 6  // Profile validation failed
//	ExitFetchError       = 7  // Download failed
//	ExitEnvironmentError = 8  // Environment check failed
//
// # Error Constructors
//
// Use the provided constructors for consistent error creation:
//
//	errors.ParseFailed("archconf.conf", err)
//	errors.CardinalityConflict(err)
//	errors.KeyNotFound("DEVICE")
//	errors.FetchFailed("download install.sh", err)
//
// # Extracting Exit Codes
//
// Use GetExitCode to extract the exit code from an error chain:
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
