// Package errors provides error handling conventions for the dirvault CLI.
//
// This package defines an ExitError type for CLI exit code handling,
// exit code constants following standard Unix conventions, and
// re-exports of the wrapping primitives so callers need a single
// errors import. Domain sentinels live in the packages that raise
// them (for example [archive.ErrArchiveExists]).
//
// # Exit Codes
//
// The package defines standard exit codes for CLI applications:
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, permissions, etc.)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional suggestion
// for CLI applications. It supports error unwrapping via [errors.Unwrap] and
// [errors.As]:
//
//	err := dverrors.NewUserError(err, "Check cron_expression in your config")
//	var exitErr *dverrors.ExitError
//	if errors.As(err, &exitErr) {
//	    if exitErr.Suggestion != "" {
//	        fmt.Println("Suggestion:", exitErr.Suggestion)
//	    }
//	    os.Exit(exitErr.Code)
//	}
package errors
