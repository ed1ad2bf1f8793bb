// Package errors provides structured error types for better observability
// and programmatic error handling across the meter packages.
//
// Meter misuse is reported as ErrCodeIllegalState inside a warning log line,
// never returned to the caller. Encoded line parsing fails with
// ErrCodeInvalidRequest.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeInvalidRequest,
//	    "failed to parse encoded meter line",
//	    cause,
//	    map[string]any{
//	        "key":    "pos",
//	        "offset": 14,
//	    },
//	)
package errors
