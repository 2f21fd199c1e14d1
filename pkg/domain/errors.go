package domain

import (
	"errors"
	"fmt"
)

// NetworkError wraps a transport or server failure on a data or
// function call. The cache is left unchanged (or reverted, for
// optimistic paths) whenever one is surfaced.
type NetworkError struct {
	Op  string // logical operation, e.g. "fetch_all"
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError reports input the remote API rejected (empty or
// duplicate habit name, unknown routine id). Surfaced verbatim to the
// caller; never mutates the cache.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// AIServiceError means a function invocation settled without usable
// content. The coach treats this as a fallback message, not a crash.
type AIServiceError struct {
	Fn string // function name, e.g. "ai-coach"
}

func (e *AIServiceError) Error() string {
	return fmt.Sprintf("function %q returned no usable response", e.Fn)
}

// MissingRoutineError reports that a successful fetch did not contain
// the expected morning or evening routine. Blocking for the UI, but
// recoverable via refetch.
type MissingRoutineError struct {
	TimeOfDay TimeOfDay
}

func (e *MissingRoutineError) Error() string {
	return fmt.Sprintf("no %s routine found for this account", e.TimeOfDay)
}

// TimeoutError reports that a remote call exceeded its configured
// deadline. Kept distinct from NetworkError so callers can tell a
// slow backend from a broken one.
type TimeoutError struct {
	Op string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out", e.Op)
}

// IsNetwork reports whether err is (or wraps) a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsAIService reports whether err is (or wraps) an AIServiceError.
func IsAIService(err error) bool {
	var ae *AIServiceError
	return errors.As(err, &ae)
}

// IsTimeout reports whether err is (or wraps) a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
