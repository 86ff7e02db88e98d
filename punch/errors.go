/*
errors.go - Centralized error types for the punch engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers match them with errors.Is / errors.As and decide how to
  report them to the operator.

ERROR CATEGORIES:
  1. Codec errors - malformed lines, bad time or date input
  2. Lookup errors - unknown badge or day (informational, not failures)
  3. Store errors - I/O failures while appending to the file

NOTHING HERE IS FATAL:
  Every error in this package is recovered by the caller. The worst
  case, an append failure, still leaves the lines written before the
  failure durable and accounted for.

SEE ALSO:
  - codec.go: LineLengthError on decode
  - store/file/file.go: AppendError
  - reconcile/service.go: Maps these to operator messages
*/
package punch

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidLine is returned for a line that is not a valid 23-character record.
	ErrInvalidLine = errors.New("invalid line")

	// ErrInvalidTime is returned when a time is not HHMM within 0000-2359.
	ErrInvalidTime = errors.New("invalid time")

	// ErrInvalidDate is returned when a date is not a real DD/MM/YYYY calendar day.
	ErrInvalidDate = errors.New("invalid date")

	// ErrBadgeNotFound is returned when no punches are loaded for a badge.
	ErrBadgeNotFound = errors.New("badge not found")

	// ErrDateNotFound is returned when a badge has no entry for the requested day.
	ErrDateNotFound = errors.New("date not found")

	// ErrNoProblems is returned when every recorded day already has the expected count.
	ErrNoProblems = errors.New("no problems found")

	// ErrNoTargets is returned when a duplication has no target days.
	ErrNoTargets = errors.New("no target dates")

	// ErrNoValidTimes is returned when every candidate time failed validation.
	ErrNoValidTimes = errors.New("no valid times")

	// ErrInsufficientInput is returned when a required field was left empty.
	ErrInsufficientInput = errors.New("insufficient input")

	// ErrAppendFailed is returned when writing to the attendance file fails.
	ErrAppendFailed = errors.New("append failed")

	// ErrFileNotFound is returned when the attendance file does not exist yet.
	ErrFileNotFound = errors.New("attendance file not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// LineLengthError reports a raw line whose length is not LineWidth.
type LineLengthError struct {
	Length int
}

func (e *LineLengthError) Error() string {
	return fmt.Sprintf("invalid line: length %d, want %d", e.Length, LineWidth)
}

func (e *LineLengthError) Unwrap() error {
	return ErrInvalidLine
}

// AppendError reports an I/O failure in the middle of an append batch.
// Written is the number of lines durably written before the failure.
type AppendError struct {
	Path    string
	Written int
	Err     error
}

func (e *AppendError) Error() string {
	return fmt.Sprintf("append to %s failed after %d line(s): %v", e.Path, e.Written, e.Err)
}

func (e *AppendError) Unwrap() []error {
	return []error{ErrAppendFailed, e.Err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsInformational returns true for "nothing to do" outcomes that are
// reported to the operator as a no-op rather than a failure.
func IsInformational(err error) bool {
	return errors.Is(err, ErrBadgeNotFound) ||
		errors.Is(err, ErrDateNotFound) ||
		errors.Is(err, ErrNoProblems)
}

// IsClientError returns true if the error is due to invalid operator input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidTime) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidLine) ||
		errors.Is(err, ErrNoTargets) ||
		errors.Is(err, ErrNoValidTimes) ||
		errors.Is(err, ErrInsufficientInput)
}
