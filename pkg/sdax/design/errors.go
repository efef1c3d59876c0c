package design

import (
	"errors"
	"fmt"
)

// The pipeline's error taxonomy. Per-record and per-file failures are
// recovered inside the phase that hit them (logged, skipped); only
// FatalValidationError escalates past a phase boundary.

// SkippableRecordError marks a single malformed record within an otherwise
// readable file. The record is dropped and processing continues.
type SkippableRecordError struct {
	File   string
	Reason string
}

func (e *SkippableRecordError) Error() string {
	return fmt.Sprintf("skipping record in %s: %s", e.File, e.Reason)
}

// SkippableFileError marks a whole file that failed to parse. The file is
// skipped; sibling files are still processed.
type SkippableFileError struct {
	File string
	Err  error
}

func (e *SkippableFileError) Error() string {
	return fmt.Sprintf("skipping file %s: %v", e.File, e.Err)
}

func (e *SkippableFileError) Unwrap() error { return e.Err }

// FatalValidationError is an aggregate-level invariant violation bad enough
// that exported output would be misleading. It aborts the run before export.
type FatalValidationError struct {
	Message string
}

func (e *FatalValidationError) Error() string {
	return "validation failed: " + e.Message
}

// IsFatal reports whether err is (or wraps) a FatalValidationError.
func IsFatal(err error) bool {
	var fe *FatalValidationError
	return errors.As(err, &fe)
}
