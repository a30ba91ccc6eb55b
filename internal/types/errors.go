/*
errors.go - Error kinds raised at the upload boundary

ERROR CATEGORIES:
  1. SchemaError    - a required column is missing from the header row
  2. EmptyDataError - no data row survived parsing
  3. ReadError      - the input stream could not be read

All three are recoverable: the failing upload is rejected and the other
upload keeps its accepted data. Use errors.Is with the sentinels below, or
errors.As for the details.

Malformed cells are not errors. Bad numbers decode to 0 and rows with the
wrong field count are dropped.
*/
package types

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrSchema matches any *SchemaError.
	ErrSchema = errors.New("missing required columns")

	// ErrEmptyData matches any *EmptyDataError.
	ErrEmptyData = errors.New("no valid data rows")

	// ErrRead matches any *ReadError.
	ErrRead = errors.New("read failed")

	// ErrNotReady is returned when processing starts before both uploads are accepted.
	ErrNotReady = errors.New("both files must be loaded before processing")

	// ErrUnsupportedFile is returned for uploads that are neither .csv nor .xlsx.
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// =============================================================================
// TYPED ERRORS
// =============================================================================

// SchemaError lists the expected columns absent from a header row.
type SchemaError struct {
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return prefix(e.Source) + "missing required columns: " + strings.Join(e.Missing, ", ")
}

// Is makes errors.Is(err, ErrSchema) true.
func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// EmptyDataError reports that no usable data row was found.
type EmptyDataError struct {
	Source string
}

func (e *EmptyDataError) Error() string {
	return prefix(e.Source) + "file contains no valid data rows"
}

// Is makes errors.Is(err, ErrEmptyData) true.
func (e *EmptyDataError) Is(target error) bool { return target == ErrEmptyData }

// ReadError wraps a failure reading the input stream.
type ReadError struct {
	Source string
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%serror reading file: %v", prefix(e.Source), e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrRead) true.
func (e *ReadError) Is(target error) bool { return target == ErrRead }

func prefix(source string) string {
	if source == "" {
		return ""
	}
	return source + ": "
}
