package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/calperry/stride/internal/logger"
)

// ErrInvalidDateRange is returned when a start date falls after its end
// date in a context that does not tolerate empty ranges.
var ErrInvalidDateRange = errors.New("invalid date range: start date is after end date")

// DataError marks a malformed habit or log record (missing required
// field, unparseable date). It is the only error kind the analytics
// engine raises; empty collections are not errors.
type DataError struct {
	Field string
	Value string
	Err   error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed data in %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("malformed data in %s %q", e.Field, e.Value)
}

func (e *DataError) Unwrap() error { return e.Err }

// NewDataError wraps a malformed-record failure with the offending
// field and value.
func NewDataError(field, value string, err error) error {
	return &DataError{Field: field, Value: value, Err: err}
}

// IsDataError reports whether err is (or wraps) a DataError.
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
