package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// SourceUnavailableError reports a source that could not be read: a missing
// file, a failed request, a non-2xx response or a database failure.
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// SchemaMismatchError reports required columns that are absent from a source,
// or a cell in a typed column (the date column) that cannot be parsed.
type SchemaMismatchError struct {
	Source  string
	Missing []string
	Detail  string
}

func (e *SchemaMismatchError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("source %s: missing column(s) %s", e.Source, strings.Join(quote(e.Missing), ", "))
	}
	return fmt.Sprintf("source %s: %s", e.Source, e.Detail)
}

func unavailable(source string, err error) error {
	return &SourceUnavailableError{Source: source, Err: err}
}

// IsSourceUnavailable reports whether err wraps a SourceUnavailableError.
func IsSourceUnavailable(err error) bool {
	var target *SourceUnavailableError
	return errors.As(err, &target)
}

// IsSchemaMismatch reports whether err wraps a SchemaMismatchError.
func IsSchemaMismatch(err error) bool {
	var target *SchemaMismatchError
	return errors.As(err, &target)
}

func quote(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = fmt.Sprintf("%q", n)
	}
	return out
}
