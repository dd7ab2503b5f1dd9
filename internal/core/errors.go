package core

import (
	"errors"
	"fmt"
)

// ErrorKind is a coarse-grained categorization for validation errors.
type ErrorKind string

const (
	KindFormat ErrorKind = "format"
	KindDomain ErrorKind = "domain"
)

// ValidationError describes a rejected field value.
type ValidationError struct {
	Field string
	Kind  ErrorKind
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := fmt.Sprintf("%s %s error", e.Field, e.Kind)
	if e.Value != "" {
		base += fmt.Sprintf(" (value=%q)", e.Value)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func formatError(field, value string, err error) error {
	return &ValidationError{Field: field, Kind: KindFormat, Value: value, Err: err}
}

func domainError(field, value string, err error) error {
	return &ValidationError{Field: field, Kind: KindDomain, Value: value, Err: err}
}

// IsFormatError reports whether err is an unparsable-input validation error.
func IsFormatError(err error) bool {
	return isKind(err, KindFormat)
}

// IsDomainError reports whether err is an out-of-domain validation error.
func IsDomainError(err error) bool {
	return isKind(err, KindDomain)
}

func isKind(err error, kind ErrorKind) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind == kind
	}
	return false
}

// StoreCorruptError is returned when a persisted record fails re-validation.
// Row is 1-based and counts the header line for tabular backends.
type StoreCorruptError struct {
	Backend string
	Row     int
	Err     error
}

func (e *StoreCorruptError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s store corrupt at row %d: %v", e.Backend, e.Row, e.Err)
}

func (e *StoreCorruptError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
