package mrz

import (
	"errors"
	"fmt"
)

// Kind categorises structural codec failures.
type Kind string

const (
	// KindOutOfRange means an input line is too short for the fields read from it.
	KindOutOfRange Kind = "OUT_OF_RANGE"

	// KindMissingField means an interchange record lacks a required key.
	KindMissingField Kind = "MISSING_FIELD"

	// KindMalformedCheckDigit means a check digit field is not a single digit.
	KindMalformedCheckDigit Kind = "MALFORMED_CHECK_DIGIT"

	// KindOverflow means an encoded line or field does not fit its slot.
	KindOverflow Kind = "OVERFLOW"
)

// Sentinels for errors.Is; any *Error of the same kind matches.
var (
	ErrOutOfRange          = &Error{Kind: KindOutOfRange}
	ErrMissingField        = &Error{Kind: KindMissingField}
	ErrMalformedCheckDigit = &Error{Kind: KindMalformedCheckDigit}
	ErrOverflow            = &Error{Kind: KindOverflow}
)

// Error is returned by every codec operation that rejects its input.
// Subject names the line, field or key that caused the failure.
type Error struct {
	Kind    Kind
	Subject string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("mrz [%s]: %s", e.Kind, e.Subject)
	}
	return fmt.Sprintf("mrz [%s] %s: %s", e.Kind, e.Subject, e.Message)
}

// Is matches on kind only, so callers can compare against the sentinels.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, subject, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
	}
}

// KindOf returns the kind of a codec error, or "" for any other error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// SubjectOf returns the line, field or key a codec error refers to.
func SubjectOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Subject
	}
	return ""
}
