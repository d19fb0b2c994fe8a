package domain

import (
	"errors"
	"fmt"
)

// Lookup failure kinds. Match them with errors.Is; adapters map each kind
// to a transport status.
var (
	ErrNotFound    = errors.New("not found")
	ErrMalformed   = errors.New("malformed response")
	ErrValidation  = errors.New("validation failed")
	ErrUnavailable = errors.New("unavailable")
)

// LookupError is a failed quote or feed lookup. Subject names what the
// failure is about: the rejected field, the missing entity or the upstream
// that failed.
type LookupError struct {
	Kind    error
	Subject string
	Detail  string

	// Value is the rejected input, if any. It is never rendered.
	Value any
}

func (e *LookupError) Error() string {
	switch e.Kind {
	case ErrNotFound:
		if e.Detail == "" {
			return e.Subject + " not found"
		}

		return fmt.Sprintf("%s %q not found", e.Subject, e.Detail)
	case ErrUnavailable:
		return withDetail(fmt.Sprintf("upstream %q unavailable", e.Subject), e.Detail)
	case ErrMalformed:
		return withDetail("malformed "+e.Subject, e.Detail)
	}

	if e.Subject == "" {
		return withDetail(e.Kind.Error(), e.Detail)
	}

	return withDetail(e.Kind.Error()+" for "+e.Subject, e.Detail)
}

func (e *LookupError) Unwrap() error { return e.Kind }

func withDetail(msg, detail string) string {
	if detail == "" {
		return msg
	}

	return msg + ": " + detail
}

// NewNotFoundError reports that entity id does not exist upstream.
func NewNotFoundError(entity, id string) error {
	return &LookupError{Kind: ErrNotFound, Subject: entity, Detail: id}
}

// NewMalformedError reports upstream data from source that could not be read.
func NewMalformedError(source, reason string) error {
	return &LookupError{Kind: ErrMalformed, Subject: source, Detail: reason}
}

func NewValidationError(field, message string) error {
	return &LookupError{Kind: ErrValidation, Subject: field, Detail: message}
}

// NewValidationErrorWithValue is NewValidationError carrying the rejected value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &LookupError{Kind: ErrValidation, Subject: field, Detail: message, Value: value}
}

// NewUnavailableError reports that upstream service could not be reached or
// answered with a failure status.
func NewUnavailableError(service, reason string) error {
	return &LookupError{Kind: ErrUnavailable, Subject: service, Detail: reason}
}

func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }
func IsMalformed(err error) bool   { return errors.Is(err, ErrMalformed) }
func IsValidation(err error) bool  { return errors.Is(err, ErrValidation) }
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }

// FieldOf returns the field a validation error rejected, if err is one.
func FieldOf(err error) (field, message string, ok bool) {
	var le *LookupError
	if !errors.As(err, &le) || le.Kind != ErrValidation || le.Subject == "" {
		return "", "", false
	}

	return le.Subject, le.Detail, true
}
