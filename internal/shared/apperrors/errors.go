package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into one of the fixed categories the API reports.
// The set is closed: callers decide retry behavior from the kind alone
// (SeatConflict is the only kind worth retrying, with a different seat).
type Kind string

const (
	KindValidation      Kind = "VALIDATION"
	KindAuthorization   Kind = "AUTHORIZATION"
	KindNotFound        Kind = "NOT_FOUND"
	KindInvalidState    Kind = "INVALID_STATE"
	KindInvalidSeat     Kind = "INVALID_SEAT"
	KindSeatConflict    Kind = "SEAT_CONFLICT"
	KindPaymentMismatch Kind = "PAYMENT_MISMATCH"
	KindSoldOut         Kind = "SOLD_OUT"
	KindNoFunds         Kind = "NO_FUNDS"
	KindInternal        Kind = "INTERNAL"
)

// Error carries a kind plus a human-readable message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is lets errors.Is match two app errors by kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return newError(KindValidation, format, args...)
}

func Authorization(format string, args ...interface{}) *Error {
	return newError(KindAuthorization, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

func InvalidState(format string, args ...interface{}) *Error {
	return newError(KindInvalidState, format, args...)
}

func InvalidSeat(format string, args ...interface{}) *Error {
	return newError(KindInvalidSeat, format, args...)
}

func SeatConflict(format string, args ...interface{}) *Error {
	return newError(KindSeatConflict, format, args...)
}

func PaymentMismatch(format string, args ...interface{}) *Error {
	return newError(KindPaymentMismatch, format, args...)
}

func SoldOut(format string, args ...interface{}) *Error {
	return newError(KindSoldOut, format, args...)
}

func NoFunds(format string, args ...interface{}) *Error {
	return newError(KindNoFunds, format, args...)
}

// Internal wraps an unexpected failure. The cause is preserved for logs but
// not exposed in the API message.
func Internal(cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf extracts the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to the status code controllers respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindInvalidSeat:
		return http.StatusBadRequest
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindSeatConflict:
		return http.StatusConflict
	case KindInvalidState, KindSoldOut, KindNoFunds:
		return http.StatusUnprocessableEntity
	case KindPaymentMismatch:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
