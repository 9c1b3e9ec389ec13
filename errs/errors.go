package errs

import (
	"errors"
	"net/http"
)

// Kind classifies a failure independently of the backend that produced it.
type Kind string

const (
	InvalidInput       Kind = "invalid-input"
	Unauthenticated    Kind = "unauthenticated"
	InvalidCredentials Kind = "invalid-credentials"
	NotFound           Kind = "not-found"
	Misconfigured      Kind = "server-misconfigured"
	StoreFailure       Kind = "store-failure"
	MethodNotAllowed   Kind = "method-not-allowed"
	PayloadTooLarge    Kind = "payload-too-large"
	Internal           Kind = "internal"
)

// Error is the domain error every component returns to its caller.
// Message is safe to show to clients, Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, Internal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// MessageOf returns the client-facing message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case InvalidInput:
		return http.StatusBadRequest
	case Unauthenticated, InvalidCredentials:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case MethodNotAllowed:
		return http.StatusMethodNotAllowed
	case PayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
