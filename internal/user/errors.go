package user

import (
	"errors"
	"net/http"
)

// Kind classifies a failed request.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindMethodNotAllowed
	KindExternalService
)

// Status maps the kind to the HTTP status returned to the caller.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	case KindExternalService:
		return "external_service"
	default:
		return "unknown"
	}
}

// Error is the result of any request that did not succeed. Message is what
// the caller sees; Err, when set, is the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func validationError(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

// externalError surfaces the cause's text to the caller, the way every
// secret, connection, and query failure is reported.
func externalError(err error) *Error {
	return &Error{Kind: KindExternalService, Message: err.Error(), Err: err}
}

var (
	ErrInvalidJSON   = validationError("Invalid JSON payload")
	ErrMissingID     = validationError("Missing 'id' parameter")
	ErrMissingFields = validationError("Missing 'name' or 'email'")
	ErrUserNotFound  = &Error{Kind: KindNotFound, Message: "User not found"}
)

// KindOf returns the kind of err. Errors that are not *Error are treated as
// external service failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindExternalService
}
