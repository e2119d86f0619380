package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the HTTP boundary
type Kind int

const (
	KindInvalidRequest Kind = iota + 1
	KindInvalidPublicKey
	KindInvalidSignature
	KindUpstream
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid_request"
	case KindInvalidPublicKey:
		return "invalid_public_key"
	case KindInvalidSignature:
		return "invalid_signature"
	case KindTimeout:
		return "confirmation_timeout"
	default:
		return "upstream_failure"
	}
}

// Error is the error type returned by the service layer.
// Message is the client-facing summary, Err the underlying cause (if any).
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

// Details returns the message passed through to clients as "details"
func (e *Error) Details() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func InvalidRequest(msg string) *Error {
	return &Error{Kind: KindInvalidRequest, Message: msg}
}

// InvalidValue is an InvalidRequest caused by a field that failed to parse
func InvalidValue(msg string, err error) *Error {
	return &Error{Kind: KindInvalidRequest, Message: msg, Err: err}
}

// MissingFields is an InvalidRequest whose details say what is required
func MissingFields(details string) *Error {
	return &Error{Kind: KindInvalidRequest, Message: "Missing required fields", Err: errors.New(details)}
}

func InvalidPublicKey(msg string, err error) *Error {
	return &Error{Kind: KindInvalidPublicKey, Message: msg, Err: err}
}

func InvalidSignature(msg string) *Error {
	return &Error{Kind: KindInvalidSignature, Message: msg}
}

// SignatureMismatch is an InvalidSignature whose details tell the client what to fix
func SignatureMismatch(msg, details string) *Error {
	return &Error{Kind: KindInvalidSignature, Message: msg, Err: errors.New(details)}
}

func Upstream(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

func Timeout(msg string, err error) *Error {
	return &Error{Kind: KindTimeout, Message: msg, Err: err}
}

// KindOf reports the kind of err; unknown errors count as upstream failures
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUpstream
}

// HTTPStatus maps an error to the status code returned by the API
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidRequest, KindInvalidPublicKey, KindInvalidSignature:
		return http.StatusBadRequest
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
