package retroqwest

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies which step of a call failed
type Kind int

const (
	// FailedToBuildClient means the underlying HTTP client could not be constructed
	FailedToBuildClient Kind = iota + 1
	// RequestError means the request could not be built or sent
	RequestError
	// ResponseError means the server answered with a non-2xx status
	ResponseError
	// JsonParse means the response body could not be decoded into the result type
	JsonParse
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case FailedToBuildClient:
		return "FailedToBuildClient"
	case RequestError:
		return "RequestError"
	case ResponseError:
		return "ResponseError"
	case JsonParse:
		return "JsonParse"
	default:
		return "Unknown"
	}
}

// Sentinels for errors.Is matching against a *Error of the same kind.
var (
	ErrFailedToBuildClient = &Error{Kind: FailedToBuildClient}
	ErrRequest             = &Error{Kind: RequestError}
	ErrResponse            = &Error{Kind: ResponseError}
	ErrJSONParse           = &Error{Kind: JsonParse}
)

// Error is returned by every fallible operation of a generated or bound client.
// The set of kinds is closed, so callers can switch on Kind exhaustively.
type Error struct {
	Kind   Kind
	Status int // HTTP status code, only set for ResponseError
	Err    error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch e.Kind {
	case FailedToBuildClient:
		return fmt.Sprintf("failed to build client: %v", e.Err)
	case RequestError:
		return fmt.Sprintf("error sending request: %v", e.Err)
	case ResponseError:
		return fmt.Sprintf("response status code (%d) indicates error: %v", e.Status, e.Err)
	case JsonParse:
		return fmt.Sprintf("failed to parse json: %v", e.Err)
	default:
		return fmt.Sprintf("retroqwest: %v", e.Err)
	}
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// StatusError is the cause carried by a ResponseError
type StatusError struct {
	StatusCode int
	Method     string
	URL        string
	Body       []byte
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP status %d %s for %s %s", e.StatusCode, http.StatusText(e.StatusCode), e.Method, e.URL)
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func newResponseError(status int, err error) *Error {
	return &Error{Kind: ResponseError, Status: status, Err: err}
}

// KindOf returns the kind of err, or 0 when err is not a *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
