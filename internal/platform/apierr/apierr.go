package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries an HTTP status and a stable machine code alongside the underlying cause.
// Details are safe to show to the caller; Err is for logs only.
type Error struct {
	Status  int
	Code    string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func BadRequest(code string, details ...string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: code, Details: details, Err: errors.New(code)}
}

func NotFound(code string) *Error {
	return &Error{Status: http.StatusNotFound, Code: code, Err: errors.New(code)}
}

// As extracts an *Error from err, or nil.
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
