// Package errs provides the error type returned across the HTTP boundary.
package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrCode is a transport-neutral error classification.
type ErrCode struct {
	value int
}

// Value returns the integer value of the code.
func (ec ErrCode) Value() int {
	return ec.value
}

// String returns the name of the code.
func (ec ErrCode) String() string {
	return codeNames[ec]
}

// Set of error codes.
var (
	InvalidArgument  = ErrCode{value: 1}
	Unauthenticated  = ErrCode{value: 2}
	PermissionDenied = ErrCode{value: 3}
	NotFound         = ErrCode{value: 4}
	AlreadyExists    = ErrCode{value: 5}
	Internal         = ErrCode{value: 6}
	InternalOnlyLog  = ErrCode{value: 7}
)

var codeNames = map[ErrCode]string{
	InvalidArgument:  "invalid_argument",
	Unauthenticated:  "unauthenticated",
	PermissionDenied: "permission_denied",
	NotFound:         "not_found",
	AlreadyExists:    "already_exists",
	Internal:         "internal",
	InternalOnlyLog:  "internal_only_log",
}

var httpStatus = map[ErrCode]int{
	InvalidArgument:  http.StatusBadRequest,
	Unauthenticated:  http.StatusUnauthorized,
	PermissionDenied: http.StatusForbidden,
	NotFound:         http.StatusNotFound,
	AlreadyExists:    http.StatusConflict,
	Internal:         http.StatusInternalServerError,
	InternalOnlyLog:  http.StatusInternalServerError,
}

// Error is the application error sent to clients. Details holds the wrapped
// cause and is only rendered when debug output is enabled.
type Error struct {
	Code     ErrCode `json:"-"`
	Message  string  `json:"message"`
	Details  string  `json:"details,omitempty"`
	FuncName string  `json:"-"`
	FileName string  `json:"-"`
	cause    error
}

// New wraps err with code. The message is the error text.
func New(code ErrCode, err error) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  err.Error(),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
		cause:    err,
	}
}

// Wrap keeps cause for logs and debug output while the client sees message.
func Wrap(code ErrCode, cause error, message string) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  message,
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
		cause:    cause,
	}
}

// Newf constructs an error with a formatted message.
func Newf(code ErrCode, format string, v ...any) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  fmt.Sprintf(format, v...),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// WithDetails returns a copy carrying detail text.
func (e *Error) WithDetails(details string) *Error {
	c := *e
	c.Details = details
	return &c
}

// Encode implements the web.Encoder interface.
func (e *Error) Encode() ([]byte, string, error) {
	data, err := json.Marshal(e)
	return data, "application/json", err
}

// HTTPStatus implements the web.httpStatus interface.
func (e *Error) HTTPStatus() int {
	if s, ok := httpStatus[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// IsError reports whether err wraps an *Error.
func IsError(err error) bool {
	var er *Error
	return errors.As(err, &er)
}

// GetError returns the *Error wrapped by err, or nil.
func GetError(err error) *Error {
	var er *Error
	if !errors.As(err, &er) {
		return nil
	}
	return er
}
