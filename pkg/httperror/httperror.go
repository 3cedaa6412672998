package httperror

import (
	"fmt"
	"net/http"
)

// Error is a handler failure that knows how it should be rendered over HTTP.
type Error struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(status int, code, message string, details any) *Error {
	return &Error{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func BadRequest(code, message string, details any) *Error {
	return New(http.StatusBadRequest, code, message, details)
}

func Unauthorized(code, message string, details any) *Error {
	return New(http.StatusUnauthorized, code, message, details)
}

func NotFound(code, message string, details any) *Error {
	return New(http.StatusNotFound, code, message, details)
}

func UnprocessableEntity(code, message string, details any) *Error {
	return New(http.StatusUnprocessableEntity, code, message, details)
}

func InternalServerError(code, message string, details any) *Error {
	return New(http.StatusInternalServerError, code, message, details)
}

func ServiceUnavailable(code, message string, details any) *Error {
	return New(http.StatusServiceUnavailable, code, message, details)
}
