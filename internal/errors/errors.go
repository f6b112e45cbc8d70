package errors

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	InvalidInput      ErrorCode = "invalid_input"
	InvalidAmount     ErrorCode = "invalid_amount"
	InvalidHolderName ErrorCode = "invalid_holder_name"
	NoAccount         ErrorCode = "no_account"
	InternalError     ErrorCode = "internal_error"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target carries the same code, so a copy returned with
// extra details still matches the predefined sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetails returns a copy of e carrying details. Sentinels stay untouched.
func (e *AppError) WithDetails(details string) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// HTTPStatus maps the error code to a response status.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case InvalidInput, InvalidAmount, InvalidHolderName:
		return http.StatusBadRequest
	case NoAccount:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors for common cases
var (
	ErrInvalidInput      = NewAppError(InvalidInput, "Enter valid numeric values!")
	ErrInvalidAmount     = NewAppError(InvalidAmount, "Enter valid amount!")
	ErrInvalidOpening    = NewAppError(InvalidAmount, "Enter valid details!")
	ErrInvalidHolderName = NewAppError(InvalidHolderName, "Enter valid details!")
	ErrNoAccount         = NewAppError(NoAccount, "Create an account first!")
)
