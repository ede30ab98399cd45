package utils

import (
	"errors"
	"net/http"
)

// AppError is the domain error taxonomy surfaced on the wire as
// {message, errors:[...]} with the carried HTTP status.
type AppError struct {
	Status  int      `json:"-"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationError(message string, fieldErrors ...string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message, Errors: fieldErrors}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Status: http.StatusConflict, Message: message}
}

func NewInternalError(message string) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: message}
}

// AsAppError unwraps err into the taxonomy if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
