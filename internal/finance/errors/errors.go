package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrAccessDenied = errors.New("access denied: record belongs to another user")
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	ok := errors.As(err, &validationError)
	return ok
}

type ValidationErrors struct {
	Errors []error
}

func (ve *ValidationErrors) Error() string {
	errorMessages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		errorMessages[i] = err.Error()
	}
	return fmt.Sprintf("multiple validation errors: %s", strings.Join(errorMessages, "; "))
}

func (ve *ValidationErrors) Add(err error) {
	ve.Errors = append(ve.Errors, err)
}

// ErrOrNil returns ve when it holds at least one error.
func (ve *ValidationErrors) ErrOrNil() error {
	if len(ve.Errors) == 0 {
		return nil
	}
	return ve
}

// Messages flattens err into user-facing messages.
func Messages(err error) []string {
	var validationErrors *ValidationErrors
	if errors.As(err, &validationErrors) {
		messages := make([]string, len(validationErrors.Errors))
		for i, vErr := range validationErrors.Errors {
			messages[i] = vErr.Error()
		}
		return messages
	}
	return []string{err.Error()}
}

func IsValidationErrors(err error) bool {
	var validationErrors *ValidationErrors
	ok := errors.As(err, &validationErrors)
	return ok
}
