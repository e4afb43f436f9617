package gameerr

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of a game error
type ErrorType string

const (
	// TypePrecondition marks a call made without its required check, a programming error
	TypePrecondition ErrorType = "precondition"
	// TypeInsufficient marks a transfer the player cannot afford or cannot receive
	TypeInsufficient ErrorType = "insufficient"
	// TypeCapacity marks a transport or trade limit being exceeded
	TypeCapacity ErrorType = "capacity"
	// TypeNotFound marks a missing catalog or game entity
	TypeNotFound ErrorType = "not_found"
	// TypeValidation marks malformed content or input data
	TypeValidation ErrorType = "validation"
	// TypeInternal marks a failure in a collaborator such as a journal sink
	TypeInternal ErrorType = "internal"
)

// Error is the base error type for game errors
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Precondition creates a precondition error
func Precondition(message string) error {
	return &Error{Type: TypePrecondition, Message: message}
}

// Preconditionf creates a precondition error with formatting
func Preconditionf(format string, args ...interface{}) error {
	return &Error{Type: TypePrecondition, Message: fmt.Sprintf(format, args...)}
}

// Insufficient creates an insufficient-resources error
func Insufficient(message string) error {
	return &Error{Type: TypeInsufficient, Message: message}
}

// Capacity creates a capacity error
func Capacity(message string) error {
	return &Error{Type: TypeCapacity, Message: message}
}

// NotFound creates a not found error
func NotFound(message string) error {
	return &Error{Type: TypeNotFound, Message: message}
}

// NotFoundf creates a not found error with formatting
func NotFoundf(format string, args ...interface{}) error {
	return &Error{Type: TypeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error
func Validation(message string) error {
	return &Error{Type: TypeValidation, Message: message}
}

// Validationf creates a validation error with formatting
func Validationf(format string, args ...interface{}) error {
	return &Error{Type: TypeValidation, Message: fmt.Sprintf(format, args...)}
}

// WrapValidation wraps an error as a validation error
func WrapValidation(message string, err error) error {
	return &Error{Type: TypeValidation, Message: message, Err: err}
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return &Error{Type: TypeInternal, Message: message, Err: err}
}

// GetType extracts the error type from an error chain. Errors that are not
// game errors report TypeInternal.
func GetType(err error) ErrorType {
	var gameErr *Error
	if errors.As(err, &gameErr) {
		return gameErr.Type
	}
	return TypeInternal
}

// IsPrecondition reports whether err is a precondition violation
func IsPrecondition(err error) bool {
	return err != nil && GetType(err) == TypePrecondition
}

// IsInsufficient reports whether err is an insufficient-resources error
func IsInsufficient(err error) bool {
	return err != nil && GetType(err) == TypeInsufficient
}

// IsCapacity reports whether err is a capacity error
func IsCapacity(err error) bool {
	return err != nil && GetType(err) == TypeCapacity
}

// IsNotFound reports whether err is a not found error
func IsNotFound(err error) bool {
	return err != nil && GetType(err) == TypeNotFound
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	return err != nil && GetType(err) == TypeValidation
}
