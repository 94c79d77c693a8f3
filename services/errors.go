package service

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("forbidden")
	ErrNoteNotFound       = errors.New("note not found")
	ErrInvalidShareToken  = errors.New("note not found for that token")
	ErrInvalidCredentials = errors.New("invalid username/password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrUnauthorized       = errors.New("unauthorized")
)

// InputError describes a rejected field. It matches ErrInvalidInput with errors.Is.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(message string) error {
	return &InputError{Message: message}
}

// ForbiddenError carries the reason an action was refused. It matches ErrForbidden with errors.Is.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}

func forbidden(message string) error {
	return &ForbiddenError{Message: message}
}
