package client

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Client matches exactly one of them with errors.Is.
var (
	ErrAuth       = errors.New("authentication failed")
	ErrValidation = errors.New("validation failed")
	ErrShare      = errors.New("share failed")
	ErrJoin       = errors.New("join failed")
	ErrNetwork    = errors.New("backend unreachable")
	ErrServer     = errors.New("server error")
)

// Error is a failed remote call. Message is the server's {"error": ...} text when one
// was sent, and is meant to be shown to the user as is.
type Error struct {
	Kind    error
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: %v (status %d)", e.Op, e.Kind, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Kind)
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage returns text suitable for inline display.
func UserMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	switch {
	case errors.Is(err, ErrNetwork):
		return "Cannot reach the server"
	case errors.Is(err, ErrAuth):
		return "Please log in again"
	}
	return err.Error()
}
