package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInvalidState      = errors.New("invalid state")
	ErrInvalidCard       = errors.New("invalid card")
	ErrAlreadyOpen       = errors.New("timesheet already open")
)

// Error carries a caller-facing message next to its sentinel kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Msg, e.Kind) }

func (e *Error) Unwrap() error { return e.Kind }

func fail(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Message returns the caller-facing text of err, or "" if it has none.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return ""
}
