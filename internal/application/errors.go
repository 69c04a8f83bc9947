package application

import "errors"

// Failure kinds surfaced to callers.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrQuotaExceeded = errors.New("quota exceeded")
)

// Error is a known failure with a short caller-facing message.
// errors.Is matches both the specific value and its Kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

var (
	ErrInvalidUsername    = &Error{Kind: ErrBadRequest, Message: "Username may only contain letters, digits, '.', '_' and '-'"}
	ErrSameUsername       = &Error{Kind: ErrBadRequest, Message: "New username cannot be the same as the old one."}
	ErrFileTypeNotAllowed = &Error{Kind: ErrBadRequest, Message: "File type not allowed"}
	ErrPasswordTooLong    = &Error{Kind: ErrBadRequest, Message: "Password must be at most 72 bytes."}

	ErrInvalidToken      = &Error{Kind: ErrUnauthorized, Message: "Invalid or expired session token"}
	ErrIncorrectPassword = &Error{Kind: ErrUnauthorized, Message: "Incorrect password."}

	ErrUserNotFound = &Error{Kind: ErrNotFound, Message: "User not found. Proceed with signup."}
	ErrTaskNotFound = &Error{Kind: ErrNotFound, Message: "Task not found"}

	ErrUsernameTaken = &Error{Kind: ErrConflict, Message: "Username already exists"}

	ErrDailyCapReached = &Error{Kind: ErrQuotaExceeded, Message: "Maximum number of tasks per day reached."}
)
