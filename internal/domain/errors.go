package domain

import (
	"errors"
	"fmt"
)

// Category sentinels. Specific errors below wrap one of these, so callers can
// match either the exact condition or the whole class with errors.Is.
var (
	// ErrValidation covers missing or malformed input.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound covers lookups that matched no session, question, or attempt.
	ErrNotFound = errors.New("not found")
	// ErrConflict covers uniqueness violations and repeated one-way transitions.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized covers missing, invalid, or expired credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	// ErrSessionNotFound is returned for unknown session codes and, on
	// participant paths, for sessions that exist but are no longer active.
	ErrSessionNotFound = fmt.Errorf("%w: invalid or inactive session", ErrNotFound)
	// ErrQuestionNotFound indicates a question ID matched nothing.
	ErrQuestionNotFound = fmt.Errorf("%w: question not found", ErrNotFound)
	// ErrAttemptNotFound indicates no attempt exists for a (session, email) pair.
	ErrAttemptNotFound = fmt.Errorf("%w: attempt not found", ErrNotFound)
	// ErrNoActiveAttempt is returned by submit when the pair has no attempt in
	// IN_PROGRESS state (never started, or already submitted).
	ErrNoActiveAttempt = fmt.Errorf("%w: no active attempt found", ErrNotFound)
	// ErrAdminNotFound indicates no admin account matches the email.
	ErrAdminNotFound = fmt.Errorf("%w: admin not found", ErrNotFound)

	// ErrSessionCodeTaken is raised by the store when a session code collides.
	ErrSessionCodeTaken = fmt.Errorf("%w: session code already in use", ErrConflict)
	// ErrAttemptExists is the storage-level duplicate-create signal for the
	// (sessionCode, email) constraint. Start retries it as a lookup.
	ErrAttemptExists = fmt.Errorf("%w: attempt already exists", ErrConflict)
	// ErrAlreadyAttempted means the participant already submitted this quiz.
	ErrAlreadyAttempted = fmt.Errorf("%w: you already attempted this quiz", ErrConflict)
	// ErrAdminExists means the admin email is already registered.
	ErrAdminExists = fmt.Errorf("%w: admin already exists", ErrConflict)

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	// ErrInvalidToken is returned for tokens that fail verification.
	ErrInvalidToken = fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)
)

// Validationf builds a validation error with a caller-facing message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}
