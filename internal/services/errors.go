package services

import (
	"errors"
	"fmt"
)

var (
	ErrAuditRequestNotFound = errors.New("audit request not found")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountLocked        = errors.New("account locked")
	ErrUsernameTaken        = errors.New("username already taken")

	// ErrConcurrencyConflict reports a lost race on a request record: the
	// guarded status write found the row already changed. The caller may
	// retry; the service never retries on its own.
	ErrConcurrencyConflict = errors.New("audit request was modified concurrently")
)

// ValidationError reports malformed input: a missing required field, an
// unknown document type or an unknown target status.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
