// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error. Callers branch on the kind rather than on
// individual error values when they only need the category.
type Kind string

// Error kinds.
const (
	KindNotFound      Kind = "not_found"
	KindNotTeamMember Kind = "not_team_member"
	KindUnauthorized  Kind = "unauthorized"
	KindForbidden     Kind = "forbidden"
	KindConflict      Kind = "conflict"
	KindInvalidInput  Kind = "invalid_input"
	KindInternal      Kind = "internal"
)

// Error is a classified domain error with a stable code that clients can
// depend on. Sentinel values below are compared with errors.Is.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Common domain errors used across the application.
var (
	// ErrInvalidInput is returned when a payload fails structural validation.
	// It is usually wrapped by a ValidationError naming the field.
	ErrInvalidInput = &Error{Kind: KindInvalidInput, Code: "C001", Message: "invalid input"}

	// ErrInternal is returned for failures the caller cannot act on.
	ErrInternal = &Error{Kind: KindInternal, Code: "C002", Message: "internal server error"}

	// ErrUnauthorized is returned when no caller identity is present.
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Code: "A001", Message: "authentication required"}

	// ErrInvalidToken is returned when a credential cannot be resolved to an identity.
	ErrInvalidToken = &Error{Kind: KindUnauthorized, Code: "A002", Message: "invalid token"}

	// ErrExpiredToken is returned when a credential is past its expiry.
	ErrExpiredToken = &Error{Kind: KindUnauthorized, Code: "A003", Message: "token has expired"}

	// ErrAccessDenied is returned for authenticated callers lacking a global permission.
	ErrAccessDenied = &Error{Kind: KindForbidden, Code: "A004", Message: "access denied"}

	ErrUserNotFound      = &Error{Kind: KindNotFound, Code: "U001", Message: "user not found"}
	ErrDuplicateLoginID  = &Error{Kind: KindConflict, Code: "U002", Message: "login id already in use"}
	ErrDuplicateNickname = &Error{Kind: KindConflict, Code: "U003", Message: "nickname already in use"}
	ErrInvalidPassword   = &Error{Kind: KindInvalidInput, Code: "U004", Message: "password does not match"}

	ErrTeamNotFound      = &Error{Kind: KindNotFound, Code: "T001", Message: "team not found"}
	ErrAlreadyTeamMember = &Error{Kind: KindConflict, Code: "T002", Message: "user is already a team member"}
	ErrNotTeamMember     = &Error{Kind: KindNotTeamMember, Code: "T003", Message: "not a member of this team"}
	ErrNotTeamLeader     = &Error{Kind: KindForbidden, Code: "T004", Message: "only the team leader may do this"}

	// ErrTaskNotFound is returned for tasks that never existed and for
	// tasks carrying a delete marker.
	ErrTaskNotFound = &Error{Kind: KindNotFound, Code: "K001", Message: "task not found"}

	// ErrTaskAlreadyDeleted is part of the public code table but no operation
	// returns it: deleted tasks are reported as ErrTaskNotFound.
	ErrTaskAlreadyDeleted = &Error{Kind: KindInvalidInput, Code: "K002", Message: "task has already been deleted"}

	// ErrVersionConflict is returned when a task was modified after the
	// caller last read it.
	ErrVersionConflict = &Error{Kind: KindConflict, Code: "K003", Message: "task was modified by another request"}
)

// ValidationError describes a single invalid field. It unwraps to the
// underlying cause, which is ErrInvalidInput unless stated otherwise.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for field. A nil err defaults
// to ErrInvalidInput so the result always classifies as KindInvalidInput.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrInvalidInput
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}

// KindOf returns the kind of the first domain Error in err's chain, or
// KindInternal when err carries no classification.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// CodeOf returns the stable code of the first domain Error in err's chain,
// or the internal error code.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrInternal.Code
}
