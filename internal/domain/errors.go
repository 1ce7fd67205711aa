package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDraftNotFound      = errors.New("registration draft not found")
	ErrWrongStep          = errors.New("operation is not allowed at the current registration step")
	ErrCollectionFull     = errors.New("collection limit reached")
	ErrEntryNotFound      = errors.New("entry not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrSubmissionInFlight = errors.New("registration submission already in progress")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrUnauthorized       = errors.New("authorization required")
	ErrForbiddenRole      = errors.New("access restricted to coaches")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Fallback messages shown when the backend gave none of its own.
const (
	MsgRegistrationFailed = "Registration failed. Please try again."
	MsgLoginFailed        = "Login failed. Please check your credentials."
	MsgRequestFailed      = "Something went wrong. Please try again."
)

// ValidationError carries field-level errors keyed by JSON path, e.g. availability[0].slots[1].startTime.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// BackendError is a failure reported by the remote API, either a non-2xx
// status or a body with status:false.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded with status %d", e.StatusCode)
	}
	return e.Message
}

// UserMessage returns the text to surface to the coach.
func UserMessage(err error, fallback string) string {
	var be *BackendError
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return fallback
}
