// Package faults defines the error types returned by the Canvas client and
// the classifier that decides how the export pipeline reacts to them.
package faults

import (
	"errors"
	"fmt"
	"strings"
)

// Cause is the structural kind of a failed remote call.
type Cause int

const (
	CauseRemote Cause = iota
	CauseInvalidToken
	CauseUnauthorized
	CauseForbidden
	CauseNotFound
)

func (c Cause) String() string {
	switch c {
	case CauseInvalidToken:
		return "invalid access token"
	case CauseUnauthorized:
		return "unauthorized"
	case CauseForbidden:
		return "forbidden"
	case CauseNotFound:
		return "resource does not exist"
	default:
		return "canvas api error"
	}
}

// Fault is a non-2xx answer from the remote API.
type Fault struct {
	Cause   Cause
	Status  int
	Message string
}

func (f *Fault) Error() string {
	if f.Message == "" {
		return fmt.Sprintf("%s (status %d)", f.Cause, f.Status)
	}
	return fmt.Sprintf("%s (status %d): %s", f.Cause, f.Status, f.Message)
}

// New creates a Fault.
func New(cause Cause, status int, message string) *Fault {
	return &Fault{Cause: cause, Status: status, Message: message}
}

// Kind is the category a fault is sorted into.
type Kind string

const (
	KindAuthentication    Kind = "authentication"
	KindAuthorization     Kind = "authorization"
	KindStudentLimitation Kind = "student_limitation"
	KindNotFound          Kind = "not_found"
	KindCanvasError       Kind = "canvas_error"
	KindUnknown           Kind = "unknown_error"
)

// IsFatal reports whether a kind means the current account or session
// cannot be used.
func IsFatal(kind Kind) bool {
	switch kind {
	case KindAuthentication, KindAuthorization, KindCanvasError:
		return true
	}
	return false
}

// Classify maps an error from a remote call made while performing op to a
// Kind and a message suitable for the progress log. Permission faults on
// submissions or files are expected for student accounts.
func Classify(err error, op string) (Kind, string) {
	var fault *Fault
	if !errors.As(err, &fault) {
		return KindUnknown, fmt.Sprintf("Unexpected error during %s: %v", op, err)
	}

	lowered := strings.ToLower(op)
	switch fault.Cause {
	case CauseInvalidToken:
		return KindAuthentication, "Invalid Canvas API token. Please check your credentials file."
	case CauseUnauthorized:
		if strings.Contains(lowered, "submission") {
			return KindStudentLimitation, "Not authorized to download every student's assignment submission. This is normal for student accounts."
		}
		if strings.Contains(lowered, "file") {
			return KindStudentLimitation, "Not authorized to download some course files. This is normal for student accounts."
		}
		return KindAuthorization, fmt.Sprintf("Not authorized to perform %s. Check your Canvas permissions.", op)
	case CauseForbidden:
		return KindStudentLimitation, fmt.Sprintf("Access forbidden for %s. This may be normal for student accounts.", op)
	case CauseNotFound:
		return KindNotFound, fmt.Sprintf("Resource not found for %s. It may have been deleted or moved.", op)
	default:
		return KindCanvasError, fmt.Sprintf("Canvas API error during %s: %v", op, fault)
	}
}
