// Package integrity decides whether a write to the academic registry may
// proceed. It combines the pure field validators with the facts only the
// store knows: whether a target exists, whether a unique value is taken and
// whether a subject still has tasks.
package integrity

import (
	"errors"
	"strings"

	"github.com/gonchi028/academic/internal/core/validation"
)

// =============================================================================
// Rejections
// =============================================================================

// Kind classifies why a write was rejected.
type Kind string

const (
	KindInvalid  Kind = "invalid"
	KindNotFound Kind = "not_found"
	KindConflict Kind = "conflict"
)

// User-facing rejection messages.
const (
	MsgStudentNotFound = "Alumno not found"
	MsgSubjectNotFound = "Materia not found"
	MsgTaskNotFound    = "Tarea not found"
	MsgDuplicateCorreo = "Email already exists"
	MsgDuplicateSigla  = "Sigla already exists"
)

// Error is a rejected write. Details carries every validator message for
// KindInvalid and is empty otherwise.
type Error struct {
	Kind    Kind
	Message string
	Details []string
}

func (e *Error) Error() string {
	return e.Message
}

// AsError returns the rejection wrapped in err, if any.
func AsError(err error) (*Error, bool) {
	var gErr *Error
	if errors.As(err, &gErr) {
		return gErr, true
	}
	return nil, false
}

func invalid(res validation.Result) *Error {
	return &Error{
		Kind:    KindInvalid,
		Message: strings.Join(res.Errors, "; "),
		Details: res.Errors,
	}
}

func notFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}
