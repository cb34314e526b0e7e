// Package store provides persistence for academic records.
package store

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrNotFound is returned when an entity is not found.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a write violates a UNIQUE constraint.
	ErrDuplicate = errors.New("unique constraint violated")

	// ErrForeignKey is returned when a foreign key constraint is violated.
	ErrForeignKey = errors.New("foreign key constraint violated")

	// ErrConnectionFailed is returned when database connection fails.
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrMigrationFailed is returned when database migration fails.
	ErrMigrationFailed = errors.New("database migration failed")
)

// StoreError wraps errors with additional context.
type StoreError struct {
	Op      string // Operation that failed (e.g., "CreateStudent")
	Entity  string // Entity type (e.g., "alumno", "materia")
	ID      string // Entity ID if applicable
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s %s: %s", e.Op, e.Entity, e.ID, e.Message)
	}
	if e.Entity != "" {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Entity, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op, entity, id, message string, err error) *StoreError {
	return &StoreError{
		Op:      op,
		Entity:  entity,
		ID:      id,
		Message: message,
		Err:     err,
	}
}

// =============================================================================
// Constraint Violations
// =============================================================================

// ConstraintKind identifies which kind of constraint a write violated.
type ConstraintKind string

const (
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintForeignKey ConstraintKind = "foreign_key"
)

// ConstraintError reports a constraint the database refused a write on.
// Table and Column are set for UNIQUE violations; SQLite does not name the
// column of a failed foreign key.
type ConstraintError struct {
	Kind   ConstraintKind
	Table  string
	Column string
}

func (e *ConstraintError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s constraint failed: %s.%s", e.Kind, e.Table, e.Column)
	}
	return fmt.Sprintf("%s constraint failed", e.Kind)
}

// Is lets errors.Is match the ErrDuplicate and ErrForeignKey sentinels.
func (e *ConstraintError) Is(target error) bool {
	switch e.Kind {
	case ConstraintUnique:
		return target == ErrDuplicate
	case ConstraintForeignKey:
		return target == ErrForeignKey
	}
	return false
}

// AsConstraint returns the constraint violation wrapped in err, if any.
func AsConstraint(err error) (*ConstraintError, bool) {
	var cErr *ConstraintError
	if errors.As(err, &cErr) {
		return cErr, true
	}
	return nil, false
}

// IsNotFound reports whether err means the requested entity does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
