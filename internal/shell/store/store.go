package store

import (
	"context"

	"github.com/gonchi028/academic/internal/core/domain"
)

// =============================================================================
// Store Interface
// =============================================================================

// Store defines the persistence interface for academic records.
//
// Create methods set the generated ID on the record they are given. Writes
// that break a UNIQUE or foreign key constraint fail with a *ConstraintError.
type Store interface {
	// Student operations
	CreateStudent(ctx context.Context, student *domain.Student) error
	GetStudent(ctx context.Context, id int64) (*domain.Student, error)
	GetStudentByCorreo(ctx context.Context, correo string) (*domain.Student, error)
	UpdateStudent(ctx context.Context, student *domain.Student) error
	DeleteStudent(ctx context.Context, id int64) error
	ListStudents(ctx context.Context) ([]domain.Student, error)

	// Subject operations
	CreateSubject(ctx context.Context, subject *domain.Subject) error
	GetSubject(ctx context.Context, id int64) (*domain.Subject, error)
	GetSubjectBySigla(ctx context.Context, sigla string) (*domain.Subject, error)
	UpdateSubject(ctx context.Context, subject *domain.Subject) error
	DeleteSubject(ctx context.Context, id int64) error
	ListSubjects(ctx context.Context) ([]domain.Subject, error)

	// Task operations
	CreateTask(ctx context.Context, task *domain.Task) error
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	UpdateTask(ctx context.Context, task *domain.Task) error
	DeleteTask(ctx context.Context, id int64) error
	ListTasks(ctx context.Context) ([]domain.Task, error)

	// Dependency lookups (for safe deletion checks)
	ListTasksBySubject(ctx context.Context, subjectID int64, opts ListOptions) ([]domain.Task, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}

// =============================================================================
// Options
// =============================================================================

// ListOptions bounds a list query. The zero value returns every row.
type ListOptions struct {
	Limit  int
	Offset int
}

// Normalize ensures list options have valid values. A non-positive limit
// becomes -1, which SQLite reads as "no limit".
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = -1
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}
