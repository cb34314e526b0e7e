package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gonchi028/academic/internal/core/domain"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// =============================================================================
// SQLiteStore
// =============================================================================

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore creates a new SQLite store and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	// Open database connection
	db, err := sqlx.Open("sqlite3", withForeignKeys(dsn))
	if err != nil {
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to open database", ErrConnectionFailed)
	}

	// One connection: SQLite serialises writers anyway, and every
	// connection to ":memory:" would otherwise get its own empty database.
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to ping database", ErrConnectionFailed)
	}

	// Run migrations
	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", err.Error(), ErrMigrationFailed)
	}

	return &SQLiteStore{db: db}, nil
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

// runMigrations runs database migrations using embedded SQL files.
func runMigrations(db *sql.DB) error {
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return NewStoreError("Ping", "", "", err.Error(), ErrConnectionFailed)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// Student Operations
// =============================================================================

// studentRow represents an alumnos row in the database.
type studentRow struct {
	ID       int64  `db:"id"`
	Nombre   string `db:"nombre"`
	Apellido string `db:"apellido"`
	Correo   string `db:"correo"`
}

func (r studentRow) toDomain() *domain.Student {
	return &domain.Student{ID: r.ID, Nombre: r.Nombre, Apellido: r.Apellido, Correo: r.Correo}
}

func (s *SQLiteStore) CreateStudent(ctx context.Context, student *domain.Student) error {
	query := `INSERT INTO alumnos (nombre, apellido, correo) VALUES (:nombre, :apellido, :correo)`

	result, err := s.db.NamedExecContext(ctx, query, map[string]any{
		"nombre":   student.Nombre,
		"apellido": student.Apellido,
		"correo":   student.Correo,
	})
	if err != nil {
		return writeError("CreateStudent", domain.EntityStudent, "", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return NewStoreError("CreateStudent", domain.EntityStudent, "", err.Error(), err)
	}
	student.ID = id
	return nil
}

func (s *SQLiteStore) GetStudent(ctx context.Context, id int64) (*domain.Student, error) {
	var row studentRow
	if err := s.db.GetContext(ctx, &row, `SELECT * FROM alumnos WHERE id = ?`, id); err != nil {
		return nil, readError("GetStudent", domain.EntityStudent, idString(id), err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStore) GetStudentByCorreo(ctx context.Context, correo string) (*domain.Student, error) {
	var row studentRow
	if err := s.db.GetContext(ctx, &row, `SELECT * FROM alumnos WHERE correo = ?`, correo); err != nil {
		return nil, readError("GetStudentByCorreo", domain.EntityStudent, correo, err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStore) UpdateStudent(ctx context.Context, student *domain.Student) error {
	query := `
		UPDATE alumnos SET
			nombre = :nombre,
			apellido = :apellido,
			correo = :correo
		WHERE id = :id`

	result, err := s.db.NamedExecContext(ctx, query, map[string]any{
		"id":       student.ID,
		"nombre":   student.Nombre,
		"apellido": student.Apellido,
		"correo":   student.Correo,
	})
	if err != nil {
		return writeError("UpdateStudent", domain.EntityStudent, idString(student.ID), err)
	}
	return requireAffected(result, "UpdateStudent", domain.EntityStudent, student.ID)
}

func (s *SQLiteStore) DeleteStudent(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM alumnos WHERE id = ?`, id)
	if err != nil {
		return writeError("DeleteStudent", domain.EntityStudent, idString(id), err)
	}
	return requireAffected(result, "DeleteStudent", domain.EntityStudent, id)
}

func (s *SQLiteStore) ListStudents(ctx context.Context) ([]domain.Student, error) {
	var rows []studentRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM alumnos ORDER BY id`); err != nil {
		return nil, NewStoreError("ListStudents", domain.EntityStudent, "", err.Error(), err)
	}

	students := make([]domain.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, *row.toDomain())
	}
	return students, nil
}

// =============================================================================
// Subject Operations
// =============================================================================

// subjectRow represents a materias row in the database.
type subjectRow struct {
	ID     int64  `db:"id"`
	Titulo string `db:"titulo"`
	Sigla  string `db:"sigla"`
}

func (r subjectRow) toDomain() *domain.Subject {
	return &domain.Subject{ID: r.ID, Titulo: r.Titulo, Sigla: r.Sigla}
}

func (s *SQLiteStore) CreateSubject(ctx context.Context, subject *domain.Subject) error {
	query := `INSERT INTO materias (titulo, sigla) VALUES (:titulo, :sigla)`

	result, err := s.db.NamedExecContext(ctx, query, map[string]any{
		"titulo": subject.Titulo,
		"sigla":  subject.Sigla,
	})
	if err != nil {
		return writeError("CreateSubject", domain.EntitySubject, "", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return NewStoreError("CreateSubject", domain.EntitySubject, "", err.Error(), err)
	}
	subject.ID = id
	return nil
}

func (s *SQLiteStore) GetSubject(ctx context.Context, id int64) (*domain.Subject, error) {
	var row subjectRow
	if err := s.db.GetContext(ctx, &row, `SELECT * FROM materias WHERE id = ?`, id); err != nil {
		return nil, readError("GetSubject", domain.EntitySubject, idString(id), err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStore) GetSubjectBySigla(ctx context.Context, sigla string) (*domain.Subject, error) {
	var row subjectRow
	if err := s.db.GetContext(ctx, &row, `SELECT * FROM materias WHERE sigla = ?`, sigla); err != nil {
		return nil, readError("GetSubjectBySigla", domain.EntitySubject, sigla, err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStore) UpdateSubject(ctx context.Context, subject *domain.Subject) error {
	query := `
		UPDATE materias SET
			titulo = :titulo,
			sigla = :sigla
		WHERE id = :id`

	result, err := s.db.NamedExecContext(ctx, query, map[string]any{
		"id":     subject.ID,
		"titulo": subject.Titulo,
		"sigla":  subject.Sigla,
	})
	if err != nil {
		return writeError("UpdateSubject", domain.EntitySubject, idString(subject.ID), err)
	}
	return requireAffected(result, "UpdateSubject", domain.EntitySubject, subject.ID)
}

func (s *SQLiteStore) DeleteSubject(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM materias WHERE id = ?`, id)
	if err != nil {
		return writeError("DeleteSubject", domain.EntitySubject, idString(id), err)
	}
	return requireAffected(result, "DeleteSubject", domain.EntitySubject, id)
}

func (s *SQLiteStore) ListSubjects(ctx context.Context) ([]domain.Subject, error) {
	var rows []subjectRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM materias ORDER BY id`); err != nil {
		return nil, NewStoreError("ListSubjects", domain.EntitySubject, "", err.Error(), err)
	}

	subjects := make([]domain.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, *row.toDomain())
	}
	return subjects, nil
}

// =============================================================================
// Task Operations
// =============================================================================

// taskRow represents a tareas row in the database.
type taskRow struct {
	ID           int64  `db:"id"`
	Descripcion  string `db:"descripcion"`
	Calificacion int    `db:"calificacion"`
	MateriaID    int64  `db:"materia_id"`
}

func (r taskRow) toDomain() *domain.Task {
	return &domain.Task{
		ID:           r.ID,
		Descripcion:  r.Descripcion,
		Calificacion: r.Calificacion,
		MateriaID:    r.MateriaID,
	}
}

func (s *SQLiteStore) CreateTask(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tareas (descripcion, calificacion, materia_id)
		VALUES (:descripcion, :calificacion, :materia_id)`

	result, err := s.db.NamedExecContext(ctx, query, map[string]any{
		"descripcion":  task.Descripcion,
		"calificacion": task.Calificacion,
		"materia_id":   task.MateriaID,
	})
	if err != nil {
		return writeError("CreateTask", domain.EntityTask, "", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return NewStoreError("CreateTask", domain.EntityTask, "", err.Error(), err)
	}
	task.ID = id
	return nil
}

func (s *SQLiteStore) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	var row taskRow
	if err := s.db.GetContext(ctx, &row, `SELECT * FROM tareas WHERE id = ?`, id); err != nil {
		return nil, readError("GetTask", domain.EntityTask, idString(id), err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStore) UpdateTask(ctx context.Context, task *domain.Task) error {
	query := `
		UPDATE tareas SET
			descripcion = :descripcion,
			calificacion = :calificacion,
			materia_id = :materia_id
		WHERE id = :id`

	result, err := s.db.NamedExecContext(ctx, query, map[string]any{
		"id":           task.ID,
		"descripcion":  task.Descripcion,
		"calificacion": task.Calificacion,
		"materia_id":   task.MateriaID,
	})
	if err != nil {
		return writeError("UpdateTask", domain.EntityTask, idString(task.ID), err)
	}
	return requireAffected(result, "UpdateTask", domain.EntityTask, task.ID)
}

func (s *SQLiteStore) DeleteTask(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tareas WHERE id = ?`, id)
	if err != nil {
		return writeError("DeleteTask", domain.EntityTask, idString(id), err)
	}
	return requireAffected(result, "DeleteTask", domain.EntityTask, id)
}

func (s *SQLiteStore) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM tareas ORDER BY id`); err != nil {
		return nil, NewStoreError("ListTasks", domain.EntityTask, "", err.Error(), err)
	}
	return tasksFromRows(rows), nil
}

func (s *SQLiteStore) ListTasksBySubject(ctx context.Context, subjectID int64, opts ListOptions) ([]domain.Task, error) {
	opts = opts.Normalize()
	query := `SELECT * FROM tareas WHERE materia_id = ? ORDER BY id LIMIT ? OFFSET ?`

	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows, query, subjectID, opts.Limit, opts.Offset); err != nil {
		return nil, NewStoreError("ListTasksBySubject", domain.EntityTask, "", err.Error(), err)
	}
	return tasksFromRows(rows), nil
}

func tasksFromRows(rows []taskRow) []domain.Task {
	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, *row.toDomain())
	}
	return tasks
}

// =============================================================================
// Error Translation
// =============================================================================

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

// readError maps a single-row lookup failure, turning sql.ErrNoRows into ErrNotFound.
func readError(op, entity, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return NewStoreError(op, entity, id, entity+" not found", ErrNotFound)
	}
	return NewStoreError(op, entity, id, err.Error(), err)
}

// writeError wraps a failed write, lifting SQLite constraint failures into a
// *ConstraintError so callers never inspect driver message text.
func writeError(op, entity, id string, err error) error {
	if cErr := constraintFromSQLite(err); cErr != nil {
		return NewStoreError(op, entity, id, cErr.Error(), cErr)
	}
	return NewStoreError(op, entity, id, err.Error(), err)
}

func constraintFromSQLite(err error) *ConstraintError {
	var sqlErr sqlite3.Error
	if !errors.As(err, &sqlErr) || sqlErr.Code != sqlite3.ErrConstraint {
		return nil
	}

	switch sqlErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		table, column := uniqueTarget(sqlErr.Error())
		return &ConstraintError{Kind: ConstraintUnique, Table: table, Column: column}
	case sqlite3.ErrConstraintForeignKey:
		return &ConstraintError{Kind: ConstraintForeignKey}
	}
	return nil
}

// uniqueTarget extracts "table", "column" from SQLite's
// "UNIQUE constraint failed: table.column" message.
func uniqueTarget(msg string) (table, column string) {
	_, target, ok := strings.Cut(msg, "constraint failed: ")
	if !ok {
		return "", ""
	}
	// Composite keys list several columns; the first names the table.
	target, _, _ = strings.Cut(target, ",")
	table, column, _ = strings.Cut(strings.TrimSpace(target), ".")
	return table, column
}

func requireAffected(result sql.Result, op, entity string, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return NewStoreError(op, entity, idString(id), err.Error(), err)
	}
	if rowsAffected == 0 {
		return NewStoreError(op, entity, idString(id), entity+" not found", ErrNotFound)
	}
	return nil
}
