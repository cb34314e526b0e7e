package store

import (
	"context"
	"errors"
	"testing"

	"github.com/gonchi028/academic/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func createTestStudent(t *testing.T, store Store, correo string) *domain.Student {
	t.Helper()
	student := &domain.Student{Nombre: "Juan", Apellido: "Pérez", Correo: correo}
	require.NoError(t, store.CreateStudent(context.Background(), student))
	return student
}

func createTestSubject(t *testing.T, store Store, sigla string) *domain.Subject {
	t.Helper()
	subject := &domain.Subject{Titulo: "Matemáticas", Sigla: sigla}
	require.NoError(t, store.CreateSubject(context.Background(), subject))
	return subject
}

func createTestTask(t *testing.T, store Store, subjectID int64) *domain.Task {
	t.Helper()
	task := &domain.Task{Descripcion: "Tarea 1", Calificacion: 85, MateriaID: subjectID}
	require.NoError(t, store.CreateTask(context.Background(), task))
	return task
}

// =============================================================================
// Student Tests
// =============================================================================

func TestCreateStudent_AssignsID(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first := createTestStudent(t, store, "juan.perez@test.com")
	second := createTestStudent(t, store, "maria.garcia@test.com")

	assert.Positive(t, first.ID)
	assert.Greater(t, second.ID, first.ID)

	retrieved, err := store.GetStudent(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, retrieved)
}

func TestCreateStudent_DuplicateCorreo(t *testing.T) {
	store := setupTestStore(t)
	createTestStudent(t, store, "dup@test.com")

	err := store.CreateStudent(context.Background(), &domain.Student{Nombre: "Otro", Apellido: "X", Correo: "dup@test.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicate)

	cErr, ok := AsConstraint(err)
	require.True(t, ok)
	assert.Equal(t, ConstraintUnique, cErr.Kind)
	assert.Equal(t, "alumnos", cErr.Table)
	assert.Equal(t, "correo", cErr.Column)
}

func TestGetStudent_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetStudent(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var storeErr *StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "GetStudent", storeErr.Op)
	assert.Equal(t, "999", storeErr.ID)
}

func TestGetStudentByCorreo(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	student := createTestStudent(t, store, "find.me@test.com")

	found, err := store.GetStudentByCorreo(ctx, "find.me@test.com")
	require.NoError(t, err)
	assert.Equal(t, student.ID, found.ID)

	_, err = store.GetStudentByCorreo(ctx, "missing@test.com")
	assert.True(t, IsNotFound(err))
}

func TestUpdateStudent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	student := createTestStudent(t, store, "a@test.com")

	student.Nombre = "Ana María"
	require.NoError(t, store.UpdateStudent(ctx, student))

	retrieved, err := store.GetStudent(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana María", retrieved.Nombre)
	assert.Equal(t, "a@test.com", retrieved.Correo)
}

func TestUpdateStudent_NotFound(t *testing.T) {
	store := setupTestStore(t)

	err := store.UpdateStudent(context.Background(), &domain.Student{ID: 42, Nombre: "x", Apellido: "y", Correo: "z@w.io"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStudent_DuplicateCorreo(t *testing.T) {
	store := setupTestStore(t)
	createTestStudent(t, store, "taken@test.com")
	other := createTestStudent(t, store, "other@test.com")

	other.Correo = "taken@test.com"
	err := store.UpdateStudent(context.Background(), other)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestDeleteStudent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	student := createTestStudent(t, store, "bye@test.com")

	require.NoError(t, store.DeleteStudent(ctx, student.ID))

	_, err := store.GetStudent(ctx, student.ID)
	assert.True(t, IsNotFound(err))

	assert.ErrorIs(t, store.DeleteStudent(ctx, student.ID), ErrNotFound)
}

func TestListStudents_OrderedByID(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	empty, err := store.ListStudents(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	a := createTestStudent(t, store, "a@test.com")
	b := createTestStudent(t, store, "b@test.com")

	students, err := store.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, a.ID, students[0].ID)
	assert.Equal(t, b.ID, students[1].ID)
}

// =============================================================================
// Subject Tests
// =============================================================================

func TestCreateSubject_DuplicateSigla(t *testing.T) {
	store := setupTestStore(t)
	createTestSubject(t, store, "MAT101")

	err := store.CreateSubject(context.Background(), &domain.Subject{Titulo: "Otra", Sigla: "MAT101"})
	require.Error(t, err)

	cErr, ok := AsConstraint(err)
	require.True(t, ok)
	assert.Equal(t, "materias", cErr.Table)
	assert.Equal(t, "sigla", cErr.Column)
}

func TestGetSubjectBySigla(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	subject := createTestSubject(t, store, "PRG201")

	found, err := store.GetSubjectBySigla(ctx, "PRG201")
	require.NoError(t, err)
	assert.Equal(t, subject, found)

	_, err = store.GetSubjectBySigla(ctx, "NOPE")
	assert.True(t, IsNotFound(err))
}

func TestUpdateAndListSubjects(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	subject := createTestSubject(t, store, "BD301")

	subject.Titulo = "Base de Datos"
	require.NoError(t, store.UpdateSubject(ctx, subject))

	subjects, err := store.ListSubjects(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "Base de Datos", subjects[0].Titulo)
}

func TestDeleteSubject_ForeignKeyBackstop(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	subject := createTestSubject(t, store, "MAT101")
	createTestTask(t, store, subject.ID)

	err := store.DeleteSubject(ctx, subject.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForeignKey)

	_, err = store.GetSubject(ctx, subject.ID)
	assert.NoError(t, err)
}

// =============================================================================
// Task Tests
// =============================================================================

func TestCreateTask_RoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	subject := createTestSubject(t, store, "MAT101")
	task := createTestTask(t, store, subject.ID)

	retrieved, err := store.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task, retrieved)
}

func TestCreateTask_UnknownSubject(t *testing.T) {
	store := setupTestStore(t)

	err := store.CreateTask(context.Background(), &domain.Task{Descripcion: "x", Calificacion: 1, MateriaID: 99999})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForeignKey)
}

func TestUpdateTask(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	first := createTestSubject(t, store, "MAT101")
	second := createTestSubject(t, store, "PRG201")
	task := createTestTask(t, store, first.ID)

	task.MateriaID = second.ID
	task.Calificacion = 0
	require.NoError(t, store.UpdateTask(ctx, task))

	retrieved, err := store.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, retrieved.MateriaID)
	assert.Equal(t, 0, retrieved.Calificacion)

	task.MateriaID = 4242
	assert.ErrorIs(t, store.UpdateTask(ctx, task), ErrForeignKey)
}

func TestListTasksBySubject(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	math := createTestSubject(t, store, "MAT101")
	prog := createTestSubject(t, store, "PRG201")
	createTestTask(t, store, math.ID)
	createTestTask(t, store, math.ID)
	createTestTask(t, store, prog.ID)

	all, err := store.ListTasksBySubject(ctx, math.ID, ListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	for _, task := range all {
		assert.Equal(t, math.ID, task.MateriaID)
	}

	one, err := store.ListTasksBySubject(ctx, math.ID, ListOptions{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, one, 1)

	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
}

func TestDeleteTask(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	subject := createTestSubject(t, store, "MAT101")
	task := createTestTask(t, store, subject.ID)

	require.NoError(t, store.DeleteTask(ctx, task.ID))
	require.NoError(t, store.DeleteSubject(ctx, subject.ID))
	assert.ErrorIs(t, store.DeleteTask(ctx, task.ID), ErrNotFound)
}

// =============================================================================
// Lifecycle / Helpers
// =============================================================================

func TestNewSQLiteStore_FileDSN(t *testing.T) {
	dsn := t.TempDir() + "/academic.db"

	first, err := NewSQLiteStore(dsn)
	require.NoError(t, err)
	createTestStudent(t, first, "persist@test.com")
	require.NoError(t, first.Close())

	// Reopening runs migrations again as a no-op and keeps the data.
	second, err := NewSQLiteStore(dsn)
	require.NoError(t, err)
	defer second.Close()

	students, err := second.ListStudents(context.Background())
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

func TestPing(t *testing.T) {
	store := setupTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestListOptions_Normalize(t *testing.T) {
	assert.Equal(t, ListOptions{Limit: -1, Offset: 0}, ListOptions{}.Normalize())
	assert.Equal(t, ListOptions{Limit: 5, Offset: 0}, ListOptions{Limit: 5, Offset: -3}.Normalize())
}

func TestUniqueTarget(t *testing.T) {
	table, column := uniqueTarget("UNIQUE constraint failed: materias.sigla")
	assert.Equal(t, "materias", table)
	assert.Equal(t, "sigla", column)

	table, column = uniqueTarget("UNIQUE constraint failed: t.a, t.b")
	assert.Equal(t, "t", table)
	assert.Equal(t, "a", column)

	table, column = uniqueTarget("something else")
	assert.Empty(t, table)
	assert.Empty(t, column)
}

func TestConstraintError_Is(t *testing.T) {
	unique := &ConstraintError{Kind: ConstraintUnique, Table: "alumnos", Column: "correo"}
	fk := &ConstraintError{Kind: ConstraintForeignKey}

	assert.ErrorIs(t, unique, ErrDuplicate)
	assert.NotErrorIs(t, unique, ErrForeignKey)
	assert.ErrorIs(t, fk, ErrForeignKey)
	assert.Equal(t, "unique constraint failed: alumnos.correo", unique.Error())
	assert.Equal(t, "foreign_key constraint failed", fk.Error())
}
