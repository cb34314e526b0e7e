// Package domain contains the core record types of the academic registry.
// This is part of the Functional Core - all functions are pure with no I/O.
package domain

// =============================================================================
// Entity Names
// =============================================================================

// Entity names used in error messages and store errors.
const (
	EntityStudent = "alumno"
	EntitySubject = "materia"
	EntityTask    = "tarea"
)

// =============================================================================
// Student
// =============================================================================

// Student is an enrolled student. Correo is unique across all students.
type Student struct {
	ID       int64  `json:"id"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Correo   string `json:"correo"`
}

// StudentPatch holds the fields supplied by a partial update.
// A nil field keeps the stored value.
type StudentPatch struct {
	Nombre   *string
	Apellido *string
	Correo   *string
}

// Apply returns a copy of s with every supplied field of p laid over it.
// The ID is never changed.
func (s Student) Apply(p StudentPatch) Student {
	if p.Nombre != nil {
		s.Nombre = *p.Nombre
	}
	if p.Apellido != nil {
		s.Apellido = *p.Apellido
	}
	if p.Correo != nil {
		s.Correo = *p.Correo
	}
	return s
}

// =============================================================================
// Subject
// =============================================================================

// Subject is a course. Sigla is unique across all subjects.
type Subject struct {
	ID     int64  `json:"id"`
	Titulo string `json:"titulo"`
	Sigla  string `json:"sigla"`
}

// SubjectPatch holds the fields supplied by a partial update.
type SubjectPatch struct {
	Titulo *string
	Sigla  *string
}

// Apply returns a copy of s with every supplied field of p laid over it.
func (s Subject) Apply(p SubjectPatch) Subject {
	if p.Titulo != nil {
		s.Titulo = *p.Titulo
	}
	if p.Sigla != nil {
		s.Sigla = *p.Sigla
	}
	return s
}

// =============================================================================
// Task
// =============================================================================

// Task is a graded assignment belonging to one subject.
type Task struct {
	ID           int64  `json:"id"`
	Descripcion  string `json:"descripcion"`
	Calificacion int    `json:"calificacion"`
	MateriaID    int64  `json:"materiaId"`
}

// TaskPatch holds the fields supplied by a partial update.
type TaskPatch struct {
	Descripcion  *string
	Calificacion *int
	MateriaID    *int64
}

// Apply returns a copy of t with every supplied field of p laid over it.
func (t Task) Apply(p TaskPatch) Task {
	if p.Descripcion != nil {
		t.Descripcion = *p.Descripcion
	}
	if p.Calificacion != nil {
		t.Calificacion = *p.Calificacion
	}
	if p.MateriaID != nil {
		t.MateriaID = *p.MateriaID
	}
	return t
}

// MovesSubject reports whether applying p to t would point t at a different subject.
func (t Task) MovesSubject(p TaskPatch) bool {
	return p.MateriaID != nil && *p.MateriaID != t.MateriaID
}
