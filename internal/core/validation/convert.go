package validation

import "github.com/gonchi028/academic/internal/core/domain"

// =============================================================================
// Input Conversion
// =============================================================================
//
// These assume the input already passed the matching validator.

// StudentFromInput builds a new student from a validated input.
func StudentFromInput(in Input) domain.Student {
	return domain.Student{}.Apply(StudentPatchFromInput(in))
}

// StudentPatchFromInput collects the student fields present in in.
func StudentPatchFromInput(in Input) domain.StudentPatch {
	return domain.StudentPatch{
		Nombre:   stringField(in, FieldNombre),
		Apellido: stringField(in, FieldApellido),
		Correo:   stringField(in, FieldCorreo),
	}
}

// SubjectFromInput builds a new subject from a validated input.
func SubjectFromInput(in Input) domain.Subject {
	return domain.Subject{}.Apply(SubjectPatchFromInput(in))
}

// SubjectPatchFromInput collects the subject fields present in in.
func SubjectPatchFromInput(in Input) domain.SubjectPatch {
	return domain.SubjectPatch{
		Titulo: stringField(in, FieldTitulo),
		Sigla:  stringField(in, FieldSigla),
	}
}

// TaskFromInput builds a new task from a validated input.
func TaskFromInput(in Input) domain.Task {
	return domain.Task{}.Apply(TaskPatchFromInput(in))
}

// TaskPatchFromInput collects the task fields present in in.
func TaskPatchFromInput(in Input) domain.TaskPatch {
	var p domain.TaskPatch
	p.Descripcion = stringField(in, FieldDescripcion)
	if n, ok := in.Number(FieldCalificacion); ok {
		score := int(n)
		p.Calificacion = &score
	}
	if n, ok := in.Number(FieldMateriaID); ok {
		id := int64(n)
		p.MateriaID = &id
	}
	return p
}

func stringField(in Input, field string) *string {
	s, ok := in.String(field)
	if !ok {
		return nil
	}
	return &s
}
