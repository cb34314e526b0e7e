package validation

// =============================================================================
// Result
// =============================================================================

// Result is the verdict of a validator. Errors lists every failing rule in
// rule order and is never nil.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// fieldRule checks one field. present is false when the field is absent or null.
type fieldRule struct {
	field string
	check func(in Input, present bool) string
}

// run applies rules to in. When partial is true, rules for absent fields are skipped.
func run(in Input, rules []fieldRule, partial bool) Result {
	errs := make([]string, 0)
	for _, r := range rules {
		present := in.Has(r.field)
		if partial && !present {
			continue
		}
		if msg := r.check(in, present); msg != "" {
			errs = append(errs, msg)
		}
	}
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// requiredText fails unless field is a string with non-whitespace content.
func requiredText(field string) fieldRule {
	return fieldRule{field: field, check: func(in Input, present bool) string {
		s, ok := in.String(field)
		if !ok || !IsNotEmpty(s) {
			return field + " is required"
		}
		return ""
	}}
}

// =============================================================================
// Student
// =============================================================================

// Student field names.
const (
	FieldNombre   = "nombre"
	FieldApellido = "apellido"
	FieldCorreo   = "correo"
)

var studentRules = []fieldRule{
	requiredText(FieldNombre),
	requiredText(FieldApellido),
	{field: FieldCorreo, check: func(in Input, present bool) string {
		s, isString := in.String(FieldCorreo)
		if !present || (isString && s == "") {
			return "correo is required"
		}
		if !isString || !IsValidEmail(s) {
			return "correo must be a valid email"
		}
		return ""
	}},
}

// ValidateStudent checks a complete student candidate.
//
// Example:
//
//	res := ValidateStudent(Input{"nombre": "Juan", "apellido": "Perez", "correo": "bad"})
//	// res.Errors == []string{"correo must be a valid email"}
func ValidateStudent(in Input) Result {
	return run(in, studentRules, false)
}

// ValidateStudentPatch checks only the student fields present in in.
func ValidateStudentPatch(in Input) Result {
	return run(in, studentRules, true)
}

// =============================================================================
// Subject
// =============================================================================

// Subject field names.
const (
	FieldTitulo = "titulo"
	FieldSigla  = "sigla"
)

var subjectRules = []fieldRule{
	requiredText(FieldTitulo),
	{field: FieldSigla, check: func(in Input, present bool) string {
		s, isString := in.String(FieldSigla)
		if !present || (isString && s == "") {
			return "sigla is required"
		}
		if !isString || !IsValidSigla(s) {
			return "sigla must be between 2 and 10 characters"
		}
		return ""
	}},
}

// ValidateSubject checks a complete subject candidate.
func ValidateSubject(in Input) Result {
	return run(in, subjectRules, false)
}

// ValidateSubjectPatch checks only the subject fields present in in.
func ValidateSubjectPatch(in Input) Result {
	return run(in, subjectRules, true)
}

// =============================================================================
// Task
// =============================================================================

// Task field names.
const (
	FieldDescripcion  = "descripcion"
	FieldCalificacion = "calificacion"
	FieldMateriaID    = "materiaId"
)

var taskRules = []fieldRule{
	requiredText(FieldDescripcion),
	{field: FieldCalificacion, check: func(in Input, present bool) string {
		// 0 is a present, valid score.
		if !present {
			return "calificacion is required"
		}
		n, ok := in.Number(FieldCalificacion)
		if !ok || !IsValidCalificacion(n) {
			return "calificacion must be a number between 0 and 100"
		}
		return ""
	}},
	{field: FieldMateriaID, check: func(in Input, present bool) string {
		// An explicit 0 is present and fails the positive-integer rule.
		if !present {
			return "materiaId is required"
		}
		n, ok := in.Number(FieldMateriaID)
		if !ok || !IsValidID(n) {
			return "materiaId must be a positive integer"
		}
		return ""
	}},
}

// ValidateTask checks a complete task candidate.
func ValidateTask(in Input) Result {
	return run(in, taskRules, false)
}

// ValidateTaskPatch checks only the task fields present in in.
func ValidateTaskPatch(in Input) Result {
	return run(in, taskRules, true)
}
