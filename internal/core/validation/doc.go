// Package validation provides the pure field validators for academic records.
//
// This package contains the functional core logic for validating write
// requests before they reach storage. All functions are pure (no I/O, no side
// effects); uniqueness and foreign existence are checked by the integrity
// guard, never here.
//
// # Functions
//
//   - ValidateStudent, ValidateSubject, ValidateTask: full checks for creation
//   - ValidateStudentPatch, ValidateSubjectPatch, ValidateTaskPatch: checks
//     for the fields supplied by a partial update
//   - IsValidEmail, IsValidSigla, IsValidCalificacion, IsNotEmpty, IsValidID:
//     the underlying predicates
//   - CanDeleteSubject: the subject delete rule
//
// # Usage
//
//	if res := validation.ValidateStudent(in); !res.Valid {
//	    // Return 400 Bad Request with res.Errors
//	}
package validation
