package validation

// =============================================================================
// Delete Rules
// =============================================================================

// ReasonSubjectHasTasks is the rejection reason for deleting a subject that
// tasks still reference.
const ReasonSubjectHasTasks = "Cannot delete materia with associated tareas"

// CanDeleteSubject checks if a subject can be removed given how many tasks
// still reference it.
//
// Example:
//
//	allowed, reason := CanDeleteSubject(len(tasks))
//	if !allowed {
//	    // Return 409 Conflict with reason
//	}
func CanDeleteSubject(dependents int) (allowed bool, reason string) {
	if dependents > 0 {
		return false, ReasonSubjectHasTasks
	}
	return true, ""
}
