package api

import (
	"net/http"

	"github.com/gonchi028/academic/internal/core/domain"
	"github.com/gonchi028/academic/internal/shell/integrity"
)

// =============================================================================
// Student Handlers
// =============================================================================

func (h *Handler) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.store.ListStudents(r.Context())
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, orEmpty(students))
}

func (h *Handler) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	student, err := h.store.GetStudent(r.Context(), id)
	if err != nil {
		h.writeLookupFailure(w, r, err, integrity.MsgStudentNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, student)
}

func (h *Handler) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}

	student, err := h.guard.CreateStudent(r.Context(), in)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "alumno created", "alumno_id", student.ID)
	h.writeJSON(w, http.StatusCreated, []domain.Student{*student})
}

func (h *Handler) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}

	student, err := h.guard.UpdateStudent(r.Context(), id, in)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, student)
}

func (h *Handler) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	if err := h.guard.DeleteStudent(r.Context(), id); err != nil {
		h.writeFailure(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "alumno deleted", "alumno_id", id)
	h.writeJSON(w, http.StatusOK, MessageResponse{Message: "Alumno deleted successfully"})
}
