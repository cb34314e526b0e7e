package api

import (
	"net/http"

	"github.com/gonchi028/academic/internal/core/domain"
	"github.com/gonchi028/academic/internal/shell/integrity"
)

// =============================================================================
// Subject Handlers
// =============================================================================

func (h *Handler) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.store.ListSubjects(r.Context())
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, orEmpty(subjects))
}

func (h *Handler) handleGetSubject(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	subject, err := h.store.GetSubject(r.Context(), id)
	if err != nil {
		h.writeLookupFailure(w, r, err, integrity.MsgSubjectNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, subject)
}

func (h *Handler) handleCreateSubject(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}

	subject, err := h.guard.CreateSubject(r.Context(), in)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "materia created", "materia_id", subject.ID, "sigla", subject.Sigla)
	h.writeJSON(w, http.StatusCreated, []domain.Subject{*subject})
}

func (h *Handler) handleUpdateSubject(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}

	subject, err := h.guard.UpdateSubject(r.Context(), id, in)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, subject)
}

func (h *Handler) handleDeleteSubject(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	if err := h.guard.DeleteSubject(r.Context(), id); err != nil {
		h.writeFailure(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "materia deleted", "materia_id", id)
	h.writeJSON(w, http.StatusOK, MessageResponse{Message: "Materia deleted successfully"})
}

func (h *Handler) handleListSubjectTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	tasks, err := h.guard.TasksForSubject(r.Context(), id)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, orEmpty(tasks))
}
