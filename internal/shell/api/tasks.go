package api

import (
	"net/http"

	"github.com/gonchi028/academic/internal/core/domain"
	"github.com/gonchi028/academic/internal/shell/integrity"
)

// =============================================================================
// Task Handlers
// =============================================================================

func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.ListTasks(r.Context())
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, orEmpty(tasks))
}

func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	task, err := h.store.GetTask(r.Context(), id)
	if err != nil {
		h.writeLookupFailure(w, r, err, integrity.MsgTaskNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, task)
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}

	task, err := h.guard.CreateTask(r.Context(), in)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "tarea created", "tarea_id", task.ID, "materia_id", task.MateriaID)
	h.writeJSON(w, http.StatusCreated, []domain.Task{*task})
}

func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}

	task, err := h.guard.UpdateTask(r.Context(), id, in)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, task)
}

func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	if err := h.guard.DeleteTask(r.Context(), id); err != nil {
		h.writeFailure(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "tarea deleted", "tarea_id", id)
	h.writeJSON(w, http.StatusOK, MessageResponse{Message: "Tarea deleted successfully"})
}
