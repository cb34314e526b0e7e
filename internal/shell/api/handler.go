// Package api provides HTTP handlers for the academic records API.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gonchi028/academic/internal/core/validation"
	"github.com/gonchi028/academic/internal/shell/api/middleware"
	"github.com/gonchi028/academic/internal/shell/api/openapi"
	"github.com/gonchi028/academic/internal/shell/integrity"
	"github.com/gonchi028/academic/internal/shell/store"
)

// maxBodyBytes bounds a request body.
const maxBodyBytes = 1 << 20

// Error codes carried in ErrorResponse.Code.
const (
	CodeInvalidID   = "invalid_id"
	CodeInvalidJSON = "invalid_json"
	CodeValidation  = "validation_error"
	CodeNotFound    = "not_found"
	CodeConflict    = "conflict"
	CodeInternal    = "internal_error"
	CodeBadRoute    = "route_not_found"
	CodeBadMethod   = "method_not_allowed"
)

// =============================================================================
// Handler
// =============================================================================

// Config holds the handler settings that come from configuration.
type Config struct {
	Title     string
	Version   string
	ServerURL string
}

// Handler provides HTTP handlers for the API.
type Handler struct {
	store  store.Store
	guard  *integrity.Guard
	docs   *openapi.Generator
	logger *slog.Logger
}

// NewHandler creates a new API handler. Reads go straight to s; every write
// goes through an integrity guard built over s.
func NewHandler(s store.Store, l *slog.Logger, cfg Config) *Handler {
	if l == nil {
		l = slog.Default()
	}
	return &Handler{
		store:  s,
		guard:  integrity.New(s, l),
		docs:   newDocs(cfg),
		logger: l,
	}
}

// Routes returns the router with all routes configured.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(h.logger))
	r.Use(chimw.Recoverer)
	r.Use(h.jsonContentType)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeError(w, http.StatusNotFound, "Not found", CodeBadRoute)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed", CodeBadMethod)
	})

	// Health endpoints
	r.Get("/health", h.handleHealth)
	r.Get("/ready", h.handleReady)

	// API description
	r.Get("/openapi.json", h.docs.Handler())
	r.Get("/openapi.yaml", h.docs.YAMLHandler())

	r.Route("/alumnos", func(r chi.Router) {
		r.Get("/", h.handleListStudents)
		r.Post("/", h.handleCreateStudent)
		r.Get("/{id}", h.handleGetStudent)
		r.Put("/{id}", h.handleUpdateStudent)
		r.Delete("/{id}", h.handleDeleteStudent)
	})

	r.Route("/materias", func(r chi.Router) {
		r.Get("/", h.handleListSubjects)
		r.Post("/", h.handleCreateSubject)
		r.Get("/{id}", h.handleGetSubject)
		r.Put("/{id}", h.handleUpdateSubject)
		r.Delete("/{id}", h.handleDeleteSubject)
		r.Get("/{id}/tareas", h.handleListSubjectTasks)
	})

	r.Route("/tareas", func(r chi.Router) {
		r.Get("/", h.handleListTasks)
		r.Post("/", h.handleCreateTask)
		r.Get("/{id}", h.handleGetTask)
		r.Put("/{id}", h.handleUpdateTask)
		r.Delete("/{id}", h.handleDeleteTask)
	})

	return r
}

// =============================================================================
// Middleware
// =============================================================================

// jsonContentType sets Content-Type header to application/json.
func (h *Handler) jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Health Handlers
// =============================================================================

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)

	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "readiness check failed", "check", "database", "error", err)
		checks["database"] = "failed"
		h.writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{
			Status: "not_ready",
			Checks: checks,
		})
		return
	}
	checks["database"] = "ok"

	h.writeJSON(w, http.StatusOK, ReadyResponse{
		Status: "ready",
		Checks: checks,
	})
}

// =============================================================================
// Helpers
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode JSON", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message, code string) {
	h.writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// writeFailure answers a failed guard or store call. Rejections keep their
// message; anything else is logged and reported as a bare 500.
func (h *Handler) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	if gErr, ok := integrity.AsError(err); ok {
		status, code := rejectionStatus(gErr.Kind)
		h.writeJSON(w, status, ErrorResponse{
			Error:   gErr.Message,
			Code:    code,
			Details: gErr.Details,
		})
		return
	}

	h.logger.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetRequestID(r.Context()),
		"error", err,
	)
	h.writeError(w, http.StatusInternalServerError, "internal server error", CodeInternal)
}

// writeLookupFailure answers a failed single-record read.
func (h *Handler) writeLookupFailure(w http.ResponseWriter, r *http.Request, err error, notFoundMessage string) {
	if store.IsNotFound(err) {
		h.writeError(w, http.StatusNotFound, notFoundMessage, CodeNotFound)
		return
	}
	h.writeFailure(w, r, err)
}

func rejectionStatus(kind integrity.Kind) (int, string) {
	switch kind {
	case integrity.KindInvalid:
		return http.StatusBadRequest, CodeValidation
	case integrity.KindNotFound:
		return http.StatusNotFound, CodeNotFound
	case integrity.KindConflict:
		return http.StatusConflict, CodeConflict
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// idParam parses the {id} route parameter. It answers 400 itself and reports
// false when the value is not a positive integer.
func (h *Handler) idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusBadRequest, "Invalid ID", CodeInvalidID)
		return 0, false
	}
	return id, true
}

// readInput decodes the body as a JSON object. It answers 400 itself and
// reports false when the body is missing, too large or not an object.
func (h *Handler) readInput(w http.ResponseWriter, r *http.Request) (validation.Input, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "Request body too large", CodeInvalidJSON)
			return nil, false
		}
		h.writeError(w, http.StatusBadRequest, "Invalid JSON", CodeInvalidJSON)
		return nil, false
	}

	in, err := validation.DecodeInput(data)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON", CodeInvalidJSON)
		return nil, false
	}
	return in, true
}

// orEmpty keeps empty collections encoding as [] rather than null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
