// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dgsmath/pratik/internal/service"
)

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	engine *service.Engine
	logger *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(engine *service.Engine, logger *slog.Logger) *Handler {
	return &Handler{
		engine: engine,
		logger: logger,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into dst. Writes a 400 and returns
// false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}

// handleEngineError maps engine errors onto HTTP statuses. Returns true if
// an error was handled (caller should return).
func (h *Handler) handleEngineError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, service.ErrUnknownExercise):
		http.Error(w, "exercise not found", http.StatusNotFound)
	case errors.Is(err, service.ErrUnknownModule):
		http.Error(w, "module not found", http.StatusNotFound)
	case errors.Is(err, service.ErrMalformedQuestion):
		http.Error(w, "question not recognized", http.StatusBadRequest)
	default:
		h.logger.Error("engine error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
	return true
}
