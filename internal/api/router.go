// internal/api/router.go
package api

import "net/http"

// RegisterRoutes mounts every endpoint on the mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Exercises
	mux.HandleFunc("GET /exercises", h.listExercises)
	mux.HandleFunc("GET /exercises/{exerciseKey}/next", h.nextQuestion)
	mux.HandleFunc("POST /exercises/{exerciseKey}/answers", h.submitAnswer)
	mux.HandleFunc("GET /exercises/{exerciseKey}/stats", h.exerciseStats)

	// Modules
	mux.HandleFunc("GET /modules/{moduleType}/stats", h.moduleStats)

	// Global stats
	mux.HandleFunc("GET /stats", h.userStats)
	mux.HandleFunc("GET /difficult-questions", h.difficultQuestions)
	mux.HandleFunc("POST /reset", h.resetAll)
}
