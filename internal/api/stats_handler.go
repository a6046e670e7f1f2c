package api

import (
	"net/http"

	"github.com/dgsmath/pratik/internal/domain/stats"
	"github.com/dgsmath/pratik/internal/store"
)

// ── Request / Response types ────────────────────────────────────────────────

type ModuleStatsResponse struct {
	ModuleType string `json:"module_type"`
	Accuracy   int    `json:"accuracy"`
}

type UserStatsResponse struct {
	TotalQuestions     int         `json:"total_questions"`
	CorrectAnswers     int         `json:"correct_answers"`
	IncorrectAnswers   int         `json:"incorrect_answers"`
	Accuracy           int         `json:"accuracy"`
	DifficultQuestions []string    `json:"difficult_questions"`
	Sizes              store.Sizes `json:"sizes"`
}

type DifficultQuestionsResponse struct {
	Questions []string `json:"questions"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /modules/{moduleType}/stats
func (h *Handler) moduleStats(w http.ResponseWriter, r *http.Request) {
	moduleType := r.PathValue("moduleType")

	accuracy, err := h.engine.ModuleAccuracy(moduleType)
	if h.handleEngineError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, ModuleStatsResponse{
		ModuleType: moduleType,
		Accuracy:   accuracy,
	})
}

// GET /stats
func (h *Handler) userStats(w http.ResponseWriter, r *http.Request) {
	u := h.engine.UserStats()

	respondJSON(w, http.StatusOK, UserStatsResponse{
		TotalQuestions:     u.TotalQuestions,
		CorrectAnswers:     u.CorrectAnswers,
		IncorrectAnswers:   u.IncorrectAnswers,
		Accuracy:           stats.Percent(u.CorrectAnswers, u.TotalQuestions),
		DifficultQuestions: u.DifficultQuestions,
		Sizes:              h.engine.Sizes(),
	})
}

// GET /difficult-questions
func (h *Handler) difficultQuestions(w http.ResponseWriter, r *http.Request) {
	questions := h.engine.DifficultQuestions()
	if questions == nil {
		questions = []string{}
	}
	respondJSON(w, http.StatusOK, DifficultQuestionsResponse{Questions: questions})
}

// POST /reset
func (h *Handler) resetAll(w http.ResponseWriter, r *http.Request) {
	h.engine.ResetAll()
	h.logger.Info("all statistics reset via API")
	w.WriteHeader(http.StatusNoContent)
}
