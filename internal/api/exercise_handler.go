package api

import (
	"errors"
	"net/http"

	"github.com/dgsmath/pratik/internal/domain/exercise"
)

// ── Request / Response types ────────────────────────────────────────────────

type NextQuestionResponse struct {
	ExerciseKey string `json:"exercise_key"`
	Question    string `json:"question"`
}

type SubmitAnswerRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type SubmitAnswerResponse struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
}

type ExerciseStatsResponse struct {
	ExerciseKey string `json:"exercise_key"`
	Total       int    `json:"total"`
	Correct     int    `json:"correct"`
	Accuracy    int    `json:"accuracy"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /exercises
func (h *Handler) listExercises(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.Exercises())
}

// GET /exercises/{exerciseKey}/next
func (h *Handler) nextQuestion(w http.ResponseWriter, r *http.Request) {
	exerciseKey := r.PathValue("exerciseKey")

	question, err := h.engine.NextQuestion(exerciseKey)
	if h.handleEngineError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, NextQuestionResponse{
		ExerciseKey: exerciseKey,
		Question:    question,
	})
}

// POST /exercises/{exerciseKey}/answers
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	exerciseKey := r.PathValue("exerciseKey")

	var req SubmitAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Question == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	result, err := h.engine.SubmitAnswer(exerciseKey, req.Question, req.Answer)
	if errors.Is(err, exercise.ErrInvalidAnswer) {
		http.Error(w, "answer is not in a valid format", http.StatusBadRequest)
		return
	}
	if h.handleEngineError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, SubmitAnswerResponse{
		IsCorrect:     result.IsCorrect,
		CorrectAnswer: result.CorrectAnswer,
	})
}

// GET /exercises/{exerciseKey}/stats
func (h *Handler) exerciseStats(w http.ResponseWriter, r *http.Request) {
	exerciseKey := r.PathValue("exerciseKey")

	ex, err := h.engine.ExerciseStats(exerciseKey)
	if h.handleEngineError(w, err) {
		return
	}

	accuracy, _ := h.engine.Accuracy(exerciseKey)
	respondJSON(w, http.StatusOK, ExerciseStatsResponse{
		ExerciseKey: exerciseKey,
		Total:       ex.Total,
		Correct:     ex.Correct,
		Accuracy:    accuracy,
	})
}
