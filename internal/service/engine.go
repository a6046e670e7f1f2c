package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dgsmath/pratik/internal/domain/exercise"
	"github.com/dgsmath/pratik/internal/domain/stats"
	"github.com/dgsmath/pratik/internal/selection"
	"github.com/dgsmath/pratik/internal/store"
)

var (
	ErrUnknownExercise = errors.New("unknown exercise")
	ErrUnknownModule   = errors.New("unknown module")
	// ErrMalformedQuestion means a submitted question text does not parse
	// for its exercise. Nothing is recorded.
	ErrMalformedQuestion = errors.New("malformed question")
)

// A freshly drawn question whose own answer formula rejects it is discarded
// and redrawn. More than a few redraws in a row means the exercise
// definition is broken, not unlucky.
const maxRedraws = 5

// AnswerResult is what the session layer shows after a submission.
type AnswerResult struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
}

// ExerciseInfo is a registry listing entry with current accuracy.
type ExerciseInfo struct {
	Key      string `json:"key"`
	Module   string `json:"module"`
	Total    int    `json:"total"`
	Correct  int    `json:"correct"`
	Accuracy int    `json:"accuracy"`
}

// Engine is the drill facade consumed by session/rendering code: it hands
// out the next question, grades submissions, and exposes accuracy numbers.
// One Engine serves one learner session.
type Engine struct {
	registry  *exercise.Registry
	policy    *selection.Policy
	agg       *Aggregator
	logger    *slog.Logger
	sessionID string

	// mu guards states and the policy's rand source; draws arrive on
	// concurrent handler goroutines.
	mu     sync.Mutex
	states map[string]*selection.State
}

func NewEngine(registry *exercise.Registry, policy *selection.Policy, agg *Aggregator, logger *slog.Logger) *Engine {
	sessionID := uuid.NewString()
	return &Engine{
		registry:  registry,
		policy:    policy,
		agg:       agg,
		logger:    logger.With("session", sessionID),
		sessionID: sessionID,
		states:    make(map[string]*selection.State),
	}
}

// SessionID identifies this engine instance in logs.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// NextQuestion picks the next question for the exercise under the weighted
// selection rule. Questions the exercise cannot answer itself are discarded
// and redrawn.
func (e *Engine) NextQuestion(exerciseKey string) (string, error) {
	def, ok := e.registry.Get(exerciseKey)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownExercise, exerciseKey)
	}

	all := def.Combinations()
	hard := def.HardSubset()
	history := e.agg.History(exerciseKey)

	e.mu.Lock()
	defer e.mu.Unlock()
	state := e.state(exerciseKey)

	for i := 0; i < maxRedraws; i++ {
		question := e.policy.Next(all, hard, history, state)
		if question == "" {
			return "", fmt.Errorf("exercise %q has no questions", exerciseKey)
		}
		if _, ok := def.Answer(question); ok {
			return question, nil
		}
		e.logger.Warn("discarding unanswerable question",
			"exercise", exerciseKey, "question", question)
	}
	return "", fmt.Errorf("exercise %q produced %d unanswerable questions in a row", exerciseKey, maxRedraws)
}

// SubmitAnswer grades a submission and records it. Unparseable user input is
// rejected with exercise.ErrInvalidAnswer before anything is counted.
func (e *Engine) SubmitAnswer(exerciseKey, question, userAnswer string) (AnswerResult, error) {
	def, ok := e.registry.Get(exerciseKey)
	if !ok {
		return AnswerResult{}, fmt.Errorf("%w: %q", ErrUnknownExercise, exerciseKey)
	}

	correctAnswer, ok := def.Answer(question)
	if !ok {
		return AnswerResult{}, fmt.Errorf("%w: %q", ErrMalformedQuestion, question)
	}

	isCorrect, err := def.Check(correctAnswer, userAnswer)
	if err != nil {
		return AnswerResult{}, err
	}

	moduleType := ""
	if def.Simple {
		moduleType = def.Module
	}
	e.agg.RecordAnswer(moduleType, exerciseKey, question, isCorrect, userAnswer, correctAnswer)

	return AnswerResult{IsCorrect: isCorrect, CorrectAnswer: correctAnswer}, nil
}

// Accuracy returns the integer percent for one exercise key.
func (e *Engine) Accuracy(exerciseKey string) (int, error) {
	if _, ok := e.registry.Get(exerciseKey); !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownExercise, exerciseKey)
	}
	return e.agg.Accuracy(exerciseKey), nil
}

// ModuleAccuracy sums totals across the module's constituent exercise keys
// before dividing, covering parameterized families that never touch the
// stored per-module counters.
func (e *Engine) ModuleAccuracy(moduleType string) (int, error) {
	keys := e.registry.ModuleKeys(moduleType)
	if len(keys) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownModule, moduleType)
	}
	return e.agg.RollupAccuracy(keys), nil
}

// Exercises lists every registered exercise with its current counters.
func (e *Engine) Exercises() []ExerciseInfo {
	keys := e.registry.Keys()
	out := make([]ExerciseInfo, 0, len(keys))
	for _, key := range keys {
		def, _ := e.registry.Get(key)
		info := ExerciseInfo{Key: key, Module: def.Module}
		if ex, ok := e.agg.ExerciseStats(key); ok {
			info.Total = ex.Total
			info.Correct = ex.Correct
			info.Accuracy = stats.Percent(ex.Correct, ex.Total)
		}
		out = append(out, info)
	}
	return out
}

// ExerciseStats exposes one exercise record for the stats endpoint.
func (e *Engine) ExerciseStats(exerciseKey string) (stats.ExerciseStats, error) {
	if _, ok := e.registry.Get(exerciseKey); !ok {
		return stats.ExerciseStats{}, fmt.Errorf("%w: %q", ErrUnknownExercise, exerciseKey)
	}
	ex, ok := e.agg.ExerciseStats(exerciseKey)
	if !ok {
		ex = *stats.NewExerciseStats(exerciseKey)
	}
	return ex, nil
}

func (e *Engine) UserStats() stats.UserStats {
	return e.agg.UserStats()
}

func (e *Engine) DifficultQuestions() []string {
	return e.agg.DifficultQuestions()
}

func (e *Engine) Sizes() store.Sizes {
	return e.agg.Sizes()
}

// ResetAll clears the store and zeroes all in-memory state, including every
// exercise's last-asked marker.
func (e *Engine) ResetAll() {
	e.agg.Reset()

	e.mu.Lock()
	e.states = make(map[string]*selection.State)
	e.mu.Unlock()
}

// state returns the per-exercise selection state; the caller holds mu.
func (e *Engine) state(exerciseKey string) *selection.State {
	st, ok := e.states[exerciseKey]
	if !ok {
		st = &selection.State{}
		e.states[exerciseKey] = st
	}
	return st
}
