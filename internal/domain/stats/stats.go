package stats

import (
	"math"
	"time"
)

// QuestionTally holds per-question answer counts local to one exercise.
type QuestionTally struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// UserStats is the singleton record of global learner progress.
// QuestionHistory maps literal question text to its global incorrect-attempt
// count, across all exercises sharing that text.
type UserStats struct {
	TotalQuestions     int            `json:"totalQuestions"`
	CorrectAnswers     int            `json:"correctAnswers"`
	IncorrectAnswers   int            `json:"incorrectAnswers"`
	QuestionHistory    map[string]int `json:"questionHistory"`
	DifficultQuestions []string       `json:"difficultQuestions"`
	LastUpdated        time.Time      `json:"lastUpdated"`
}

// NewUserStats returns a zeroed record with initialized maps.
func NewUserStats() *UserStats {
	return &UserStats{
		QuestionHistory:    make(map[string]int),
		DifficultQuestions: []string{},
	}
}

// Normalize repairs a record loaded from storage: nil maps and slices become
// empty ones so callers never hit a nil map write. An unexpected shape on
// disk decodes to zero values and is usable as a fresh record.
func (u *UserStats) Normalize() {
	if u.QuestionHistory == nil {
		u.QuestionHistory = make(map[string]int)
	}
	if u.DifficultQuestions == nil {
		u.DifficultQuestions = []string{}
	}
}

// Record counts one answer submission.
func (u *UserStats) Record(isCorrect bool) {
	u.TotalQuestions++
	if isCorrect {
		u.CorrectAnswers++
	} else {
		u.IncorrectAnswers++
	}
}

// RecordIncorrectText bumps the global incorrect counter for the question
// text and, once the counter reaches 2, adds the text to the difficult list.
// Returns true when the difficult list changed.
func (u *UserStats) RecordIncorrectText(question string) bool {
	u.QuestionHistory[question]++
	if u.QuestionHistory[question] >= 2 && !u.IsDifficult(question) {
		u.DifficultQuestions = append(u.DifficultQuestions, question)
		return true
	}
	return false
}

// IsDifficult reports whether the question text is already on the difficult list.
func (u *UserStats) IsDifficult(question string) bool {
	for _, q := range u.DifficultQuestions {
		if q == question {
			return true
		}
	}
	return false
}

// ExerciseStats tracks answer counts for a single exercise key.
type ExerciseStats struct {
	ExerciseKey     string                   `json:"exerciseKey"`
	Total           int                      `json:"total"`
	Correct         int                      `json:"correct"`
	QuestionHistory map[string]QuestionTally `json:"questionHistory"`
	LastUpdated     time.Time                `json:"lastUpdated"`
}

// NewExerciseStats returns a zeroed record for the given key.
func NewExerciseStats(key string) *ExerciseStats {
	return &ExerciseStats{
		ExerciseKey:     key,
		QuestionHistory: make(map[string]QuestionTally),
	}
}

// Normalize repairs a record loaded from storage.
func (e *ExerciseStats) Normalize() {
	if e.QuestionHistory == nil {
		e.QuestionHistory = make(map[string]QuestionTally)
	}
}

// Record counts one answer submission against the exercise and its
// per-question tally.
func (e *ExerciseStats) Record(question string, isCorrect bool) {
	e.Total++
	tally := e.QuestionHistory[question]
	if isCorrect {
		e.Correct++
		tally.Correct++
	} else {
		tally.Incorrect++
	}
	e.QuestionHistory[question] = tally
}

// ModuleStats is the coarse per-module rollup behind the top-level accuracy
// badge. Only simple exercises update it per answer; parameterized families
// are summed on demand instead.
type ModuleStats struct {
	ModuleType  string    `json:"moduleType"`
	Total       int       `json:"total"`
	Correct     int       `json:"correct"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Percent returns round-half-up integer percent, 0 when total is 0.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}
