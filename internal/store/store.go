package store

import (
	"errors"
	"time"

	"github.com/dgsmath/pratik/internal/domain/stats"
)

var (
	ErrNotFound = errors.New("not found")
)

// AuditEntry is one row of the append-only answer log. It exists for
// debugging and export; the selection algorithm never reads it back.
type AuditEntry struct {
	QuestionText  string    `json:"questionText"`
	ExerciseType  string    `json:"exerciseType"`
	IsCorrect     bool      `json:"isCorrect"`
	UserAnswer    string    `json:"userAnswer"`
	CorrectAnswer string    `json:"correctAnswer"`
	Timestamp     time.Time `json:"timestamp"`
}

// Sizes reports per-collection record counts.
type Sizes struct {
	UserStats          int `json:"userStats"`
	QuestionHistory    int `json:"questionHistory"`
	ExerciseStats      int `json:"exerciseStats"`
	ModuleStats        int `json:"moduleStats"`
	DifficultQuestions int `json:"difficultQuestions"`
	Total              int `json:"total"`
}

// RecordStore is the structured persistence boundary for learner statistics.
// Gets return ErrNotFound for an absent record; upserts merge-overwrite the
// record found by its unique key or insert a fresh one.
type RecordStore interface {
	GetUserStats() (*stats.UserStats, error)
	UpsertUserStats(u *stats.UserStats) error

	GetExerciseStats(key string) (*stats.ExerciseStats, error)
	UpsertExerciseStats(e *stats.ExerciseStats) error
	GetAllExerciseStats() ([]*stats.ExerciseStats, error)

	GetModuleStats(moduleType string) (*stats.ModuleStats, error)
	UpsertModuleStats(m *stats.ModuleStats) error
	GetAllModuleStats() ([]*stats.ModuleStats, error)

	// ReplaceDifficultQuestions clears the collection and inserts every
	// item with a fresh timestamp. An empty list just clears.
	ReplaceDifficultQuestions(questions []string) error
	GetDifficultQuestions() ([]string, error)

	AppendAudit(entry AuditEntry) error

	// ClearAll clears every collection. Used only by the explicit reset.
	ClearAll() error
	Sizes() (Sizes, error)
}
