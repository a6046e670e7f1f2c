package service

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dgsmath/pratik/internal/domain/stats"
	"github.com/dgsmath/pratik/internal/store"
	"github.com/dgsmath/pratik/internal/worker"
)

// Aggregator owns the in-memory statistics records and writes them through
// the store. In-memory state is authoritative for the session; persistence
// is fire-and-forget through a serial queue, so a burst of answers cannot
// overwrite the store with a stale view (writes settle in order, each
// carrying the full record at enqueue time). The mutex guards the records
// themselves: handlers run on concurrent goroutines.
type Aggregator struct {
	store  store.RecordStore
	queue  *worker.Queue
	logger *slog.Logger

	mu        sync.Mutex
	user      *stats.UserStats
	exercises map[string]*stats.ExerciseStats
	modules   map[string]*stats.ModuleStats
}

func NewAggregator(rs store.RecordStore, queue *worker.Queue, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		store:     rs,
		queue:     queue,
		logger:    logger,
		user:      stats.NewUserStats(),
		exercises: make(map[string]*stats.ExerciseStats),
		modules:   make(map[string]*stats.ModuleStats),
	}
}

// Load pulls every record into memory. An absent user singleton is created
// zeroed and persisted, so reloads after a first run always find it.
func (a *Aggregator) Load() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	user, err := a.store.GetUserStats()
	if errors.Is(err, store.ErrNotFound) {
		a.user = stats.NewUserStats()
		if err := a.store.UpsertUserStats(a.user); err != nil {
			return err
		}
	} else if err != nil {
		return err
	} else {
		a.user = user
	}

	exercises, err := a.store.GetAllExerciseStats()
	if err != nil {
		return err
	}
	for _, e := range exercises {
		a.exercises[e.ExerciseKey] = e
	}

	modules, err := a.store.GetAllModuleStats()
	if err != nil {
		return err
	}
	for _, m := range modules {
		a.modules[m.ModuleType] = m
	}

	a.logger.Info("statistics loaded",
		"totalQuestions", a.user.TotalQuestions,
		"exercises", len(a.exercises),
		"modules", len(a.modules))
	return nil
}

// RecordAnswer counts one answer submission. moduleType is empty for
// exercises that do not feed the per-module rollup (parameterized families).
// Persistence happens asynchronously on the write queue.
func (a *Aggregator) RecordAnswer(moduleType, exerciseKey, questionText string, isCorrect bool, userAnswer, correctAnswer string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.user.Record(isCorrect)

	if moduleType != "" {
		m := a.module(moduleType)
		m.Total++
		if isCorrect {
			m.Correct++
		}
	}

	ex := a.exercise(exerciseKey)
	ex.Record(questionText, isCorrect)

	difficultChanged := false
	if !isCorrect {
		difficultChanged = a.user.RecordIncorrectText(questionText)
	}

	a.persist(moduleType, exerciseKey, difficultChanged, store.AuditEntry{
		QuestionText:  questionText,
		ExerciseType:  exerciseKey,
		IsCorrect:     isCorrect,
		UserAnswer:    userAnswer,
		CorrectAnswer: correctAnswer,
		Timestamp:     time.Now().UTC(),
	})
}

// persist snapshots the touched records and queues their writes. Copies are
// taken now, under the caller's lock, so later in-memory increments cannot
// leak into an older write.
func (a *Aggregator) persist(moduleType, exerciseKey string, difficultChanged bool, audit store.AuditEntry) {
	user := copyUserStats(a.user)
	ex := copyExerciseStats(a.exercises[exerciseKey])

	var module *stats.ModuleStats
	if moduleType != "" {
		m := *a.modules[moduleType]
		module = &m
	}

	var difficult []string
	if difficultChanged {
		difficult = append([]string(nil), a.user.DifficultQuestions...)
	}

	a.queue.Enqueue(func() {
		a.store.UpsertUserStats(user)
		a.store.UpsertExerciseStats(ex)
		if module != nil {
			a.store.UpsertModuleStats(module)
		}
		if difficultChanged {
			a.store.ReplaceDifficultQuestions(difficult)
		}
		a.store.AppendAudit(audit)
	})
}

// Accuracy returns the round-half-up percent for one exercise key, 0 when
// nothing was answered yet.
func (a *Aggregator) Accuracy(exerciseKey string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	ex, ok := a.exercises[exerciseKey]
	if !ok {
		return 0
	}
	return stats.Percent(ex.Correct, ex.Total)
}

// RollupAccuracy sums totals across constituent exercise keys before
// dividing. Computed on demand, never stored.
func (a *Aggregator) RollupAccuracy(exerciseKeys []string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	var total, correct int
	for _, key := range exerciseKeys {
		if ex, ok := a.exercises[key]; ok {
			total += ex.Total
			correct += ex.Correct
		}
	}
	return stats.Percent(correct, total)
}

// History returns a copy of the per-question tallies for one exercise, nil
// for an unseen key. A copy so callers can read it while answers keep
// landing.
func (a *Aggregator) History(exerciseKey string) map[string]stats.QuestionTally {
	a.mu.Lock()
	defer a.mu.Unlock()

	ex, ok := a.exercises[exerciseKey]
	if !ok {
		return nil
	}
	out := make(map[string]stats.QuestionTally, len(ex.QuestionHistory))
	for k, v := range ex.QuestionHistory {
		out[k] = v
	}
	return out
}

// UserStats returns a copy of the singleton.
func (a *Aggregator) UserStats() stats.UserStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return *copyUserStats(a.user)
}

func (a *Aggregator) ExerciseStats(exerciseKey string) (stats.ExerciseStats, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ex, ok := a.exercises[exerciseKey]
	if !ok {
		return stats.ExerciseStats{}, false
	}
	return *copyExerciseStats(ex), true
}

func (a *Aggregator) DifficultQuestions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.user.DifficultQuestions...)
}

func (a *Aggregator) Sizes() store.Sizes {
	sz, err := a.store.Sizes()
	if err != nil {
		a.logger.Error("failed to read store sizes", "error", err)
		return store.Sizes{}
	}
	return sz
}

// Reset zeroes in-memory state and queues the store wipe plus recreation of
// the zeroed singleton. Going through the queue keeps the wipe ordered after
// any still-pending answer writes.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.user = stats.NewUserStats()
	a.exercises = make(map[string]*stats.ExerciseStats)
	a.modules = make(map[string]*stats.ModuleStats)

	zeroed := copyUserStats(a.user)
	a.queue.Enqueue(func() {
		a.store.ClearAll()
		a.store.UpsertUserStats(zeroed)
	})
	a.logger.Info("statistics reset")
}

// exercise and module lazily create records; callers hold mu.
func (a *Aggregator) exercise(key string) *stats.ExerciseStats {
	ex, ok := a.exercises[key]
	if !ok {
		ex = stats.NewExerciseStats(key)
		a.exercises[key] = ex
	}
	return ex
}

func (a *Aggregator) module(moduleType string) *stats.ModuleStats {
	m, ok := a.modules[moduleType]
	if !ok {
		m = &stats.ModuleStats{ModuleType: moduleType}
		a.modules[moduleType] = m
	}
	return m
}

func copyUserStats(u *stats.UserStats) *stats.UserStats {
	out := *u
	out.QuestionHistory = make(map[string]int, len(u.QuestionHistory))
	for k, v := range u.QuestionHistory {
		out.QuestionHistory[k] = v
	}
	out.DifficultQuestions = append([]string(nil), u.DifficultQuestions...)
	return &out
}

func copyExerciseStats(e *stats.ExerciseStats) *stats.ExerciseStats {
	out := *e
	out.QuestionHistory = make(map[string]stats.QuestionTally, len(e.QuestionHistory))
	for k, v := range e.QuestionHistory {
		out.QuestionHistory[k] = v
	}
	return &out
}
