package store

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/dgsmath/pratik/internal/domain/stats"
)

// Fallback decorates the primary structured backend with degradation to the
// flat snapshot. Storage errors never escape: a failing write is retried once
// against the snapshot (user stats only) and then dropped with a log line; a
// failing read reports "no data yet," so callers see a broken backend as a
// first run.
type Fallback struct {
	primary   RecordStore // nil when the primary backend failed to open
	secondary *SnapshotStore
	logger    *slog.Logger

	mu       sync.Mutex
	lastUser *stats.UserStats // most recent user stats seen, for degraded writes
}

// NewFallback wraps the primary store. Pass primary == nil when the backend
// could not be opened; the session then runs on the snapshot alone.
func NewFallback(primary RecordStore, secondary *SnapshotStore, logger *slog.Logger) *Fallback {
	return &Fallback{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

// degrade snapshots the last known user stats after a failed primary write.
// A failed snapshot write is swallowed too; in-memory state stays correct,
// it is just not durable yet.
func (f *Fallback) degrade(op string, err error) {
	f.logger.Error("primary store write failed", "op", op, "error", err)

	f.mu.Lock()
	last := f.lastUser
	f.mu.Unlock()
	if last == nil {
		return
	}
	if serr := f.secondary.Save(last); serr != nil {
		f.logger.Error("snapshot fallback write failed, dropping update", "op", op, "error", serr)
	}
}

func (f *Fallback) GetUserStats() (*stats.UserStats, error) {
	if f.primary == nil {
		// Primary never initialized: the snapshot is all we have.
		return f.secondary.Load()
	}
	u, err := f.primary.GetUserStats()
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		f.logger.Error("primary store read failed", "op", "GetUserStats", "error", err)
		return nil, ErrNotFound
	}
	return u, nil
}

func (f *Fallback) UpsertUserStats(u *stats.UserStats) error {
	f.mu.Lock()
	f.lastUser = u
	f.mu.Unlock()

	if f.primary == nil {
		if err := f.secondary.Save(u); err != nil {
			f.logger.Error("snapshot write failed, dropping update", "error", err)
		}
		return nil
	}
	if err := f.primary.UpsertUserStats(u); err != nil {
		f.degrade("UpsertUserStats", err)
	}
	return nil
}

func (f *Fallback) GetExerciseStats(key string) (*stats.ExerciseStats, error) {
	if f.primary == nil {
		return nil, ErrNotFound
	}
	e, err := f.primary.GetExerciseStats(key)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		f.logger.Error("primary store read failed", "op", "GetExerciseStats", "key", key, "error", err)
		return nil, ErrNotFound
	}
	return e, nil
}

func (f *Fallback) UpsertExerciseStats(e *stats.ExerciseStats) error {
	if f.primary == nil {
		return nil
	}
	if err := f.primary.UpsertExerciseStats(e); err != nil {
		f.degrade("UpsertExerciseStats", err)
	}
	return nil
}

func (f *Fallback) GetAllExerciseStats() ([]*stats.ExerciseStats, error) {
	if f.primary == nil {
		return nil, nil
	}
	all, err := f.primary.GetAllExerciseStats()
	if err != nil {
		f.logger.Error("primary store read failed", "op", "GetAllExerciseStats", "error", err)
		return nil, nil
	}
	return all, nil
}

func (f *Fallback) GetModuleStats(moduleType string) (*stats.ModuleStats, error) {
	if f.primary == nil {
		return nil, ErrNotFound
	}
	m, err := f.primary.GetModuleStats(moduleType)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		f.logger.Error("primary store read failed", "op", "GetModuleStats", "module", moduleType, "error", err)
		return nil, ErrNotFound
	}
	return m, nil
}

func (f *Fallback) UpsertModuleStats(m *stats.ModuleStats) error {
	if f.primary == nil {
		return nil
	}
	if err := f.primary.UpsertModuleStats(m); err != nil {
		f.degrade("UpsertModuleStats", err)
	}
	return nil
}

func (f *Fallback) GetAllModuleStats() ([]*stats.ModuleStats, error) {
	if f.primary == nil {
		return nil, nil
	}
	all, err := f.primary.GetAllModuleStats()
	if err != nil {
		f.logger.Error("primary store read failed", "op", "GetAllModuleStats", "error", err)
		return nil, nil
	}
	return all, nil
}

func (f *Fallback) ReplaceDifficultQuestions(questions []string) error {
	if f.primary == nil {
		return nil
	}
	if err := f.primary.ReplaceDifficultQuestions(questions); err != nil {
		f.degrade("ReplaceDifficultQuestions", err)
	}
	return nil
}

func (f *Fallback) GetDifficultQuestions() ([]string, error) {
	if f.primary == nil {
		return nil, nil
	}
	questions, err := f.primary.GetDifficultQuestions()
	if err != nil {
		f.logger.Error("primary store read failed", "op", "GetDifficultQuestions", "error", err)
		return nil, nil
	}
	return questions, nil
}

func (f *Fallback) AppendAudit(entry AuditEntry) error {
	if f.primary == nil {
		return nil
	}
	if err := f.primary.AppendAudit(entry); err != nil {
		// Audit rows are not reconstructable from the snapshot; just log.
		f.logger.Error("audit append failed", "error", err)
	}
	return nil
}

func (f *Fallback) ClearAll() error {
	f.mu.Lock()
	f.lastUser = nil
	f.mu.Unlock()

	if err := f.secondary.Delete(); err != nil {
		f.logger.Error("snapshot delete failed", "error", err)
	}
	if f.primary == nil {
		return nil
	}
	if err := f.primary.ClearAll(); err != nil {
		f.logger.Error("primary store clear failed", "error", err)
	}
	return nil
}

func (f *Fallback) Sizes() (Sizes, error) {
	if f.primary == nil {
		return Sizes{}, nil
	}
	sz, err := f.primary.Sizes()
	if err != nil {
		f.logger.Error("primary store read failed", "op", "Sizes", "error", err)
		return Sizes{}, nil
	}
	return sz, nil
}
