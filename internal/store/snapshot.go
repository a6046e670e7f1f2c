package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/dgsmath/pratik/internal/domain/stats"
)

// SnapshotStore is the flat single-blob secondary backend: one JSON file
// holding a UserStats record. It is both the degraded write target when the
// primary fails and the legacy snapshot source the migration consumes.
type SnapshotStore struct {
	path string
}

func NewSnapshot(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

func (s *SnapshotStore) Path() string {
	return s.path
}

// Load reads the snapshot. A missing file or an unreadable blob is
// ErrNotFound: callers treat both as "no data yet."
func (s *SnapshotStore) Load() (*stats.UserStats, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var u stats.UserStats
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, ErrNotFound
	}
	u.Normalize()
	return &u, nil
}

// Save overwrites the snapshot with the given record.
func (s *SnapshotStore) Save(u *stats.UserStats) error {
	rec := *u
	rec.LastUpdated = time.Now().UTC()
	data, err := json.Marshal(&rec)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Delete removes the snapshot file. Deleting an absent file is a no-op.
func (s *SnapshotStore) Delete() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
