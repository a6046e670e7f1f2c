// internal/store/sqlite.go
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dgsmath/pratik/internal/domain/stats"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_stats (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    total_questions INTEGER NOT NULL,
    correct_answers INTEGER NOT NULL,
    incorrect_answers INTEGER NOT NULL,
    question_history TEXT NOT NULL,
    difficult_questions TEXT NOT NULL,
    last_updated TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS question_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    question_text TEXT NOT NULL,
    exercise_type TEXT NOT NULL,
    is_correct INTEGER NOT NULL,
    user_answer TEXT NOT NULL,
    correct_answer TEXT NOT NULL,
    timestamp TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_question_history_text ON question_history(question_text);
CREATE INDEX IF NOT EXISTS idx_question_history_type ON question_history(exercise_type);
CREATE INDEX IF NOT EXISTS idx_question_history_time ON question_history(timestamp);

CREATE TABLE IF NOT EXISTS exercise_stats (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    exercise_key TEXT NOT NULL UNIQUE,
    total INTEGER NOT NULL,
    correct INTEGER NOT NULL,
    question_history TEXT NOT NULL,
    last_updated TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS module_stats (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    module_type TEXT NOT NULL UNIQUE,
    total INTEGER NOT NULL,
    correct INTEGER NOT NULL,
    last_updated TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS difficult_questions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    question_text TEXT NOT NULL UNIQUE,
    timestamp TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// SQLiteStore is the primary structured backend. Schema creation is
// idempotent; opening the same file again never recreates or corrupts
// existing collections.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// User stats (singleton)
// ============================================================================

func (s *SQLiteStore) GetUserStats() (*stats.UserStats, error) {
	var (
		u             stats.UserStats
		historyJSON   string
		difficultJSON string
		lastUpdated   string
	)
	err := s.db.QueryRow(`
		SELECT total_questions, correct_answers, incorrect_answers,
		       question_history, difficult_questions, last_updated
		FROM user_stats ORDER BY id LIMIT 1
	`).Scan(&u.TotalQuestions, &u.CorrectAnswers, &u.IncorrectAnswers,
		&historyJSON, &difficultJSON, &lastUpdated)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	// Malformed JSON decodes to nil; Normalize turns that into a usable
	// empty record instead of failing the read.
	json.Unmarshal([]byte(historyJSON), &u.QuestionHistory)
	json.Unmarshal([]byte(difficultJSON), &u.DifficultQuestions)
	u.LastUpdated, _ = time.Parse(time.RFC3339, lastUpdated)
	u.Normalize()

	return &u, nil
}

func (s *SQLiteStore) UpsertUserStats(u *stats.UserStats) error {
	historyJSON, err := json.Marshal(u.QuestionHistory)
	if err != nil {
		return err
	}
	difficultJSON, err := json.Marshal(u.DifficultQuestions)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	var id int64
	err = s.db.QueryRow("SELECT id FROM user_stats ORDER BY id LIMIT 1").Scan(&id)
	if err == sql.ErrNoRows {
		_, err = s.db.Exec(`
			INSERT INTO user_stats
			(total_questions, correct_answers, incorrect_answers, question_history, difficult_questions, last_updated)
			VALUES (?, ?, ?, ?, ?, ?)
		`, u.TotalQuestions, u.CorrectAnswers, u.IncorrectAnswers,
			string(historyJSON), string(difficultJSON), now.Format(time.RFC3339))
		return err
	}
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		UPDATE user_stats
		SET total_questions = ?, correct_answers = ?, incorrect_answers = ?,
		    question_history = ?, difficult_questions = ?, last_updated = ?
		WHERE id = ?
	`, u.TotalQuestions, u.CorrectAnswers, u.IncorrectAnswers,
		string(historyJSON), string(difficultJSON), now.Format(time.RFC3339), id)
	return err
}

// ============================================================================
// Exercise stats
// ============================================================================

func (s *SQLiteStore) GetExerciseStats(key string) (*stats.ExerciseStats, error) {
	var (
		e           stats.ExerciseStats
		historyJSON string
		lastUpdated string
	)
	err := s.db.QueryRow(`
		SELECT exercise_key, total, correct, question_history, last_updated
		FROM exercise_stats WHERE exercise_key = ?
	`, key).Scan(&e.ExerciseKey, &e.Total, &e.Correct, &historyJSON, &lastUpdated)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	json.Unmarshal([]byte(historyJSON), &e.QuestionHistory)
	e.LastUpdated, _ = time.Parse(time.RFC3339, lastUpdated)
	e.Normalize()

	return &e, nil
}

func (s *SQLiteStore) UpsertExerciseStats(e *stats.ExerciseStats) error {
	historyJSON, err := json.Marshal(e.QuestionHistory)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)

	var id int64
	err = s.db.QueryRow("SELECT id FROM exercise_stats WHERE exercise_key = ?", e.ExerciseKey).Scan(&id)
	if err == sql.ErrNoRows {
		_, err = s.db.Exec(`
			INSERT INTO exercise_stats (exercise_key, total, correct, question_history, last_updated)
			VALUES (?, ?, ?, ?, ?)
		`, e.ExerciseKey, e.Total, e.Correct, string(historyJSON), now)
		return err
	}
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		UPDATE exercise_stats
		SET total = ?, correct = ?, question_history = ?, last_updated = ?
		WHERE id = ?
	`, e.Total, e.Correct, string(historyJSON), now, id)
	return err
}

func (s *SQLiteStore) GetAllExerciseStats() ([]*stats.ExerciseStats, error) {
	rows, err := s.db.Query(`
		SELECT exercise_key, total, correct, question_history, last_updated
		FROM exercise_stats
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []*stats.ExerciseStats
	for rows.Next() {
		var (
			e           stats.ExerciseStats
			historyJSON string
			lastUpdated string
		)
		if err := rows.Scan(&e.ExerciseKey, &e.Total, &e.Correct, &historyJSON, &lastUpdated); err != nil {
			return nil, err
		}
		json.Unmarshal([]byte(historyJSON), &e.QuestionHistory)
		e.LastUpdated, _ = time.Parse(time.RFC3339, lastUpdated)
		e.Normalize()
		all = append(all, &e)
	}
	return all, rows.Err()
}

// ============================================================================
// Module stats
// ============================================================================

func (s *SQLiteStore) GetModuleStats(moduleType string) (*stats.ModuleStats, error) {
	var (
		m           stats.ModuleStats
		lastUpdated string
	)
	err := s.db.QueryRow(`
		SELECT module_type, total, correct, last_updated
		FROM module_stats WHERE module_type = ?
	`, moduleType).Scan(&m.ModuleType, &m.Total, &m.Correct, &lastUpdated)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m.LastUpdated, _ = time.Parse(time.RFC3339, lastUpdated)
	return &m, nil
}

func (s *SQLiteStore) UpsertModuleStats(m *stats.ModuleStats) error {
	now := time.Now().UTC().Format(time.RFC3339)

	var id int64
	err := s.db.QueryRow("SELECT id FROM module_stats WHERE module_type = ?", m.ModuleType).Scan(&id)
	if err == sql.ErrNoRows {
		_, err = s.db.Exec(`
			INSERT INTO module_stats (module_type, total, correct, last_updated)
			VALUES (?, ?, ?, ?)
		`, m.ModuleType, m.Total, m.Correct, now)
		return err
	}
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		UPDATE module_stats SET total = ?, correct = ?, last_updated = ? WHERE id = ?
	`, m.Total, m.Correct, now, id)
	return err
}

func (s *SQLiteStore) GetAllModuleStats() ([]*stats.ModuleStats, error) {
	rows, err := s.db.Query("SELECT module_type, total, correct, last_updated FROM module_stats")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []*stats.ModuleStats
	for rows.Next() {
		var (
			m           stats.ModuleStats
			lastUpdated string
		)
		if err := rows.Scan(&m.ModuleType, &m.Total, &m.Correct, &lastUpdated); err != nil {
			return nil, err
		}
		m.LastUpdated, _ = time.Parse(time.RFC3339, lastUpdated)
		all = append(all, &m)
	}
	return all, rows.Err()
}

// ============================================================================
// Difficult questions (replace-all projection)
// ============================================================================

func (s *SQLiteStore) ReplaceDifficultQuestions(questions []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM difficult_questions"); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, q := range questions {
		if _, err := tx.Exec(
			"INSERT INTO difficult_questions (question_text, timestamp) VALUES (?, ?)",
			q, now,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetDifficultQuestions() ([]string, error) {
	rows, err := s.db.Query("SELECT question_text FROM difficult_questions ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ============================================================================
// Audit log
// ============================================================================

func (s *SQLiteStore) AppendAudit(entry AuditEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO question_history
		(question_text, exercise_type, is_correct, user_answer, correct_answer, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.QuestionText, entry.ExerciseType, entry.IsCorrect,
		entry.UserAnswer, entry.CorrectAnswer, entry.Timestamp.UTC().Format(time.RFC3339))
	return err
}

// ============================================================================
// Maintenance
// ============================================================================

// ClearAll empties every collection. The meta table survives: the migration
// flag is keyed independently of the collections.
func (s *SQLiteStore) ClearAll() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{
		"user_stats", "question_history", "exercise_stats", "module_stats", "difficult_questions",
	} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Sizes() (Sizes, error) {
	var sz Sizes
	counts := []struct {
		table string
		dst   *int
	}{
		{"user_stats", &sz.UserStats},
		{"question_history", &sz.QuestionHistory},
		{"exercise_stats", &sz.ExerciseStats},
		{"module_stats", &sz.ModuleStats},
		{"difficult_questions", &sz.DifficultQuestions},
	}
	for _, c := range counts {
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + c.table).Scan(c.dst); err != nil {
			return Sizes{}, err
		}
		sz.Total += *c.dst
	}
	return sz, nil
}

// ============================================================================
// Meta flags
// ============================================================================

func (s *SQLiteStore) GetMeta(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLiteStore) SetMeta(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
