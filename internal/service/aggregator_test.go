package service_test

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dgsmath/pratik/internal/service"
	"github.com/dgsmath/pratik/internal/store"
	"github.com/dgsmath/pratik/internal/worker"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAggregator(t *testing.T) (*service.Aggregator, *store.SQLiteStore, *worker.Queue) {
	t.Helper()
	db, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	queue := worker.NewQueue(32)
	agg := service.NewAggregator(db, queue, discardLogger())
	if err := agg.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return agg, db, queue
}

func TestRecordAnswer_PersistsThroughQueue(t *testing.T) {
	agg, db, queue := newTestAggregator(t)

	agg.RecordAnswer("toplama", "birBasamakliToplama", "2 + 3", true, "5", "5")
	agg.RecordAnswer("toplama", "birBasamakliToplama", "7 + 8", false, "14", "15")
	queue.Close()

	u, err := db.GetUserStats()
	if err != nil {
		t.Fatalf("user stats not persisted: %v", err)
	}
	if u.TotalQuestions != 2 || u.CorrectAnswers != 1 || u.IncorrectAnswers != 1 {
		t.Errorf("unexpected user stats: %+v", u)
	}
	if u.TotalQuestions != u.CorrectAnswers+u.IncorrectAnswers {
		t.Error("totals invariant broken in persisted record")
	}

	ex, err := db.GetExerciseStats("birBasamakliToplama")
	if err != nil {
		t.Fatalf("exercise stats not persisted: %v", err)
	}
	if ex.Total != 2 || ex.Correct != 1 {
		t.Errorf("unexpected exercise stats: %+v", ex)
	}

	m, err := db.GetModuleStats("toplama")
	if err != nil {
		t.Fatalf("module stats not persisted: %v", err)
	}
	if m.Total != 2 || m.Correct != 1 {
		t.Errorf("unexpected module stats: %+v", m)
	}

	sz, err := db.Sizes()
	if err != nil {
		t.Fatal(err)
	}
	if sz.QuestionHistory != 2 {
		t.Errorf("expected 2 audit rows, got %d", sz.QuestionHistory)
	}
}

func TestRecordAnswer_NoModuleRollupForAdvanced(t *testing.T) {
	agg, db, queue := newTestAggregator(t)

	// Empty module type: the parameterized family path.
	agg.RecordAnswer("", "ileriMatematik_7", "7 × 13", true, "91", "91")
	queue.Close()

	if _, err := db.GetModuleStats("ileriMatematik"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("advanced exercises must not write module stats, got %v", err)
	}
	if _, err := db.GetExerciseStats("ileriMatematik_7"); err != nil {
		t.Errorf("exercise stats missing: %v", err)
	}
}

func TestDifficultQuestion_SharedTextAcrossExercises(t *testing.T) {
	agg, db, queue := newTestAggregator(t)

	// Two misses of the same literal text in different exercises.
	agg.RecordAnswer("toplama", "birBasamakliToplama", "3 + 4", false, "8", "7")
	agg.RecordAnswer("", "ileriMatematikToplama", "3 + 4", false, "6", "7")
	queue.Close()

	difficult, err := db.GetDifficultQuestions()
	if err != nil {
		t.Fatal(err)
	}
	if len(difficult) != 1 || difficult[0] != "3 + 4" {
		t.Errorf("expected exactly one difficult entry, got %v", difficult)
	}

	u := agg.UserStats()
	if u.QuestionHistory["3 + 4"] != 2 {
		t.Errorf("expected global incorrect count 2, got %d", u.QuestionHistory["3 + 4"])
	}
}

func TestAccuracy(t *testing.T) {
	agg, _, queue := newTestAggregator(t)
	defer queue.Close()

	if got := agg.Accuracy("birBasamakliToplama"); got != 0 {
		t.Errorf("expected 0 for unseen exercise, got %d", got)
	}

	agg.RecordAnswer("toplama", "birBasamakliToplama", "2 + 3", true, "5", "5")
	agg.RecordAnswer("toplama", "birBasamakliToplama", "2 + 4", true, "6", "6")
	agg.RecordAnswer("toplama", "birBasamakliToplama", "7 + 8", false, "14", "15")

	if got := agg.Accuracy("birBasamakliToplama"); got != 67 {
		t.Errorf("expected 67 for 2/3, got %d", got)
	}
}

func TestRollupAccuracy(t *testing.T) {
	agg, _, queue := newTestAggregator(t)
	defer queue.Close()

	agg.RecordAnswer("", "ileriMatematik_2", "2 × 5", true, "10", "10")
	agg.RecordAnswer("", "ileriMatematik_3", "3 × 5", false, "16", "15")
	agg.RecordAnswer("", "ileriMatematik_3", "3 × 6", true, "18", "18")

	// 2 correct of 3 across the family.
	got := agg.RollupAccuracy([]string{"ileriMatematik_2", "ileriMatematik_3", "ileriMatematik_4"})
	if got != 67 {
		t.Errorf("expected 67, got %d", got)
	}
}

func TestLoad_RestoresPersistedState(t *testing.T) {
	db, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	queue := worker.NewQueue(32)
	agg := service.NewAggregator(db, queue, discardLogger())
	if err := agg.Load(); err != nil {
		t.Fatal(err)
	}
	agg.RecordAnswer("toplama", "birBasamakliToplama", "2 + 3", true, "5", "5")
	agg.RecordAnswer("toplama", "birBasamakliToplama", "7 + 8", false, "14", "15")
	queue.Close()

	// A fresh aggregator over the same database sees the same numbers.
	queue2 := worker.NewQueue(32)
	defer queue2.Close()
	agg2 := service.NewAggregator(db, queue2, discardLogger())
	if err := agg2.Load(); err != nil {
		t.Fatal(err)
	}

	if got := agg2.Accuracy("birBasamakliToplama"); got != 50 {
		t.Errorf("expected 50 after reload, got %d", got)
	}
	u := agg2.UserStats()
	if u.TotalQuestions != 2 {
		t.Errorf("expected 2 total questions after reload, got %d", u.TotalQuestions)
	}
}

func TestRecordAnswer_ConcurrentSubmissions(t *testing.T) {
	agg, db, queue := newTestAggregator(t)

	// Overlapping submissions from handler goroutines must neither race
	// nor lose counts.
	var wg sync.WaitGroup
	for g := 0; g < 2; g++ {
		wg.Add(1)
		go func(correct bool) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				agg.RecordAnswer("toplama", "birBasamakliToplama", "3 + 4", correct, "7", "7")
			}
		}(g == 0)
	}
	wg.Wait()
	queue.Close()

	u := agg.UserStats()
	if u.TotalQuestions != 400 || u.CorrectAnswers != 200 || u.IncorrectAnswers != 200 {
		t.Errorf("lost updates under concurrency: %+v", u)
	}

	persisted, err := db.GetUserStats()
	if err != nil {
		t.Fatal(err)
	}
	if persisted.TotalQuestions != 400 {
		t.Errorf("expected 400 persisted total, got %d", persisted.TotalQuestions)
	}
}

func TestReset(t *testing.T) {
	agg, db, queue := newTestAggregator(t)

	agg.RecordAnswer("toplama", "birBasamakliToplama", "3 + 4", false, "8", "7")
	agg.RecordAnswer("toplama", "birBasamakliToplama", "3 + 4", false, "8", "7")
	agg.Reset()
	queue.Close()

	u := agg.UserStats()
	if u.TotalQuestions != 0 || len(u.DifficultQuestions) != 0 {
		t.Errorf("in-memory state not zeroed: %+v", u)
	}

	// The store holds only the recreated zeroed singleton.
	persisted, err := db.GetUserStats()
	if err != nil {
		t.Fatalf("expected recreated singleton, got %v", err)
	}
	if persisted.TotalQuestions != 0 {
		t.Errorf("persisted singleton not zeroed: %+v", persisted)
	}

	sz, err := db.Sizes()
	if err != nil {
		t.Fatal(err)
	}
	if sz.ExerciseStats != 0 || sz.DifficultQuestions != 0 || sz.QuestionHistory != 0 {
		t.Errorf("collections not cleared: %+v", sz)
	}
}
