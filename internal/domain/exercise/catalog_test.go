package exercise_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dgsmath/pratik/internal/domain/exercise"
)

func mustGet(t *testing.T, r *exercise.Registry, key string) *exercise.Definition {
	t.Helper()
	def, ok := r.Get(key)
	if !ok {
		t.Fatalf("exercise %q not registered", key)
	}
	return def
}

func TestDefaultRegistry_Keys(t *testing.T) {
	r := exercise.DefaultRegistry()

	// Six simple drills plus the eight-member advanced family.
	if got := len(r.Keys()); got != 14 {
		t.Errorf("expected 14 registered exercises, got %d", got)
	}

	family := r.ModuleKeys(exercise.ModuleIleriMatematik)
	if len(family) != 8 {
		t.Fatalf("expected 8 ileriMatematik keys, got %d", len(family))
	}
	if family[0] != "ileriMatematik_2" || family[7] != "ileriMatematik_9" {
		t.Errorf("unexpected family bounds: %v", family)
	}
}

func TestRegistry_DuplicateKey(t *testing.T) {
	r := exercise.NewRegistry()
	def := &exercise.Definition{Key: "x"}

	if err := r.Register(def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(def); err == nil {
		t.Error("expected error on duplicate key")
	}
}

func TestBirBasamakliToplama(t *testing.T) {
	def := mustGet(t, exercise.DefaultRegistry(), "birBasamakliToplama")

	all := def.Combinations()
	if len(all) != 81 {
		t.Errorf("expected 81 combinations, got %d", len(all))
	}

	answer, ok := def.Answer("7 + 8")
	if !ok || answer != "15" {
		t.Errorf("Answer(7 + 8) = %q, %v; want 15, true", answer, ok)
	}

	if _, ok := def.Answer("not a question"); ok {
		t.Error("expected sentinel for unparseable question")
	}

	// Every hard question is part of the combination space.
	set := make(map[string]bool, len(all))
	for _, q := range all {
		set[q] = true
	}
	for _, q := range def.HardSubset() {
		if !set[q] {
			t.Errorf("hard question %q not in combination space", q)
		}
	}
}

func TestTamBolme_ExactQuotients(t *testing.T) {
	def := mustGet(t, exercise.DefaultRegistry(), "tamBolme")

	for _, q := range def.Combinations() {
		if _, ok := def.Answer(q); !ok {
			t.Errorf("generated question %q has no integer answer", q)
		}
	}

	if answer, ok := def.Answer("42 ÷ 6"); !ok || answer != "7" {
		t.Errorf("Answer(42 ÷ 6) = %q, %v; want 7, true", answer, ok)
	}
	if _, ok := def.Answer("43 ÷ 6"); ok {
		t.Error("expected sentinel for a non-exact division")
	}
}

func TestIleriMatematikFamily(t *testing.T) {
	r := exercise.DefaultRegistry()

	for base := 2; base <= 9; base++ {
		key := fmt.Sprintf("ileriMatematik_%d", base)
		def := mustGet(t, r, key)

		if def.Simple {
			t.Errorf("%s must not feed the per-module rollup", key)
		}

		all := def.Combinations()
		if len(all) != 18 {
			t.Errorf("%s: expected 18 combinations, got %d", key, len(all))
		}

		question := fmt.Sprintf("%d × 13", base)
		want := fmt.Sprintf("%d", base*13)
		if answer, ok := def.Answer(question); !ok || answer != want {
			t.Errorf("%s: Answer(%q) = %q, %v; want %s", key, question, answer, ok, want)
		}
	}
}

func TestCheckNumeric_InvalidInput(t *testing.T) {
	def := mustGet(t, exercise.DefaultRegistry(), "birBasamakliToplama")

	tests := []struct {
		user    string
		correct bool
		wantErr bool
	}{
		{"15", true, false},
		{" 15 ", true, false},
		{"16", false, false},
		{"abc", false, true},
		{"", false, true},
		{"1.5", false, true},
	}

	for _, tt := range tests {
		ok, err := def.Check("15", tt.user)
		if tt.wantErr {
			if !errors.Is(err, exercise.ErrInvalidAnswer) {
				t.Errorf("Check(15, %q): expected ErrInvalidAnswer, got %v", tt.user, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Check(15, %q): unexpected error %v", tt.user, err)
			continue
		}
		if ok != tt.correct {
			t.Errorf("Check(15, %q) = %v, want %v", tt.user, ok, tt.correct)
		}
	}
}
