package exercise_test

import (
	"errors"
	"testing"

	"github.com/dgsmath/pratik/internal/domain/exercise"
)

func TestKesirToplama_Answers(t *testing.T) {
	def := mustGet(t, exercise.DefaultRegistry(), "kesirToplama")

	tests := []struct {
		question string
		want     string
	}{
		{"1/2 + 1/4", "3/4"},
		{"1/2 + 1/2", "1/1"},
		{"1/3 + 1/6", "1/2"},
		{"2/3 + 2/3", "4/3"},
	}

	for _, tt := range tests {
		answer, ok := def.Answer(tt.question)
		if !ok {
			t.Errorf("Answer(%q): unexpected sentinel", tt.question)
			continue
		}
		if answer != tt.want {
			t.Errorf("Answer(%q) = %q, want %q", tt.question, answer, tt.want)
		}
	}

	if _, ok := def.Answer("1/2 - 1/4"); ok {
		t.Error("expected sentinel for wrong operator")
	}
}

func TestKesirToplama_AcceptsBareInteger(t *testing.T) {
	def := mustGet(t, exercise.DefaultRegistry(), "kesirToplama")

	// 1/2 + 1/2 = 1/1; the bare integer form must also count.
	for _, user := range []string{"1/1", "1", "2/2"} {
		ok, err := def.Check("1/1", user)
		if err != nil {
			t.Errorf("Check(1/1, %q): unexpected error %v", user, err)
			continue
		}
		if !ok {
			t.Errorf("Check(1/1, %q) = false, want true", user)
		}
	}

	if _, err := def.Check("1/1", "one"); !errors.Is(err, exercise.ErrInvalidAnswer) {
		t.Errorf("expected ErrInvalidAnswer, got %v", err)
	}
}

func TestKesirSadelestirme_StrictForm(t *testing.T) {
	def := mustGet(t, exercise.DefaultRegistry(), "kesirSadelestirme")

	answer, ok := def.Answer("4/8")
	if !ok || answer != "1/2" {
		t.Fatalf("Answer(4/8) = %q, %v; want 1/2, true", answer, ok)
	}

	// Equivalent fractions are accepted after normalization.
	if ok, err := def.Check("1/2", "2/4"); err != nil || !ok {
		t.Errorf("Check(1/2, 2/4) = %v, %v; want true, nil", ok, err)
	}

	// A bare integer is rejected here, unlike the addition drill.
	if _, err := def.Check("1/2", "0"); !errors.Is(err, exercise.ErrInvalidAnswer) {
		t.Errorf("expected ErrInvalidAnswer for bare integer, got %v", err)
	}
}

func TestKesirSadelestirme_OnlyReducibleQuestions(t *testing.T) {
	def := mustGet(t, exercise.DefaultRegistry(), "kesirSadelestirme")

	for _, q := range def.Combinations() {
		answer, ok := def.Answer(q)
		if !ok {
			t.Errorf("question %q does not parse", q)
			continue
		}
		if answer == q {
			t.Errorf("question %q is already reduced", q)
		}
	}
}
