package exercise

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidAnswer means the submitted answer could not be parsed.
	// It is rejected before anything is recorded.
	ErrInvalidAnswer = errors.New("exercise: invalid answer format")
)

// Definition describes one drill type. Every exercise is a pure mapping from
// question text to answer plus the combination space it draws from; the
// selection loop is shared, so a new exercise is only a registry entry.
type Definition struct {
	Key    string
	Module string
	// Simple exercises roll their answers into the per-module counters.
	// Parameterized families are aggregated on demand instead.
	Simple bool

	// Combinations returns the full combination space as question strings.
	Combinations func() []string
	// HardSubset returns the fixed subset considered intrinsically harder.
	HardSubset func() []string
	// Answer returns the canonical answer text for a question, or false
	// when the question does not parse. It never panics.
	Answer func(question string) (string, bool)
	// Check compares a submitted answer against the canonical one.
	// Returns ErrInvalidAnswer for unparseable input.
	Check func(correctAnswer, userAnswer string) (bool, error)
}

// Registry is the lookup table from exercise key to definition.
type Registry struct {
	defs map[string]*Definition
	keys []string // registration order
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Register adds a definition. Duplicate keys are rejected.
func (r *Registry) Register(d *Definition) error {
	if d.Key == "" {
		return errors.New("exercise: definition key cannot be empty")
	}
	if _, exists := r.defs[d.Key]; exists {
		return fmt.Errorf("exercise: duplicate key %q", d.Key)
	}
	r.defs[d.Key] = d
	r.keys = append(r.keys, d.Key)
	return nil
}

// Get returns the definition for a key.
func (r *Registry) Get(key string) (*Definition, bool) {
	d, ok := r.defs[key]
	return d, ok
}

// Keys returns all exercise keys in registration order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// ModuleKeys returns the exercise keys belonging to a module, in
// registration order. Used for on-demand module accuracy rollups.
func (r *Registry) ModuleKeys(module string) []string {
	var out []string
	for _, k := range r.keys {
		if r.defs[k].Module == module {
			out = append(out, k)
		}
	}
	return out
}

// parseBinary splits "a <op> b" into its operands.
func parseBinary(question, wantOp string) (int, int, bool) {
	parts := strings.Fields(question)
	if len(parts) != 3 || parts[1] != wantOp {
		return 0, 0, false
	}
	a, err1 := strconv.Atoi(parts[0])
	b, err2 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return a, b, true
}

// checkNumeric compares integer answers.
func checkNumeric(correctAnswer, userAnswer string) (bool, error) {
	user, err := strconv.Atoi(strings.TrimSpace(userAnswer))
	if err != nil {
		return false, ErrInvalidAnswer
	}
	correct, err := strconv.Atoi(correctAnswer)
	if err != nil {
		return false, nil
	}
	return user == correct, nil
}
