package selection

import (
	"math/rand"
	"time"

	"github.com/dgsmath/pratik/internal/domain/stats"
)

// Tier gates. Evaluated independently on every call: an exercise with
// recorded errors still skips straight to the uniform tier 40% of the time.
const (
	errorTierChance = 0.6
	hardTierChance  = 0.4
)

// State is the per-exercise, session-local selection state. It only
// remembers the last question asked, to prevent immediate repetition.
type State struct {
	LastAsked string
}

// Policy picks the next question for an exercise under the three-tier
// weighted rule: previously-missed questions first, then the exercise's
// intrinsically hard subset, then the whole combination space uniformly.
// One Policy instance serves every exercise; only the inputs differ.
type Policy struct {
	rng *rand.Rand
	// gate draws the tier probabilities; a field so tests can force draws.
	gate func() float64
}

// NewPolicy returns a Policy seeded from the clock.
func NewPolicy() *Policy {
	return NewPolicyWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewPolicyWithRand returns a Policy using the given source.
func NewPolicyWithRand(rng *rand.Rand) *Policy {
	p := &Policy{rng: rng}
	p.gate = rng.Float64
	return p
}

// Next chooses the next question, excluding the last asked one from every
// tier, and records the choice in st. The empty string is returned only for
// an empty combination space.
func (p *Policy) Next(all, hard []string, history map[string]stats.QuestionTally, st *State) string {
	if len(all) == 0 {
		return ""
	}

	// Tier 1: questions the learner has missed before.
	errorPool := excluding(errorQuestions(all, history), st.LastAsked)
	if len(errorPool) > 0 && p.gate() < errorTierChance {
		return p.pick(errorPool, st)
	}

	// Tier 2: the exercise's fixed hard subset.
	hardPool := excluding(hard, st.LastAsked)
	if len(hardPool) > 0 && p.gate() < hardTierChance {
		return p.pick(hardPool, st)
	}

	// Tier 3: uniform over everything but the last asked.
	normalPool := excluding(all, st.LastAsked)
	if len(normalPool) > 0 {
		return p.pick(normalPool, st)
	}

	// Exhausted: the space has exactly one member and it was just asked.
	// Reset and reshuffle so the drill never stalls.
	st.LastAsked = ""
	shuffled := make([]string, len(all))
	copy(shuffled, all)
	p.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	st.LastAsked = shuffled[0]
	return shuffled[0]
}

func (p *Policy) pick(pool []string, st *State) string {
	q := pool[p.rng.Intn(len(pool))]
	st.LastAsked = q
	return q
}

// errorQuestions filters the combination space down to questions with at
// least one recorded incorrect attempt.
func errorQuestions(all []string, history map[string]stats.QuestionTally) []string {
	var out []string
	for _, q := range all {
		if history[q].Incorrect > 0 {
			out = append(out, q)
		}
	}
	return out
}

func excluding(pool []string, skip string) []string {
	if skip == "" {
		return pool
	}
	var out []string
	for _, q := range pool {
		if q != skip {
			out = append(out, q)
		}
	}
	return out
}
