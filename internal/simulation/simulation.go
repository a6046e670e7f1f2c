// simulation/simulation.go
package simulation

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/dgsmath/pratik/internal/domain/exercise"
	"github.com/dgsmath/pratik/internal/service"
)

// Config controls a simulated drill run.
type Config struct {
	Rounds    int     // answer cycles per exercise
	ErrorRate float64 // probability of submitting a wrong answer
	Seed      int64
}

// Run drives answer cycles through the engine for every registered
// exercise: draw a question, answer it (wrong with the configured
// probability), submit. Useful as an end-to-end smoke and for seeding a
// database with realistic history.
func Run(engine *service.Engine, registry *exercise.Registry, cfg Config, logger *slog.Logger) error {
	rng := rand.New(rand.NewSource(cfg.Seed))

	for _, key := range registry.Keys() {
		def, _ := registry.Get(key)

		for i := 0; i < cfg.Rounds; i++ {
			question, err := engine.NextQuestion(key)
			if err != nil {
				return fmt.Errorf("simulate %s: %w", key, err)
			}

			answer, ok := def.Answer(question)
			if !ok {
				return fmt.Errorf("simulate %s: question %q does not parse", key, question)
			}
			if rng.Float64() < cfg.ErrorRate {
				// Appending a digit keeps the answer parseable but wrong
				// for every exercise type, fractions included.
				answer += "1"
			}

			result, err := engine.SubmitAnswer(key, question, answer)
			if err != nil {
				return fmt.Errorf("simulate %s: %w", key, err)
			}
			logger.Debug("simulated answer",
				"exercise", key,
				"question", question,
				"correct", result.IsCorrect)
		}

		accuracy, _ := engine.Accuracy(key)
		logger.Info("simulated exercise", "exercise", key, "rounds", cfg.Rounds, "accuracy", accuracy)
	}

	u := engine.UserStats()
	logger.Info("simulation complete",
		"totalQuestions", u.TotalQuestions,
		"correct", u.CorrectAnswers,
		"incorrect", u.IncorrectAnswers,
		"difficult", len(u.DifficultQuestions))
	return nil
}
