package problem

import (
	"context"
	"errors"
	"fmt"

	"github.com/mathbuddy/mathbuddy/internal/logger"
)

// MaxAttempts bounds the generation loop. The loop is strictly sequential.
const MaxAttempts = 3

// Completer produces a raw completion for an instruction prompt.
type Completer interface {
	GenerateProblem(ctx context.Context, prompt string) (string, error)
}

// ErrNoDiverseProblem reports that every structurally valid reply duplicated a
// recently generated problem.
var ErrNoDiverseProblem = errors.New("could not produce a sufficiently diverse problem")

// InvalidOutputError reports that no attempt ever produced a structurally
// valid reply. Raw keeps the last reply text for diagnosis.
type InvalidOutputError struct {
	Raw string
	Err error
}

func (e *InvalidOutputError) Error() string {
	return fmt.Sprintf("invalid generation output: %v", e.Err)
}

func (e *InvalidOutputError) Unwrap() error { return e.Err }

// Generator runs the bounded generation-and-validation loop.
type Generator struct {
	client   Completer
	attempts int
}

// NewGenerator creates a Generator with the default attempt budget.
func NewGenerator(client Completer) *Generator {
	return &Generator{client: client, attempts: MaxAttempts}
}

// Generate asks the completion service for a problem until a structurally
// valid, non-duplicate candidate appears or the attempt budget is exhausted.
// seen holds the normalized forms of recently generated problem texts; a
// candidate whose normalized text is in seen is discarded and retried within
// the same budget. No side effects occur before a candidate is accepted.
func (g *Generator) Generate(ctx context.Context, prompt string, seen map[string]bool) (*Candidate, error) {
	log := logger.FromContext(ctx).WithPrefix("generator")

	var (
		lastRaw  string
		lastErr  error
		sawValid bool
	)
	for attempt := 1; attempt <= g.attempts; attempt++ {
		p := prompt
		if attempt > 1 {
			// Nudge the model toward a different scenario on retries.
			p += RetryNudge
		}

		raw, err := g.client.GenerateProblem(ctx, p)
		if err != nil {
			log.Warn("attempt %d/%d: completion call failed: %v", attempt, g.attempts, err)
			lastErr = err
			continue
		}
		lastRaw = raw

		candidate, err := ParseCandidate(raw)
		if err != nil {
			log.Warn("attempt %d/%d: reply rejected: %v", attempt, g.attempts, err)
			lastErr = err
			continue
		}
		sawValid = true

		if seen[Normalize(candidate.ProblemText)] {
			log.Debug("attempt %d/%d: duplicate of a recent problem, retrying", attempt, g.attempts)
			continue
		}

		log.Debug("attempt %d/%d: candidate accepted", attempt, g.attempts)
		return candidate, nil
	}

	if !sawValid {
		return nil, &InvalidOutputError{Raw: lastRaw, Err: lastErr}
	}
	return nil, ErrNoDiverseProblem
}
