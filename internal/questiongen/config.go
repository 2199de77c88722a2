package questiongen

import (
	"math/rand/v2"
	"time"

	"github.com/abhisek/quizgen/internal/llm"
)

// Config controls the Generator.
type Config struct {
	// Retry is the retry policy for model calls.
	Retry llm.RetryConfig

	// MaxTokens is the token budget for the model reply.
	MaxTokens int

	// Temperature controls model output randomness (0.0-1.0).
	Temperature float64

	// Timeout bounds the model call including retries. Zero means only
	// the caller's context applies.
	Timeout time.Duration

	// StructuredOutput asks the provider to constrain its reply to
	// StructuredEnvelopeSchema. Extraction still runs on the reply.
	StructuredOutput bool

	// MaxQuestions caps TotalCount. Zero means no cap.
	MaxQuestions int

	// Rand picks true/false answers for repaired questions. Nil uses the
	// global math/rand/v2 source.
	Rand Rand
}

// DefaultConfig returns the recommended generator settings.
func DefaultConfig() Config {
	return Config{
		Retry:        llm.DefaultRetryConfig(),
		MaxTokens:    4096,
		Temperature:  0.7,
		MaxQuestions: 50,
	}
}

// Rand is the randomness the Reconciler needs. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// globalRand uses the goroutine-safe top-level math/rand/v2 functions.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }
