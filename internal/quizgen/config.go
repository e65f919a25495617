package quizgen

import "time"

// Config controls the behavior of the generation orchestrator.
type Config struct {
	// DuplicateThreshold is the body-similarity above which two questions
	// in a batch are considered duplicates. The default was chosen
	// empirically; tune against representative content.
	DuplicateThreshold float64

	// AlignmentThreshold is the minimum similarity between a candidate's
	// text and the requested learning objective. Looser than the
	// duplicate threshold: objectives are short and share few tokens
	// with a well-formed question.
	AlignmentThreshold float64

	// MaxCount caps the number of questions in one batch. Every slot
	// fans out goroutines against live providers, so an unbounded count
	// is an invitation to exhaust rate limits. Zero disables the cap.
	MaxCount int

	// MaxPasses is the number of full generation passes over unfilled
	// slots before the fallback library takes over.
	MaxPasses int

	// AttemptOffset is added to a slot's attempt index on each
	// replacement pass, so the prompt composer lands on a different
	// archetype than the one that produced the duplicate.
	AttemptOffset int

	// SlotStagger is the delay between launching consecutive slots'
	// first attempts, to avoid bursting the providers.
	SlotStagger time.Duration

	// ProviderTimeout bounds one provider call. Exceeding it is treated
	// identically to a transport error.
	ProviderTimeout time.Duration

	// MaxTokens is the token budget for a provider response.
	MaxTokens int

	// Temperature controls provider output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		DuplicateThreshold: 0.4,
		AlignmentThreshold: 0.2,
		MaxCount:           20,
		MaxPasses:          3,
		AttemptOffset:      10,
		SlotStagger:        150 * time.Millisecond,
		ProviderTimeout:    30 * time.Second,
		MaxTokens:          768,
		Temperature:        0.8,
	}
}
