package questiongen

// Config controls the behavior of the LLM question source.
type Config struct {
	// Validators run in order on every generated question; the first
	// failure rejects it.
	Validators []Validator

	// BatchSize is how many questions are requested per LLM call.
	BatchSize int

	// MaxRounds caps the number of LLM calls for one test. Zero means
	// enough rounds for the requested count plus two retries.
	MaxRounds int

	// MaxTokens is the token budget for one batch response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorQuestions is the maximum number of already accepted prompts
	// included in a follow-up request for deduplication.
	MaxPriorQuestions int
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&OptionsValidator{},
			&DuplicateValidator{},
		},
		BatchSize:         10,
		MaxTokens:         4096,
		Temperature:       0.7,
		MaxPriorQuestions: 20,
	}
}

func (c Config) rounds(count int) int {
	if c.MaxRounds > 0 {
		return c.MaxRounds
	}
	batch := c.batchSize()
	return (count+batch-1)/batch + 2
}

func (c Config) batchSize() int {
	if c.BatchSize <= 0 {
		return 10
	}
	return c.BatchSize
}
