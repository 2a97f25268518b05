package quiz

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every normalized question; the first
	// failure rejects the quiz. Empty by default.
	Validators []Validator

	// StructuredOutput sends QuizSchema with the request so providers
	// return schema-validated JSON.
	StructuredOutput bool

	// MaxTokens is the token budget for the model reply.
	MaxTokens int

	// Temperature controls randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns the loose, prompt-only configuration.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}

// StrictConfig returns DefaultConfig with StrictValidators enabled.
func StrictConfig() Config {
	cfg := DefaultConfig()
	cfg.Validators = StrictValidators()
	return cfg
}
