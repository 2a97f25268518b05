package llm

import (
	"os"
)

// Config holds all model provider configuration.
type Config struct {
	// Provider selects which backend to use.
	// Values: "groq", "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string `yaml:"provider"`

	Groq       CompatConfig    `yaml:"groq"`
	Anthropic  AnthropicConfig `yaml:"anthropic"`
	OpenAI     OpenAIConfig    `yaml:"openai"`
	Gemini     GeminiConfig    `yaml:"gemini"`
	OpenRouter CompatConfig    `yaml:"openrouter"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "gpt-4o-mini"
	BaseURL string `yaml:"base_url"` // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "gemini-flash"
}

// CompatConfig configures a hosted OpenAI-compatible endpoint (Groq,
// OpenRouter). An empty BaseURL selects the provider's public endpoint.
type CompatConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// DefaultProvider is selected when neither config nor environment picks one.
const DefaultProvider = "groq"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: DefaultProvider,
		Groq: CompatConfig{
			Model: "llama-3.3-70b-versatile",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: CompatConfig{
			Model: "google/gemini-2.0-flash-exp",
		},
	}
}

// ApplyEnv overrides cfg with QUIZFORGE_* environment variables.
func ApplyEnv(cfg *Config) {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	set(&cfg.Provider, "QUIZFORGE_LLM_PROVIDER")

	set(&cfg.Groq.APIKey, "QUIZFORGE_GROQ_API_KEY")
	set(&cfg.Groq.Model, "QUIZFORGE_GROQ_MODEL")

	set(&cfg.Anthropic.APIKey, "QUIZFORGE_ANTHROPIC_API_KEY")
	set(&cfg.Anthropic.Model, "QUIZFORGE_ANTHROPIC_MODEL")

	set(&cfg.OpenAI.APIKey, "QUIZFORGE_OPENAI_API_KEY")
	set(&cfg.OpenAI.Model, "QUIZFORGE_OPENAI_MODEL")
	set(&cfg.OpenAI.BaseURL, "QUIZFORGE_OPENAI_BASE_URL")

	set(&cfg.Gemini.APIKey, "QUIZFORGE_GEMINI_API_KEY")
	set(&cfg.Gemini.Model, "QUIZFORGE_GEMINI_MODEL")

	set(&cfg.OpenRouter.APIKey, "QUIZFORGE_OPENROUTER_API_KEY")
	set(&cfg.OpenRouter.Model, "QUIZFORGE_OPENROUTER_MODEL")
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// nativeKeyEnv maps each provider to the API key variable its own tooling
// reads.
var nativeKeyEnv = map[string]string{
	"groq":       "GROQ_API_KEY",
	"gemini":     "GEMINI_API_KEY",
	"openai":     "OPENAI_API_KEY",
	"anthropic":  "ANTHROPIC_API_KEY",
	"openrouter": "OPENROUTER_API_KEY",
}

// discoveryOrder is the order DiscoverConfig checks providers in.
var discoveryOrder = []string{"groq", "gemini", "openai", "anthropic", "openrouter"}

// apiKey returns the key field for provider, or nil for unknown names.
func (c *Config) apiKey(provider string) *string {
	switch provider {
	case "groq":
		return &c.Groq.APIKey
	case "anthropic":
		return &c.Anthropic.APIKey
	case "openai":
		return &c.OpenAI.APIKey
	case "gemini":
		return &c.Gemini.APIKey
	case "openrouter":
		return &c.OpenRouter.APIKey
	}
	return nil
}

// DiscoverConfig checks the providers' own API key env vars in priority
// order (Groq, Gemini, OpenAI, Anthropic, OpenRouter) and selects the first
// one found. Only use it when no provider was chosen. Returns false if none
// was found.
func DiscoverConfig(cfg *Config) bool {
	for _, p := range discoveryOrder {
		if k := os.Getenv(nativeKeyEnv[p]); k != "" {
			cfg.Provider = p
			*cfg.apiKey(p) = k
			return true
		}
	}
	return false
}

// ApplyNativeKey fills the selected provider's key from that provider's own
// env var (OPENAI_API_KEY for "openai"). The provider is never changed.
func ApplyNativeKey(cfg *Config) bool {
	dst := cfg.apiKey(cfg.Provider)
	if dst == nil {
		return false
	}
	k := os.Getenv(nativeKeyEnv[cfg.Provider])
	if k == "" {
		return false
	}
	*dst = k
	return true
}

// Model returns the model ID configured for the selected provider.
func (c Config) Model() string {
	switch c.Provider {
	case "groq":
		return c.Groq.Model
	case "anthropic":
		return c.Anthropic.Model
	case "openai":
		return c.OpenAI.Model
	case "gemini":
		return c.Gemini.Model
	case "openrouter":
		return c.OpenRouter.Model
	}
	return ""
}

// HasAPIKey reports whether the selected provider has a credential.
func (c Config) HasAPIKey() bool {
	return c.Validate() == nil
}

// Validate checks that the selected provider has its required API key set.
// It returns *ErrConfiguration on failure.
func (c Config) Validate() error {
	switch c.Provider {
	case "groq":
		if c.Groq.APIKey == "" {
			return &ErrConfiguration{Setting: "QUIZFORGE_GROQ_API_KEY"}
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return &ErrConfiguration{Setting: "QUIZFORGE_ANTHROPIC_API_KEY"}
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return &ErrConfiguration{Setting: "QUIZFORGE_OPENAI_API_KEY"}
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return &ErrConfiguration{Setting: "QUIZFORGE_GEMINI_API_KEY"}
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return &ErrConfiguration{Setting: "QUIZFORGE_OPENROUTER_API_KEY"}
		}
	case "mock":
		// No API key needed.
	default:
		return &ErrConfiguration{Setting: "provider", Reason: "unknown LLM provider " + `"` + c.Provider + `"`}
	}
	return nil
}
