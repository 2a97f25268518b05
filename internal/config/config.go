package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizforge/internal/llm"
	"github.com/abhisek/quizforge/internal/notify"
	"github.com/abhisek/quizforge/internal/quiz"
)

// FileName is the config file looked up in the user's config directory.
const FileName = "quizforge.yaml"

// Config is the full application configuration.
type Config struct {
	LLM  llm.Config        `yaml:"llm"`
	Quiz QuizConfig        `yaml:"quiz"`
	SMTP notify.SMTPConfig `yaml:"smtp"`

	// DBPath overrides the audit log location.
	DBPath string `yaml:"db"`
}

// QuizConfig tunes quiz generation.
type QuizConfig struct {
	// Strict enables option-count and answer-letter validation.
	Strict bool `yaml:"strict"`

	// StructuredOutput asks the provider for schema-validated JSON.
	StructuredOutput bool `yaml:"structured_output"`

	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// Default returns the configuration used when no file or env is present.
// The provider is left empty so ApplyEnv can tell whether one was chosen.
func Default() Config {
	qc := quiz.DefaultConfig()
	lc := llm.DefaultConfig()
	lc.Provider = ""
	return Config{
		LLM: lc,
		Quiz: QuizConfig{
			MaxTokens:   qc.MaxTokens,
			Temperature: qc.Temperature,
		},
	}
}

// DefaultPath resolves the config file path in priority order:
// 1. QUIZFORGE_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/quizforge/quizforge.yaml
// 3. ~/.config/quizforge/quizforge.yaml
func DefaultPath() (string, error) {
	if p := os.Getenv("QUIZFORGE_CONFIG"); p != "" {
		return p, nil
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "quizforge", FileName), nil
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides and validates the result. An empty path means
// DefaultPath, which may be absent; an explicit path must exist.
//
// A missing model credential is not an error here: it is reported when a
// quiz is generated.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if err := loadFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with environment variables. A provider named in
// the file or QUIZFORGE_LLM_PROVIDER only picks up its own native key
// variable. With no provider named, the native variables are checked in
// priority order and llm.DefaultProvider is the fallback.
func ApplyEnv(cfg *Config) error {
	llm.ApplyEnv(&cfg.LLM)
	switch {
	case cfg.LLM.Provider == "":
		if !llm.DiscoverConfig(&cfg.LLM) {
			cfg.LLM.Provider = llm.DefaultProvider
		}
	case !cfg.LLM.HasAPIKey():
		llm.ApplyNativeKey(&cfg.LLM)
	}

	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.SMTP.Host, "QUIZFORGE_SMTP_HOST")
	set(&cfg.SMTP.Username, "QUIZFORGE_SMTP_USERNAME")
	set(&cfg.SMTP.Password, "QUIZFORGE_SMTP_PASSWORD")
	set(&cfg.SMTP.From, "QUIZFORGE_SMTP_FROM")
	set(&cfg.SMTP.To, "QUIZFORGE_REPORT_TO")
	set(&cfg.DBPath, "QUIZFORGE_DB")

	if v := os.Getenv("QUIZFORGE_SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return &llm.ErrConfiguration{Setting: "QUIZFORGE_SMTP_PORT", Reason: fmt.Sprintf("invalid port %q", v)}
		}
		cfg.SMTP.Port = port
	}

	return nil
}

// Validate checks settings that must be consistent at startup. Email is
// either fully configured or not configured at all.
func (c Config) Validate() error {
	if c.SMTP.Enabled() {
		if c.SMTP.Port == 0 {
			c.SMTP.Port = 587
		}
		if missing := c.SMTP.Missing(); len(missing) > 0 {
			return &llm.ErrConfiguration{
				Setting: "smtp",
				Reason:  "incomplete email settings, missing " + strings.Join(missing, ", "),
			}
		}
	}
	if c.Quiz.Temperature < 0 || c.Quiz.Temperature > 1 {
		return &llm.ErrConfiguration{Setting: "quiz.temperature", Reason: "must be between 0 and 1"}
	}
	return nil
}

// EmailEnabled reports whether reports are emailed.
func (c Config) EmailEnabled() bool {
	return c.SMTP.Enabled()
}

// Notifier returns the notifier for the configured email settings.
func (c Config) Notifier() notify.Notifier {
	if !c.EmailEnabled() {
		return notify.NopNotifier{}
	}
	return notify.NewSMTPNotifier(c.SMTP)
}

// GeneratorConfig returns the quiz generator configuration.
func (c Config) GeneratorConfig() quiz.Config {
	var qc quiz.Config
	if c.Quiz.Strict {
		qc = quiz.StrictConfig()
	} else {
		qc = quiz.DefaultConfig()
	}
	qc.StructuredOutput = c.Quiz.StructuredOutput
	if c.Quiz.MaxTokens > 0 {
		qc.MaxTokens = c.Quiz.MaxTokens
	}
	qc.Temperature = c.Quiz.Temperature
	return qc
}
