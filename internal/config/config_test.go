package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizforge/internal/llm"
	"github.com/abhisek/quizforge/internal/notify"
)

var envKeys = []string{
	"QUIZFORGE_CONFIG", "QUIZFORGE_DB", "QUIZFORGE_LLM_PROVIDER",
	"QUIZFORGE_GROQ_API_KEY", "QUIZFORGE_GROQ_MODEL",
	"QUIZFORGE_ANTHROPIC_API_KEY", "QUIZFORGE_ANTHROPIC_MODEL",
	"QUIZFORGE_OPENAI_API_KEY", "QUIZFORGE_OPENAI_MODEL", "QUIZFORGE_OPENAI_BASE_URL",
	"QUIZFORGE_GEMINI_API_KEY", "QUIZFORGE_GEMINI_MODEL",
	"QUIZFORGE_OPENROUTER_API_KEY", "QUIZFORGE_OPENROUTER_MODEL",
	"GROQ_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	"QUIZFORGE_SMTP_HOST", "QUIZFORGE_SMTP_PORT", "QUIZFORGE_SMTP_USERNAME",
	"QUIZFORGE_SMTP_PASSWORD", "QUIZFORGE_SMTP_FROM", "QUIZFORGE_REPORT_TO",
}

// cleanEnv blanks every variable Load reads and points the config home at
// an empty temp dir.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	cleanEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "groq", cfg.LLM.Provider)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLM.Groq.Model)
	assert.False(t, cfg.LLM.HasAPIKey())
	assert.False(t, cfg.EmailEnabled())
	assert.IsType(t, notify.NopNotifier{}, cfg.Notifier())

	qc := cfg.GeneratorConfig()
	assert.Empty(t, qc.Validators)
	assert.False(t, qc.StructuredOutput)
	assert.Equal(t, 4096, qc.MaxTokens)
}

func TestLoad_File(t *testing.T) {
	cleanEnv(t)
	p := writeFile(t, `
llm:
  provider: openai
  openai:
    api_key: sk-file
    model: gpt-4o
quiz:
  strict: true
  structured_output: true
  temperature: 0.2
smtp:
  host: smtp.example.com
  port: 465
  username: bot@example.com
  password: secret
  to: me@example.com
db: /tmp/quiz.db
`)

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-file", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o", cfg.LLM.OpenAI.Model)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLM.Groq.Model, "unset keys keep defaults")
	assert.Equal(t, "/tmp/quiz.db", cfg.DBPath)
	assert.True(t, cfg.EmailEnabled())
	assert.IsType(t, &notify.SMTPNotifier{}, cfg.Notifier())

	qc := cfg.GeneratorConfig()
	assert.Len(t, qc.Validators, 2)
	assert.True(t, qc.StructuredOutput)
	assert.Equal(t, 0.2, qc.Temperature)
}

func TestLoad_DefaultPathFromXDG(t *testing.T) {
	cleanEnv(t)
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	dir := filepath.Join(home, "quizforge")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("db: /data/q.db\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/data/q.db", cfg.DBPath)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	cleanEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	cleanEnv(t)
	_, err := Load(writeFile(t, "llm: [unclosed"))
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	cleanEnv(t)
	p := writeFile(t, "llm:\n  provider: openai\n  openai:\n    api_key: sk-file\n")
	t.Setenv("QUIZFORGE_OPENAI_API_KEY", "sk-env")
	t.Setenv("QUIZFORGE_DB", "/env/q.db")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "/env/q.db", cfg.DBPath)
}

func TestLoad_DiscoversNativeKey(t *testing.T) {
	cleanEnv(t)
	t.Setenv("GROQ_API_KEY", "gsk-native")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "groq", cfg.LLM.Provider)
	assert.Equal(t, "gsk-native", cfg.LLM.Groq.APIKey)
	assert.True(t, cfg.LLM.HasAPIKey())
}

func TestLoad_EnvProviderIgnoresOtherNativeKeys(t *testing.T) {
	cleanEnv(t)
	t.Setenv("QUIZFORGE_LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("GROQ_API_KEY", "gsk-groq")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-openai", cfg.LLM.OpenAI.APIKey)
	assert.Empty(t, cfg.LLM.Groq.APIKey)
}

func TestLoad_FileProviderIgnoresOtherNativeKeys(t *testing.T) {
	cleanEnv(t)
	p := writeFile(t, "llm:\n  provider: anthropic\n")
	t.Setenv("GROQ_API_KEY", "gsk-groq")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.False(t, cfg.LLM.HasAPIKey())
	assert.Empty(t, cfg.LLM.Groq.APIKey)
}

func TestLoad_DiscoveryFollowsPriority(t *testing.T) {
	cleanEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("GEMINI_API_KEY", "gm-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gm-key", cfg.LLM.Gemini.APIKey)
}

func TestLoad_SMTPFromEnv(t *testing.T) {
	cleanEnv(t)
	t.Setenv("QUIZFORGE_SMTP_HOST", "smtp.example.com")
	t.Setenv("QUIZFORGE_SMTP_PORT", "2525")
	t.Setenv("QUIZFORGE_SMTP_USERNAME", "bot")
	t.Setenv("QUIZFORGE_SMTP_PASSWORD", "pw")
	t.Setenv("QUIZFORGE_REPORT_TO", "me@example.com")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, "me@example.com", cfg.SMTP.To)
	assert.True(t, cfg.EmailEnabled())
}

func TestLoad_SMTPDefaultPort(t *testing.T) {
	cleanEnv(t)
	t.Setenv("QUIZFORGE_SMTP_HOST", "smtp.example.com")
	t.Setenv("QUIZFORGE_SMTP_USERNAME", "bot")
	t.Setenv("QUIZFORGE_SMTP_PASSWORD", "pw")
	t.Setenv("QUIZFORGE_REPORT_TO", "me@example.com")

	_, err := Load("")
	assert.NoError(t, err)
}

func TestLoad_PartialSMTPIsConfigurationError(t *testing.T) {
	cleanEnv(t)
	t.Setenv("QUIZFORGE_SMTP_HOST", "smtp.example.com")
	t.Setenv("QUIZFORGE_REPORT_TO", "me@example.com")

	_, err := Load("")

	var cerr *llm.ErrConfiguration
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "smtp", cerr.Setting)
	assert.Contains(t, cerr.Reason, "username, password")
}

func TestLoad_BadSMTPPort(t *testing.T) {
	cleanEnv(t)
	t.Setenv("QUIZFORGE_SMTP_PORT", "smtp")

	_, err := Load("")

	var cerr *llm.ErrConfiguration
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "QUIZFORGE_SMTP_PORT", cerr.Setting)
}

func TestValidate_Temperature(t *testing.T) {
	cfg := Default()
	cfg.Quiz.Temperature = 1.5
	assert.Error(t, cfg.Validate())
}
