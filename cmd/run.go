package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizforge/internal/app"
	"github.com/abhisek/quizforge/internal/config"
	"github.com/abhisek/quizforge/internal/llm"
	"github.com/abhisek/quizforge/internal/quiz"
	"github.com/abhisek/quizforge/internal/report"
	"github.com/abhisek/quizforge/internal/screens/setup"
	"github.com/abhisek/quizforge/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	eventRepo := st.EventRepo()
	ctrl := newController(cfg, eventRepo)

	return app.Run(setup.New(ctrl, eventRepo, quiz.Spec{}), statusLine(cfg))
}

// generatorFactory builds the model client on first use so a missing
// credential is reported when a quiz is requested.
func generatorFactory(cfg *config.Config, eventRepo store.EventRepo) app.GeneratorFactory {
	return func(ctx context.Context) (quiz.Generator, error) {
		provider, err := llm.NewProvider(ctx, cfg.LLM, eventRepo)
		if err != nil {
			return nil, err
		}
		return quiz.New(provider, cfg.GeneratorConfig()), nil
	}
}

func newController(cfg *config.Config, eventRepo store.EventRepo) *app.Controller {
	reporter := report.NewReporter(eventRepo, cfg.Notifier())
	return app.NewController(generatorFactory(cfg, eventRepo), reporter)
}

// statusLine names the active provider and model, plus email state.
func statusLine(cfg *config.Config) string {
	s := cfg.LLM.Provider
	if m := cfg.LLM.Model(); m != "" {
		s += " · " + m
	}
	if cfg.EmailEnabled() {
		s += " · ✉"
	}
	return s + "  "
}
