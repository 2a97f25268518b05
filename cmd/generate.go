package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizforge/internal/app"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a quiz and print it as JSON",
	Long: `Ask the configured model for a quiz and print the normalized result.

Useful for checking prompt and model quality. Model calls are still
recorded in the audit log; no session or result is.`,
	RunE: runGenerate,
}

func init() {
	addSpecFlags(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	spec, err := specFromFlags(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	gen, err := generatorFactory(cfg, st.EventRepo())(ctx)
	if err != nil {
		return errors.New(app.UserMessage(err))
	}

	q, err := gen.Generate(ctx, spec)
	if err != nil {
		return errors.New(app.UserMessage(err))
	}
	if q.Len() != spec.QuestionCount {
		printWarnings(cmd.ErrOrStderr(), []string{
			fmt.Sprintf("asked for %d questions, the model returned %d", spec.QuestionCount, q.Len()),
		})
	}

	data, err := json.MarshalIndent(q, "", "  ")
	if err != nil {
		return fmt.Errorf("encode quiz: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
