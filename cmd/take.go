package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizforge/internal/app"
	"github.com/abhisek/quizforge/internal/quiz"
)

var takeCmd = &cobra.Command{
	Use:   "take",
	Short: "Take a quiz in plain line-based mode (no TUI)",
	Long: `Generate a quiz and answer it question by question on stdin.

Answers are given as a letter (A-D) or a number (1-4). The result is
recorded and emailed exactly as in the full interface.`,
	RunE: runTakeCmd,
}

func init() {
	addSpecFlags(takeCmd)
}

// addSpecFlags registers the flags that describe a quiz request.
func addSpecFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("topic", "t", "", "Quiz topic (required)")
	cmd.Flags().IntP("count", "n", 5, fmt.Sprintf("Number of questions (1-%d)", quiz.MaxQuestions))
	cmd.Flags().StringP("difficulty", "d", string(quiz.DifficultyEasy), "Difficulty: easy, medium or hard")
	_ = cmd.MarkFlagRequired("topic")
}

func specFromFlags(cmd *cobra.Command) (quiz.Spec, error) {
	topic, _ := cmd.Flags().GetString("topic")
	count, _ := cmd.Flags().GetInt("count")
	diffVal, _ := cmd.Flags().GetString("difficulty")

	d, err := quiz.ParseDifficulty(diffVal)
	if err != nil {
		return quiz.Spec{}, err
	}
	spec := quiz.Spec{Topic: strings.TrimSpace(topic), QuestionCount: count, Difficulty: d}
	if err := spec.Validate(); err != nil {
		return quiz.Spec{}, err
	}
	return spec, nil
}

func runTakeCmd(cmd *cobra.Command, args []string) error {
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

	ctrl := newController(cfg, st.EventRepo())
	return runTake(cmd.Context(), ctrl, spec, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

var (
	errInputClosed = errors.New("input closed before the quiz was finished")
	errNoOptions   = errors.New("the model returned a question without options; generate a new quiz")
)

// runTake drives one quiz through ctrl using line-based input.
func runTake(ctx context.Context, ctrl *app.Controller, spec quiz.Spec, in io.Reader, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Fprintf(out, "Generating %d %s questions about %q...\n\n", spec.QuestionCount, spec.Difficulty, spec.Topic)
	res := ctrl.Generate(ctx, spec)
	if !res.OK() {
		return errors.New(res.Message)
	}
	printWarnings(errOut, res.Warnings)

	q := ctrl.Session().Quiz()
	scanner := bufio.NewScanner(in)

	for i, question := range q.Questions {
		fmt.Fprintf(out, "── Question %d/%d ──\n", i+1, q.Len())
		fmt.Fprintln(out, question.Text)
		for _, opt := range question.Options {
			fmt.Fprintf(out, "  %s\n", opt)
		}
		if len(question.Options) == 0 {
			fmt.Fprintln(out, "This question has no options to choose from. Quiz discarded.")
			ctrl.NewQuiz()
			return errNoOptions
		}

		for {
			fmt.Fprint(out, "\nYour answer (A-D): ")
			if !scanner.Scan() {
				fmt.Fprintln(out)
				ctrl.NewQuiz()
				return errInputClosed
			}
			option, ok := pickOption(question, scanner.Text())
			if !ok {
				fmt.Fprintln(out, "Please enter a letter A-D or a number 1-4.")
				continue
			}
			if sel := ctrl.SelectAnswer(i, option); !sel.OK() {
				fmt.Fprintln(out, sel.Message)
				continue
			}
			break
		}
		fmt.Fprintln(out)
	}

	res = ctrl.Submit(ctx)
	if !res.OK() {
		return errors.New(res.Message)
	}
	printWarnings(errOut, res.Warnings)

	rep := res.Report
	fmt.Fprintf(out, "── Results: %s ──\n", rep.String())
	fmt.Fprintln(out, rep.Message)
	fmt.Fprintln(out)
	for i, r := range rep.Results {
		mark := "\033[32m✓\033[0m"
		if !r.Correct {
			mark = "\033[31m✗\033[0m"
		}
		fmt.Fprintf(out, "%s %d. %s\n", mark, i+1, r.Question.Text)
		if !r.Correct {
			fmt.Fprintf(out, "   Your answer: %s  Correct: %s\n", r.Selected, r.Question.CorrectAnswer)
		}
		if r.Question.Explanation != "" {
			fmt.Fprintf(out, "   %s\n", r.Question.Explanation)
		}
	}
	return nil
}

// pickOption maps "b", "B" or "2" to the matching option of q.
func pickOption(q quiz.Question, input string) (string, bool) {
	input = strings.ToUpper(strings.TrimSpace(input))
	if len(input) != 1 {
		return "", false
	}

	idx := -1
	switch c := input[0]; {
	case c >= 'A' && c <= 'Z':
		idx = int(c - 'A')
	case c >= '1' && c <= '9':
		idx = int(c - '1')
	}
	if idx < 0 || idx >= len(q.Options) {
		return "", false
	}
	return q.Options[idx], true
}

func printWarnings(w io.Writer, warnings []string) {
	for _, msg := range warnings {
		fmt.Fprintf(w, "warning: %s\n", msg)
	}
}
