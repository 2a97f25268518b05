package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/abhisek/quizforge/internal/llm"
	"github.com/abhisek/quizforge/internal/notify"
	"github.com/abhisek/quizforge/internal/quiz"
	"github.com/abhisek/quizforge/internal/report"
	"github.com/abhisek/quizforge/internal/session"
)

// GeneratorFactory builds the quiz generator on first use. It returns
// *llm.ErrConfiguration when the model credential is missing.
type GeneratorFactory func(ctx context.Context) (quiz.Generator, error)

// StaticGenerator wraps an existing generator as a factory.
func StaticGenerator(g quiz.Generator) GeneratorFactory {
	return func(context.Context) (quiz.Generator, error) { return g, nil }
}

// Outcome is the result of a user action. Err is nil on success; Message
// is what to show the user for it.
type Outcome struct {
	Err      error
	Message  string
	Warnings []string

	// Report is set by a successful Submit.
	Report *report.Report
}

// OK reports whether the action succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

func failed(err error) Outcome {
	return Outcome{Err: err, Message: UserMessage(err)}
}

// Controller owns one quiz session and maps every user action onto it.
// No error escapes as a panic or leaves the session half-changed: on any
// failure the session keeps the phase it had.
type Controller struct {
	factory  GeneratorFactory
	reporter *report.Reporter
	session  *session.Session

	mu        sync.Mutex
	generator quiz.Generator
}

// NewController creates a Controller. A nil reporter scores without
// recording or notifying.
func NewController(factory GeneratorFactory, reporter *report.Reporter, opts ...session.Option) *Controller {
	if reporter == nil {
		reporter = report.NewReporter(nil, nil)
	}
	return &Controller{
		factory:  factory,
		reporter: reporter,
		session:  session.New(opts...),
	}
}

// Session exposes the session for rendering. Callers must not mutate it
// directly.
func (c *Controller) Session() *session.Session {
	return c.session
}

func (c *Controller) getGenerator(ctx context.Context) (quiz.Generator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generator != nil {
		return c.generator, nil
	}
	g, err := c.factory(ctx)
	if err != nil {
		return nil, err
	}
	c.generator = g
	return g, nil
}

// Generate asks the model for a quiz and starts the session with it. It
// is allowed when no quiz is in progress; a submitted quiz is replaced.
func (c *Controller) Generate(ctx context.Context, spec quiz.Spec) Outcome {
	if c.session.Phase() == session.PhaseActive {
		return failed(&session.PhaseError{Op: "generate a new quiz", Phase: session.PhaseActive})
	}
	if err := spec.Validate(); err != nil {
		return failed(&quiz.SpecError{Err: err})
	}

	gen, err := c.getGenerator(ctx)
	if err != nil {
		return failed(err)
	}

	q, err := gen.Generate(ctx, spec)
	if err != nil {
		return failed(err)
	}

	if err := c.session.Start(q, spec); err != nil {
		return failed(err)
	}

	var warnings []string
	if n := q.Len(); n != spec.QuestionCount {
		warnings = append(warnings, fmt.Sprintf("asked for %d questions, the model returned %d", spec.QuestionCount, n))
	}
	return Outcome{Warnings: warnings}
}

// SelectAnswer records option as the answer to question i.
func (c *Controller) SelectAnswer(i int, option string) Outcome {
	if err := c.session.SelectAnswer(i, option); err != nil {
		return failed(err)
	}
	return Outcome{}
}

// Submit freezes the answers and produces the report. Email and audit log
// failures come back as warnings alongside the report.
func (c *Controller) Submit(ctx context.Context) Outcome {
	if err := c.session.Submit(); err != nil {
		return failed(err)
	}

	rep, warnings, err := c.reporter.Report(ctx, c.session)
	if err != nil {
		return failed(err)
	}
	return Outcome{Report: rep, Warnings: warnings}
}

// NewQuiz discards the current session.
func (c *Controller) NewQuiz() Outcome {
	c.session.Reset()
	return Outcome{}
}

// UserMessage renders err for display.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		cfgErr     *llm.ErrConfiguration
		specErr    *quiz.SpecError
		callErr    *quiz.ModelCallError
		malformed  *quiz.MalformedResponseError
		validation *session.ValidationError
		phaseErr   *session.PhaseError
		notifyErr  *notify.NotificationError
	)

	switch {
	case errors.As(err, &cfgErr):
		if cfgErr.Reason == "" {
			return fmt.Sprintf("Configuration error: %s is not set.", cfgErr.Setting)
		}
		return fmt.Sprintf("Configuration error: %s: %s.", cfgErr.Setting, cfgErr.Reason)
	case errors.As(err, &specErr):
		return fmt.Sprintf("Invalid quiz settings: %v.", specErr.Err)
	case errors.As(err, &callErr):
		return modelCallMessage(callErr)
	case errors.As(err, &malformed):
		return fmt.Sprintf("The model's reply could not be read as a quiz (%s). Try generating again.", malformedDetail(malformed))
	case errors.As(err, &validation):
		return validationMessage(validation)
	case errors.As(err, &phaseErr):
		return fmt.Sprintf("Not now: %v.", phaseErr)
	case errors.As(err, &notifyErr):
		return fmt.Sprintf("Email report not sent: %v.", notifyErr.Err)
	}
	return err.Error()
}

func modelCallMessage(e *quiz.ModelCallError) string {
	var (
		rateErr  *llm.ErrRateLimit
		authErr  *llm.ErrAuth
		tokenErr *llm.ErrMaxTokensExceeded
	)
	switch {
	case errors.As(e, &rateErr):
		return fmt.Sprintf("The %s API is rate limiting requests. Wait a moment and try again.", e.Provider)
	case errors.As(e, &authErr):
		return fmt.Sprintf("The %s API rejected the API key. Check your credentials.", e.Provider)
	case errors.As(e, &tokenErr):
		return "The model ran out of tokens before finishing the quiz. Ask for fewer questions."
	}
	return fmt.Sprintf("Could not generate the quiz: %v", e.Err)
}

func malformedDetail(e *quiz.MalformedResponseError) string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

func validationMessage(e *session.ValidationError) string {
	if len(e.Unanswered) == 0 {
		return e.Message
	}
	nums := make([]string, len(e.Unanswered))
	for i, idx := range e.Unanswered {
		nums[i] = strconv.Itoa(idx + 1)
	}
	return fmt.Sprintf("%s (unanswered: %s)", e.Message, strings.Join(nums, ", "))
}
