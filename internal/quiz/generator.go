package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/quizforge/internal/llm"
)

// Purpose labels quiz generation calls in the audit log.
const Purpose = "quiz-gen"

// Generator produces quizzes.
type Generator interface {
	// Generate asks the model for a quiz matching spec. Errors are
	// *SpecError, *ModelCallError or *MalformedResponseError.
	Generate(ctx context.Context, spec Spec) (*Quiz, error)
}

// SpecError is returned when the requested spec is invalid. No model call
// is made.
type SpecError struct {
	Err error
}

func (e *SpecError) Error() string { return fmt.Sprintf("invalid quiz request: %v", e.Err) }

func (e *SpecError) Unwrap() error { return e.Err }

// ModelCallError is returned when the model call itself fails.
type ModelCallError struct {
	Provider string
	Err      error
}

func (e *ModelCallError) Error() string {
	return fmt.Sprintf("model call to %s failed: %v", e.Provider, e.Err)
}

func (e *ModelCallError) Unwrap() error { return e.Err }

// LLMGenerator implements Generator using an llm.Provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// Generate builds the prompt, calls the model once and normalizes the reply.
func (g *LLMGenerator) Generate(ctx context.Context, spec Spec) (*Quiz, error) {
	if err := spec.Validate(); err != nil {
		return nil, &SpecError{Err: err}
	}

	ctx = llm.WithPurpose(ctx, Purpose)

	req := llm.Request{
		System: SystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: BuildPrompt(spec)},
		},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}
	if g.config.StructuredOutput {
		req.Schema = QuizSchema
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		var invalid *llm.ErrInvalidResponse
		if errors.As(err, &invalid) {
			return nil, &MalformedResponseError{
				Detail: "reply does not match the quiz schema",
				Raw:    string(invalid.Content),
				Err:    err,
			}
		}
		return nil, &ModelCallError{Provider: g.provider.Name(), Err: err}
	}

	q, err := Normalize(resp.Text())
	if err != nil {
		return nil, err
	}

	for i := range q.Questions {
		for _, v := range g.config.Validators {
			if verr := v.Validate(&q.Questions[i]); verr != nil {
				return nil, &MalformedResponseError{
					Detail: fmt.Sprintf("question %d", i+1),
					Raw:    resp.Text(),
					Err:    verr,
				}
			}
		}
	}

	return q, nil
}
