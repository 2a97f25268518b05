package quiz

import "fmt"

// Validator checks a normalized question. Validators are optional: the
// default configuration accepts whatever the model produced.
type Validator interface {
	// Name returns a short identifier, e.g. "option-count".
	Name() string

	// Validate returns nil if q passes.
	Validate(q *Question) *ValidationError
}

// ValidationError describes why a question failed a validator.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StrictValidators returns the validators that enforce four options and a
// correct answer naming one of them.
func StrictValidators() []Validator {
	return []Validator{
		&OptionCountValidator{},
		&AnswerLetterValidator{},
	}
}

// OptionCountValidator requires exactly four options.
type OptionCountValidator struct{}

func (v *OptionCountValidator) Name() string { return "option-count" }

func (v *OptionCountValidator) Validate(q *Question) *ValidationError {
	if len(q.Options) != len(Letters) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected %d options, got %d", len(Letters), len(q.Options)),
		}
	}
	return nil
}

// AnswerLetterValidator requires the correct answer to be one of A-D and
// within the options present.
type AnswerLetterValidator struct{}

func (v *AnswerLetterValidator) Name() string { return "answer-letter" }

func (v *AnswerLetterValidator) Validate(q *Question) *ValidationError {
	for i, l := range Letters {
		if q.CorrectAnswer != l {
			continue
		}
		if i >= len(q.Options) {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("correct answer %q has no matching option", l),
			}
		}
		return nil
	}
	return &ValidationError{
		Validator: v.Name(),
		Message:   fmt.Sprintf("correct answer %q is not one of A, B, C, D", q.CorrectAnswer),
	}
}
