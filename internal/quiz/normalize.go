package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// errNoJSON is the root cause when a reply holds nothing brace-delimited.
var errNoJSON = errors.New("no JSON-like content found")

// MalformedResponseError is returned when the model's reply cannot be
// turned into a Quiz.
type MalformedResponseError struct {
	// Detail is a short, user-facing description of what was wrong.
	Detail string

	// Raw is the reply text as received.
	Raw string

	// Err is the root cause, if any.
	Err error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed model response: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("malformed model response: %s", e.Detail)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Normalize turns a raw model reply into a Quiz. It accepts a bare JSON
// object, or one wrapped in prose or markdown fences. Per-question fields
// are taken as given; see StrictValidators for tighter checks.
//
// All failures are *MalformedResponseError.
func Normalize(raw string) (*Quiz, error) {
	doc, err := parseDocument(raw)
	if err != nil {
		return nil, &MalformedResponseError{Detail: "could not parse JSON", Raw: raw, Err: err}
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, &MalformedResponseError{Detail: "response is not a JSON object", Raw: raw}
	}

	rawQuestions, ok := obj["questions"]
	if !ok {
		return nil, &MalformedResponseError{Detail: `missing "questions" key`, Raw: raw}
	}

	items, ok := rawQuestions.([]any)
	if !ok {
		return nil, &MalformedResponseError{Detail: `"questions" is not an array`, Raw: raw}
	}
	if len(items) == 0 {
		return nil, &MalformedResponseError{Detail: `"questions" is empty`, Raw: raw}
	}

	q := &Quiz{Questions: make([]Question, 0, len(items))}
	for i, item := range items {
		question, err := coerceQuestion(item)
		if err != nil {
			return nil, &MalformedResponseError{
				Detail: fmt.Sprintf("question %d", i+1),
				Raw:    raw,
				Err:    err,
			}
		}
		q.Questions = append(q.Questions, question)
	}

	return q, nil
}

// parseDocument parses the full text, falling back to the span from the
// first '{' to the last '}'.
func parseDocument(raw string) (any, error) {
	var doc any
	fullErr := json.Unmarshal([]byte(raw), &doc)
	if fullErr == nil {
		return doc, nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, errNoJSON
	}

	if err := json.Unmarshal([]byte(raw[start:end+1]), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// coerceQuestion maps one decoded array element onto a Question. Missing
// fields stay empty; fields of the wrong JSON type are an error.
func coerceQuestion(item any) (Question, error) {
	m, ok := item.(map[string]any)
	if !ok {
		return Question{}, fmt.Errorf("not a JSON object")
	}

	var (
		q   Question
		err error
	)
	if q.Text, err = stringField(m, "question"); err != nil {
		return Question{}, err
	}
	if q.CorrectAnswer, err = stringField(m, "correct_answer"); err != nil {
		return Question{}, err
	}
	if q.Explanation, err = stringField(m, "explanation"); err != nil {
		return Question{}, err
	}

	if v, ok := m["options"]; ok && v != nil {
		opts, ok := v.([]any)
		if !ok {
			return Question{}, fmt.Errorf(`"options" is not an array`)
		}
		for j, o := range opts {
			s, ok := o.(string)
			if !ok {
				return Question{}, fmt.Errorf("option %d is not a string", j+1)
			}
			q.Options = append(q.Options, s)
		}
	}

	return q, nil
}

func stringField(m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%q is not a string", key)
	}
	return s, nil
}
