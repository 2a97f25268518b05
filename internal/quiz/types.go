package quiz

import (
	"fmt"
	"strings"
)

// MaxQuestions is the largest quiz a user may request.
const MaxQuestions = 10

// Difficulty is the requested difficulty tier.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the tiers in ascending order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty converts user input (case-insensitive) to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy, medium or hard)", s)
}

// Spec is what the user asks for. It is not modified after it is handed
// to the generator.
type Spec struct {
	Topic         string
	QuestionCount int
	Difficulty    Difficulty
}

// Validate checks the spec before any model call is made.
func (s Spec) Validate() error {
	if strings.TrimSpace(s.Topic) == "" {
		return fmt.Errorf("topic is required")
	}
	if s.QuestionCount < 1 || s.QuestionCount > MaxQuestions {
		return fmt.Errorf("question count must be between 1 and %d, got %d", MaxQuestions, s.QuestionCount)
	}
	if _, err := ParseDifficulty(string(s.Difficulty)); err != nil {
		return err
	}
	return nil
}

// Question is a single multiple-choice question.
type Question struct {
	// Text is the question prompt.
	Text string `json:"question"`

	// Options are the answer choices, normally four, each prefixed with
	// its letter ("A) ...").
	Options []string `json:"options"`

	// CorrectAnswer is the letter of the correct option, e.g. "A".
	CorrectAnswer string `json:"correct_answer"`

	// Explanation is shown after submission. May be empty.
	Explanation string `json:"explanation"`
}

// Quiz is an ordered, non-empty list of questions. The number of
// questions may differ from what was requested.
type Quiz struct {
	Questions []Question `json:"questions"`
}

// Len returns the number of questions.
func (q *Quiz) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Questions)
}

// Letters are the option labels in display order.
var Letters = []string{"A", "B", "C", "D"}

// AnswerLetter returns the letter recorded when option is selected: its
// first character.
func AnswerLetter(option string) string {
	option = strings.TrimSpace(option)
	if option == "" {
		return ""
	}
	r := []rune(option)
	return string(r[0])
}
