package quiz

import (
	"fmt"
	"strings"
)

// SystemPrompt frames the model as a quiz author.
const SystemPrompt = `You are an expert educator who writes clear, accurate multiple-choice quizzes.

Rules:
- Every question has exactly 4 options, labelled "A) ", "B) ", "C) " and "D) ".
- Exactly one option is correct.
- correct_answer is the letter of the correct option only.
- The explanation says briefly why the correct option is right.
- Reply with the JSON object only. No prose, no markdown.`

// guidance describes what each tier should test.
var guidance = map[Difficulty]string{
	DifficultyEasy:   "basic definitions, simple concepts, straightforward applications",
	DifficultyMedium: "scenario-based problems, relationships between concepts, moderate complexity",
	DifficultyHard:   "complex scenarios, advanced applications, synthesis of multiple concepts",
}

// Guidance returns the focus phrase for a difficulty tier.
func Guidance(d Difficulty) string {
	return guidance[d]
}

const replyShape = `{
  "questions": [
    {
      "question": "question text",
      "options": ["A) option", "B) option", "C) option", "D) option"],
      "correct_answer": "A",
      "explanation": "why the answer is correct"
    }
  ]
}`

// BuildPrompt returns the user message asking for a quiz matching spec.
func BuildPrompt(spec Spec) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a multiple-choice quiz about %q with exactly %d questions.\n", spec.Topic, spec.QuestionCount)
	fmt.Fprintf(&b, "Difficulty: %s. Focus on %s.\n", spec.Difficulty, Guidance(spec.Difficulty))
	b.WriteString("\nEach question must have 4 options and one correct answer (A, B, C or D).\n")
	b.WriteString("Respond with a JSON object in exactly this format:\n")
	b.WriteString(replyShape)

	return b.String()
}
