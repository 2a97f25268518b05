package quiz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		difficulty Difficulty
		guidance   string
	}{
		{DifficultyEasy, "basic definitions, simple concepts, straightforward applications"},
		{DifficultyMedium, "scenario-based problems, relationships between concepts, moderate complexity"},
		{DifficultyHard, "complex scenarios, advanced applications, synthesis of multiple concepts"},
	}

	for _, tt := range tests {
		t.Run(string(tt.difficulty), func(t *testing.T) {
			prompt := BuildPrompt(Spec{Topic: "Photosynthesis", QuestionCount: 3, Difficulty: tt.difficulty})

			assert.Contains(t, prompt, `"Photosynthesis"`)
			assert.Contains(t, prompt, "exactly 3 questions")
			assert.Contains(t, prompt, "Difficulty: "+string(tt.difficulty))
			assert.Contains(t, prompt, tt.guidance)
			assert.Equal(t, tt.guidance, Guidance(tt.difficulty))
		})
	}
}

func TestBuildPrompt_MandatesReplyShape(t *testing.T) {
	prompt := BuildPrompt(Spec{Topic: "Go", QuestionCount: 5, Difficulty: DifficultyMedium})

	for _, key := range []string{`"questions"`, `"question"`, `"options"`, `"correct_answer"`, `"explanation"`} {
		assert.Contains(t, prompt, key)
	}

	// The example reply in the prompt must itself normalize.
	start := strings.Index(prompt, "{")
	q, err := Normalize(prompt[start:])
	assert.NoError(t, err)
	assert.Equal(t, 1, q.Len())
}

func TestBuildPrompt_Pure(t *testing.T) {
	spec := Spec{Topic: "Rust ownership", QuestionCount: 10, Difficulty: DifficultyHard}
	assert.Equal(t, BuildPrompt(spec), BuildPrompt(spec))
}
