package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeQuestions = `{"questions":[
	{"question":"What do plants absorb?","options":["A) Light","B) Sound","C) Heat only","D) Nothing"],"correct_answer":"A","explanation":"Chlorophyll absorbs light."},
	{"question":"Where does it happen?","options":["A) Roots","B) Chloroplasts","C) Stem","D) Seeds"],"correct_answer":"B","explanation":"In chloroplasts."},
	{"question":"What gas is released?","options":["A) CO2","B) N2","C) H2","D) O2"],"correct_answer":"D","explanation":"Oxygen is a by-product."}
]}`

func TestNormalize_StrictJSON(t *testing.T) {
	q, err := Normalize(threeQuestions)
	require.NoError(t, err)
	require.Len(t, q.Questions, 3)

	first := q.Questions[0]
	assert.Equal(t, "What do plants absorb?", first.Text)
	assert.Equal(t, []string{"A) Light", "B) Sound", "C) Heat only", "D) Nothing"}, first.Options)
	assert.Equal(t, "A", first.CorrectAnswer)
	assert.Equal(t, "Chlorophyll absorbs light.", first.Explanation)
	assert.Equal(t, "D", q.Questions[2].CorrectAnswer)
}

func TestNormalize_CountMatchesArrayLength(t *testing.T) {
	for n := 1; n <= MaxQuestions; n++ {
		t.Run(fmt.Sprintf("%d", n), func(t *testing.T) {
			doc := Quiz{}
			for i := 0; i < n; i++ {
				doc.Questions = append(doc.Questions, Question{
					Text:          fmt.Sprintf("Q%d", i),
					Options:       []string{"A) a", "B) b", "C) c", "D) d"},
					CorrectAnswer: Letters[i%4],
				})
			}
			raw, err := json.Marshal(doc)
			require.NoError(t, err)

			q, err := Normalize(string(raw))
			require.NoError(t, err)
			assert.Equal(t, n, q.Len())
		})
	}
}

func TestNormalize_WrappedJSONMatchesDirectParse(t *testing.T) {
	direct, err := Normalize(threeQuestions)
	require.NoError(t, err)

	wrappers := []struct {
		name string
		text string
	}{
		{"markdown fence", "Here you go:\n```json\n" + threeQuestions + "\n```"},
		{"leading prose", "Sure! Here is your quiz. " + threeQuestions},
		{"trailing prose", threeQuestions + "\n\nLet me know if you want more."},
		{"both sides", "Quiz below.\n" + threeQuestions + "\nGood luck!"},
	}

	for _, tt := range wrappers {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Normalize(tt.text)
			require.NoError(t, err)
			assert.Equal(t, direct, q)
		})
	}
}

func TestNormalize_FencedScenario(t *testing.T) {
	raw := "Here you go:\n```json\n{\"questions\":[{\"question\":\"2+2?\",\"options\":[\"A) 3\",\"B) 4\",\"C) 5\",\"D) 6\"],\"correct_answer\":\"B\",\"explanation\":\"Basic sum.\"}]}\n```"

	q, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, q.Questions, 1)
	assert.Equal(t, "B", q.Questions[0].CorrectAnswer)
}

func TestNormalize_Malformed(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantDetail string
		wantNoJSON bool
	}{
		{"empty", "", "could not parse JSON", true},
		{"plain prose", "I cannot write a quiz about that.", "could not parse JSON", true},
		{"only closing brace", "oops } here", "could not parse JSON", true},
		{"reversed braces", "} then {", "could not parse JSON", true},
		{"broken JSON in prose", "Here: {\"questions\": [ }", "could not parse JSON", false},
		{"array at top level", `[{"question":"x"}]`, "response is not a JSON object", false},
		{"missing key", `{"quiz":[]}`, `missing "questions" key`, false},
		{"questions not array", `{"questions":"none"}`, `"questions" is not an array`, false},
		{"questions empty", `{"questions":[]}`, `"questions" is empty`, false},
		{"question not object", `{"questions":["what?"]}`, "question 1", false},
		{"option not string", `{"questions":[{"question":"q","options":[1,2,3,4]}]}`, "question 1", false},
		{"answer not string", `{"questions":[{"question":"q","correct_answer":2}]}`, "question 1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q *Quiz
			var err error
			require.NotPanics(t, func() { q, err = Normalize(tt.raw) })
			assert.Nil(t, q)

			var malformed *MalformedResponseError
			require.True(t, errors.As(err, &malformed), "want *MalformedResponseError, got %T", err)
			assert.Equal(t, tt.wantDetail, malformed.Detail)
			assert.Equal(t, tt.raw, malformed.Raw)
			if tt.wantNoJSON {
				assert.ErrorIs(t, err, errNoJSON)
				assert.Contains(t, err.Error(), "no JSON-like content found")
			}
		})
	}
}

func TestNormalize_AcceptsLooseQuestions(t *testing.T) {
	// Option count and answer letter are not enforced here.
	raw := `{"questions":[{"question":"q","options":["A) only one"],"correct_answer":"E"}]}`

	q, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, q.Questions, 1)
	assert.Equal(t, []string{"A) only one"}, q.Questions[0].Options)
	assert.Equal(t, "E", q.Questions[0].CorrectAnswer)
	assert.Empty(t, q.Questions[0].Explanation)
}

func TestNormalize_RandomGarbageNeverPanics(t *testing.T) {
	inputs := []string{
		"{", "}", "{}", "{{}}", "null", "42", `"questions"`,
		`{"questions":null}`, `{"questions":[null]}`,
		strings.Repeat("{", 100), "```json\n```",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { _, _ = Normalize(in) }, in)
	}
}
