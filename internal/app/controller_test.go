package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizforge/internal/llm"
	"github.com/abhisek/quizforge/internal/notify"
	"github.com/abhisek/quizforge/internal/quiz"
	"github.com/abhisek/quizforge/internal/report"
	"github.com/abhisek/quizforge/internal/session"
)

const photosynthesisQuiz = `Here you go:
` + "```json" + `
{"questions":[
 {"question":"What do plants absorb?","options":["A) Light","B) Sound","C) Heat","D) Nothing"],"correct_answer":"A","explanation":"Light."},
 {"question":"Where does it happen?","options":["A) Roots","B) Chloroplasts","C) Stem","D) Seeds"],"correct_answer":"B","explanation":"Chloroplasts."},
 {"question":"What gas is released?","options":["A) CO2","B) N2","C) H2","D) O2"],"correct_answer":"D","explanation":"Oxygen."}
]}
` + "```"

func photosynthesis() quiz.Spec {
	return quiz.Spec{Topic: "Photosynthesis", QuestionCount: 3, Difficulty: quiz.DifficultyEasy}
}

type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, notify.Summary) error {
	return &notify.NotificationError{Op: "send email", Err: errors.New("relay unreachable")}
}

func newTestController(t *testing.T, responses ...llm.MockResponse) (*Controller, *llm.MockProvider) {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	c := NewController(StaticGenerator(quiz.New(mock, quiz.DefaultConfig())), nil)
	return c, mock
}

func TestGenerate_Success(t *testing.T) {
	c, mock := newTestController(t, llm.MockText(photosynthesisQuiz))

	out := c.Generate(context.Background(), photosynthesis())

	require.True(t, out.OK(), out.Message)
	assert.Empty(t, out.Warnings)
	assert.Equal(t, session.PhaseActive, c.Session().Phase())
	assert.Equal(t, 3, c.Session().Quiz().Len())
	assert.Equal(t, 1, mock.CallCount())
}

func TestGenerate_CountMismatchWarns(t *testing.T) {
	c, _ := newTestController(t, llm.MockText(photosynthesisQuiz))
	spec := photosynthesis()
	spec.QuestionCount = 5

	out := c.Generate(context.Background(), spec)

	require.True(t, out.OK())
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "returned 3")
}

func TestGenerate_Failures(t *testing.T) {
	tests := []struct {
		name        string
		factory     GeneratorFactory
		spec        quiz.Spec
		wantMessage string
		check       func(t *testing.T, err error)
	}{
		{
			name: "missing credential",
			factory: func(context.Context) (quiz.Generator, error) {
				return nil, &llm.ErrConfiguration{Setting: "QUIZFORGE_GROQ_API_KEY"}
			},
			spec:        photosynthesis(),
			wantMessage: "QUIZFORGE_GROQ_API_KEY is not set",
			check: func(t *testing.T, err error) {
				var e *llm.ErrConfiguration
				assert.True(t, errors.As(err, &e))
			},
		},
		{
			name:        "rate limited",
			factory:     StaticGenerator(quiz.New(llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}}), quiz.DefaultConfig())),
			spec:        photosynthesis(),
			wantMessage: "rate limiting",
			check: func(t *testing.T, err error) {
				var e *quiz.ModelCallError
				assert.True(t, errors.As(err, &e))
			},
		},
		{
			name:        "auth rejected",
			factory:     StaticGenerator(quiz.New(llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrAuth{Err: errors.New("401")}}), quiz.DefaultConfig())),
			spec:        photosynthesis(),
			wantMessage: "rejected the API key",
		},
		{
			name:        "network failure",
			factory:     StaticGenerator(quiz.New(llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("dial tcp: timeout")}}), quiz.DefaultConfig())),
			spec:        photosynthesis(),
			wantMessage: "dial tcp: timeout",
		},
		{
			name:        "malformed reply",
			factory:     StaticGenerator(quiz.New(llm.NewMockProvider(llm.MockText("I'd rather not.")), quiz.DefaultConfig())),
			spec:        photosynthesis(),
			wantMessage: "no JSON-like content found",
			check: func(t *testing.T, err error) {
				var e *quiz.MalformedResponseError
				assert.True(t, errors.As(err, &e))
			},
		},
		{
			name: "invalid spec",
			factory: func(context.Context) (quiz.Generator, error) {
				t.Fatal("factory must not be called for an invalid spec")
				return nil, nil
			},
			spec:        quiz.Spec{Topic: "Go", QuestionCount: 20, Difficulty: quiz.DifficultyEasy},
			wantMessage: "between 1 and 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(tt.factory, nil)

			var out Outcome
			require.NotPanics(t, func() { out = c.Generate(context.Background(), tt.spec) })

			require.False(t, out.OK())
			assert.Contains(t, out.Message, tt.wantMessage)
			assert.Equal(t, session.PhaseEmpty, c.Session().Phase())
			assert.Nil(t, c.Session().Quiz())
			if tt.check != nil {
				tt.check(t, out.Err)
			}
		})
	}
}

func TestGenerate_FactoryRetriedAfterConfigurationError(t *testing.T) {
	calls := 0
	mock := llm.NewMockProvider(llm.MockText(photosynthesisQuiz))
	c := NewController(func(context.Context) (quiz.Generator, error) {
		calls++
		if calls == 1 {
			return nil, &llm.ErrConfiguration{Setting: "QUIZFORGE_GROQ_API_KEY"}
		}
		return quiz.New(mock, quiz.DefaultConfig()), nil
	}, nil)

	assert.False(t, c.Generate(context.Background(), photosynthesis()).OK())
	assert.True(t, c.Generate(context.Background(), photosynthesis()).OK())
	assert.Equal(t, 2, calls)
}

func TestGenerate_RejectedWhileActive(t *testing.T) {
	c, mock := newTestController(t, llm.MockText(photosynthesisQuiz), llm.MockText(photosynthesisQuiz))
	require.True(t, c.Generate(context.Background(), photosynthesis()).OK())

	out := c.Generate(context.Background(), photosynthesis())

	assert.False(t, out.OK())
	assert.Equal(t, 1, mock.CallCount())
	assert.Equal(t, session.PhaseActive, c.Session().Phase())
}

func TestSubmit_Incomplete(t *testing.T) {
	c, _ := newTestController(t, llm.MockText(photosynthesisQuiz))
	require.True(t, c.Generate(context.Background(), photosynthesis()).OK())
	require.True(t, c.SelectAnswer(0, "A) Light").OK())
	require.True(t, c.SelectAnswer(1, "B) Chloroplasts").OK())

	out := c.Submit(context.Background())

	require.False(t, out.OK())
	assert.Nil(t, out.Report)
	assert.Contains(t, out.Message, "answer all questions before submitting")
	assert.Contains(t, out.Message, "unanswered: 3")
	assert.Equal(t, session.PhaseActive, c.Session().Phase())
}

func TestSelectAnswer_OutOfRange(t *testing.T) {
	c, _ := newTestController(t, llm.MockText(photosynthesisQuiz))
	require.True(t, c.Generate(context.Background(), photosynthesis()).OK())

	out := c.SelectAnswer(7, "A) x")
	assert.False(t, out.OK())
	assert.Zero(t, c.Session().AnsweredCount())
}

func TestFullFlow_NotificationFailure(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	now := start
	mock := llm.NewMockProvider(llm.MockText(photosynthesisQuiz))
	c := NewController(
		StaticGenerator(quiz.New(mock, quiz.DefaultConfig())),
		report.NewReporter(nil, failingNotifier{}),
		session.WithClock(func() time.Time { return now }),
	)

	require.True(t, c.Generate(context.Background(), photosynthesis()).OK())
	for i, opt := range []string{"A) Light", "B) Chloroplasts", "C) H2"} {
		require.True(t, c.SelectAnswer(i, opt).OK())
	}
	now = start.Add(time.Minute)

	out := c.Submit(context.Background())

	require.True(t, out.OK(), out.Message)
	require.NotNil(t, out.Report)
	assert.Equal(t, 2, out.Report.CorrectCount)
	assert.InDelta(t, 66.7, out.Report.Score, 0.05)
	assert.Equal(t, time.Minute, out.Report.TotalTime)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "relay unreachable")
	assert.Equal(t, session.PhaseSubmitted, c.Session().Phase())

	require.True(t, c.NewQuiz().OK())
	assert.Equal(t, session.PhaseEmpty, c.Session().Phase())
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Equal(t, "boom", UserMessage(errors.New("boom")))
	assert.Contains(t, UserMessage(&llm.ErrConfiguration{Setting: "smtp", Reason: "incomplete"}), "smtp: incomplete")
	assert.Contains(t, UserMessage(&notify.NotificationError{Op: "send", Err: errors.New("timeout")}), "timeout")
	assert.Contains(t, UserMessage(&quiz.ModelCallError{Provider: "groq", Err: &llm.ErrMaxTokensExceeded{}}), "fewer questions")
}
