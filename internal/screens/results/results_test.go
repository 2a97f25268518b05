package results

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizforge/internal/app"
	"github.com/abhisek/quizforge/internal/quiz"
	"github.com/abhisek/quizforge/internal/router"
	"github.com/abhisek/quizforge/internal/screen"
	"github.com/abhisek/quizforge/internal/session"
)

type fakeGenerator struct{ quiz *quiz.Quiz }

func (g fakeGenerator) Generate(context.Context, quiz.Spec) (*quiz.Quiz, error) {
	return g.quiz, nil
}

type stubScreen struct{ screen.Screen }

func (stubScreen) Init() tea.Cmd { return nil }

func newResultsScreen(t *testing.T, warnings ...string) (*ResultsScreen, *app.Controller) {
	t.Helper()
	q := &quiz.Quiz{Questions: []quiz.Question{
		{Text: "2+2?", Options: []string{"A) 3", "B) 4", "C) 5", "D) 6"}, CorrectAnswer: "B", Explanation: "Two pairs."},
		{Text: "3+3?", Options: []string{"A) 6", "B) 7", "C) 8", "D) 9"}, CorrectAnswer: "A"},
	}}
	ctrl := app.NewController(app.StaticGenerator(fakeGenerator{quiz: q}), nil)
	ctx := context.Background()

	if out := ctrl.Generate(ctx, quiz.Spec{Topic: "Sums", QuestionCount: 2, Difficulty: quiz.DifficultyMedium}); !out.OK() {
		t.Fatalf("Generate: %s", out.Message)
	}
	ctrl.SelectAnswer(0, "B) 4")
	ctrl.SelectAnswer(1, "C) 8")
	out := ctrl.Submit(ctx)
	if !out.OK() {
		t.Fatalf("Submit: %s", out.Message)
	}

	return New(ctrl, nil, out.Report, warnings, func() screen.Screen { return stubScreen{} }), ctrl
}

func TestResultsScreen_Title(t *testing.T) {
	s, _ := newResultsScreen(t)
	if s.Title() != "Results" {
		t.Errorf("Title = %q, want %q", s.Title(), "Results")
	}
}

func TestResultsScreen_Display(t *testing.T) {
	s, _ := newResultsScreen(t, "email report not sent: relay unreachable")
	view := s.View(100, 40)

	for _, want := range []string{
		"50.0%",
		"1 of 2 correct",
		"Keep practicing",
		"Your answer: C",
		"A) 6",
		"Two pairs.",
		"email report not sent",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestResultsScreen_ScrollClamped(t *testing.T) {
	s, _ := newResultsScreen(t)
	for range 50 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyPgDown})
	}
	s.View(100, 40)
	if s.offset != 0 {
		t.Errorf("offset = %d, want 0 when everything fits", s.offset)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyPgUp})
	if s.offset != 0 {
		t.Errorf("offset = %d, want 0", s.offset)
	}
}

func TestResultsScreen_NewQuizResets(t *testing.T) {
	s, ctrl := newResultsScreen(t)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command")
	}
	if _, ok := cmd().(router.ResetScreenMsg); !ok {
		t.Error("expected ResetScreenMsg")
	}
	if ctrl.Session().Phase() != session.PhaseEmpty {
		t.Errorf("Phase = %s, want empty", ctrl.Session().Phase())
	}
}

func TestResultsScreen_HistoryDisabledWithoutRepo(t *testing.T) {
	s, _ := newResultsScreen(t)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.menu.Selected != 2 {
		t.Errorf("Selected = %d, want Quit (history disabled)", s.menu.Selected)
	}
}
