package take

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizforge/internal/app"
	"github.com/abhisek/quizforge/internal/quiz"
	"github.com/abhisek/quizforge/internal/router"
	"github.com/abhisek/quizforge/internal/screen"
	"github.com/abhisek/quizforge/internal/screens/results"
	"github.com/abhisek/quizforge/internal/store"
	"github.com/abhisek/quizforge/internal/ui/components"
	"github.com/abhisek/quizforge/internal/ui/layout"
)

// TakeScreen presents the active quiz one question at a time.
type TakeScreen struct {
	ctrl      *app.Controller
	eventRepo store.EventRepo
	restart   func() screen.Screen

	quiz    *quiz.Quiz
	current int
	choice  components.MultiChoice

	elapsed            time.Duration
	submitting         bool
	showingQuitConfirm bool
	warnings           []string
	errMsg             string
}

var _ screen.Screen = (*TakeScreen)(nil)
var _ screen.KeyHintProvider = (*TakeScreen)(nil)

// New creates a TakeScreen for the controller's active session. restart
// builds the screen shown when the quiz is abandoned or finished.
// warnings from generation are shown above the first question.
func New(ctrl *app.Controller, eventRepo store.EventRepo, restart func() screen.Screen, warnings []string) *TakeScreen {
	s := &TakeScreen{
		ctrl:      ctrl,
		eventRepo: eventRepo,
		restart:   restart,
		quiz:      ctrl.Session().Quiz(),
		warnings:  warnings,
	}
	s.loadQuestion(0)
	return s
}

func (s *TakeScreen) Init() tea.Cmd {
	return timerTick()
}

func (s *TakeScreen) Title() string {
	return "Quiz"
}

func (s *TakeScreen) KeyHints() []layout.KeyHint {
	if s.showingQuitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Discard quiz"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.submitting {
		return nil
	}
	return []layout.KeyHint{
		{Key: "A-D", Description: "Answer"},
		{Key: "←→", Description: "Question"},
		{Key: "S", Description: "Submit"},
		{Key: "Esc", Description: "Quit"},
	}
}

// Current returns the index of the displayed question.
func (s *TakeScreen) Current() int {
	return s.current
}

func (s *TakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		return s.handleTimerTick()

	case components.OptionChosenMsg:
		return s.handleOptionChosen(msg)

	case submittedMsg:
		return s.handleSubmitted(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *TakeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.submitting {
		return s, nil
	}

	if s.showingQuitConfirm {
		switch msg.String() {
		case "y", "Y":
			s.ctrl.NewQuiz()
			next := s.restart()
			return s, func() tea.Msg { return router.ResetScreenMsg{Screen: next} }
		case "n", "N", "esc":
			s.showingQuitConfirm = false
		}
		return s, nil
	}

	switch msg.String() {
	case "esc":
		s.showingQuitConfirm = true
		return s, nil
	case "left", "p":
		s.loadQuestion(s.current - 1)
		return s, nil
	case "right", "n", "tab":
		s.loadQuestion(s.current + 1)
		return s, nil
	case "s", "S":
		return s, s.submit()
	}

	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	return s, cmd
}

func (s *TakeScreen) handleTimerTick() (screen.Screen, tea.Cmd) {
	s.elapsed = s.ctrl.Session().Elapsed()
	return s, timerTick()
}

func (s *TakeScreen) handleOptionChosen(msg components.OptionChosenMsg) (screen.Screen, tea.Cmd) {
	out := s.ctrl.SelectAnswer(s.current, msg.Option)
	if !out.OK() {
		s.errMsg = out.Message
		return s, nil
	}
	s.errMsg = ""

	// Move on to the next question still missing an answer.
	if next, ok := s.nextUnanswered(); ok {
		s.loadQuestion(next)
	}
	return s, nil
}

func (s *TakeScreen) submit() tea.Cmd {
	s.submitting = true
	s.errMsg = ""
	ctrl := s.ctrl
	return func() tea.Msg {
		return submittedMsg{Outcome: ctrl.Submit(context.Background())}
	}
}

func (s *TakeScreen) handleSubmitted(msg submittedMsg) (screen.Screen, tea.Cmd) {
	s.submitting = false
	out := msg.Outcome
	if !out.OK() {
		s.errMsg = out.Message
		if u := s.ctrl.Session().Unanswered(); len(u) > 0 {
			s.loadQuestion(u[0])
		}
		return s, nil
	}

	next := results.New(s.ctrl, s.eventRepo, out.Report, out.Warnings, s.restart)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *TakeScreen) loadQuestion(i int) {
	n := s.quiz.Len()
	if n == 0 || i < 0 || i >= n {
		return
	}
	s.current = i
	q := s.quiz.Questions[i]
	s.choice = components.NewMultiChoice(q.Text, q.Options, s.chosenIndex(i))
}

// chosenIndex maps the recorded answer letter back to an option index.
func (s *TakeScreen) chosenIndex(i int) int {
	letter, ok := s.ctrl.Session().Answer(i)
	if !ok {
		return -1
	}
	for j, opt := range s.quiz.Questions[i].Options {
		if quiz.AnswerLetter(opt) == letter {
			return j
		}
	}
	return -1
}

func (s *TakeScreen) nextUnanswered() (int, bool) {
	n := s.quiz.Len()
	for k := 1; k < n; k++ {
		i := (s.current + k) % n
		if _, ok := s.ctrl.Session().Answer(i); !ok {
			return i, true
		}
	}
	return 0, false
}

func timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
