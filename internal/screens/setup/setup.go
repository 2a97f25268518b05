package setup

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizforge/internal/app"
	"github.com/abhisek/quizforge/internal/quiz"
	"github.com/abhisek/quizforge/internal/router"
	"github.com/abhisek/quizforge/internal/screen"
	"github.com/abhisek/quizforge/internal/screens/history"
	"github.com/abhisek/quizforge/internal/screens/take"
	"github.com/abhisek/quizforge/internal/store"
	"github.com/abhisek/quizforge/internal/ui/components"
	"github.com/abhisek/quizforge/internal/ui/layout"
	"github.com/abhisek/quizforge/internal/ui/theme"
)

const defaultQuestionCount = 5

type field int

const (
	fieldTopic field = iota
	fieldCount
	fieldDifficulty
	fieldGenerate
	fieldHistory
	numFields
)

// generatedMsg carries the result of a background Generate call.
type generatedMsg struct {
	Outcome app.Outcome
}

type spinnerTickMsg time.Time

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SetupScreen collects the topic, question count and difficulty.
type SetupScreen struct {
	ctrl      *app.Controller
	eventRepo store.EventRepo

	topic      components.TextInput
	count      components.TextInput
	difficulty int
	focus      field

	generating bool
	frame      int
	errMsg     string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates a SetupScreen prefilled from prev when it has a topic.
// eventRepo may be nil, which hides history.
func New(ctrl *app.Controller, eventRepo store.EventRepo, prev quiz.Spec) *SetupScreen {
	s := &SetupScreen{
		ctrl:      ctrl,
		eventRepo: eventRepo,
		topic:     components.NewTextInput("e.g. Photosynthesis", false, 100),
		count:     components.NewTextInput(strconv.Itoa(defaultQuestionCount), true, 2),
	}
	s.count.SetValue(strconv.Itoa(defaultQuestionCount))

	if prev.Topic != "" {
		s.topic.SetValue(prev.Topic)
		s.count.SetValue(strconv.Itoa(prev.QuestionCount))
		for i, d := range quiz.Difficulties {
			if d == prev.Difficulty {
				s.difficulty = i
			}
		}
	}
	return s
}

func (s *SetupScreen) Init() tea.Cmd {
	return s.topic.Focus()
}

func (s *SetupScreen) Title() string {
	return "New Quiz"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	if s.generating {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "←→", Description: "Difficulty"},
		{Key: "Enter", Description: "Generate"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		return s.handleGenerated(msg)

	case spinnerTickMsg:
		if !s.generating {
			return s, nil
		}
		s.frame++
		return s, spinnerTick()

	case tea.KeyMsg:
		if s.generating {
			return s, nil
		}
		return s.handleKey(msg)
	}

	return s.forwardToInput(msg)
}

func (s *SetupScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		n := s.fieldLimit()
		return s, s.setFocus((s.focus + 1) % n)
	case "shift+tab", "up":
		n := s.fieldLimit()
		return s, s.setFocus((s.focus + n - 1) % n)
	case "left":
		if s.focus == fieldDifficulty {
			s.difficulty = (s.difficulty + len(quiz.Difficulties) - 1) % len(quiz.Difficulties)
			return s, nil
		}
	case "right":
		if s.focus == fieldDifficulty {
			s.difficulty = (s.difficulty + 1) % len(quiz.Difficulties)
			return s, nil
		}
	case "enter":
		if s.focus == fieldHistory {
			return s, s.openHistory()
		}
		return s, s.generate()
	}

	return s.forwardToInput(msg)
}

func (s *SetupScreen) forwardToInput(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.focus {
	case fieldTopic:
		s.topic, cmd = s.topic.Update(msg)
	case fieldCount:
		s.count, cmd = s.count.Update(msg)
	}
	return s, cmd
}

// fieldLimit is the number of focusable fields; History needs a store.
func (s *SetupScreen) fieldLimit() field {
	if s.eventRepo == nil {
		return fieldHistory
	}
	return numFields
}

func (s *SetupScreen) setFocus(f field) tea.Cmd {
	s.focus = f
	s.topic.Blur()
	s.count.Blur()
	switch f {
	case fieldTopic:
		return s.topic.Focus()
	case fieldCount:
		return s.count.Focus()
	}
	return nil
}

// Spec returns the quiz spec currently entered. A count that does not
// parse is returned as 0 and rejected by validation.
func (s *SetupScreen) Spec() quiz.Spec {
	n, _ := s.count.NumericValue()
	return quiz.Spec{
		Topic:         strings.TrimSpace(s.topic.Value()),
		QuestionCount: n,
		Difficulty:    quiz.Difficulties[s.difficulty],
	}
}

func (s *SetupScreen) generate() tea.Cmd {
	spec := s.Spec()
	if err := spec.Validate(); err != nil {
		s.errMsg = app.UserMessage(&quiz.SpecError{Err: err})
		return nil
	}

	s.errMsg = ""
	s.generating = true
	ctrl := s.ctrl
	return tea.Batch(
		func() tea.Msg {
			return generatedMsg{Outcome: ctrl.Generate(context.Background(), spec)}
		},
		spinnerTick(),
	)
}

func (s *SetupScreen) handleGenerated(msg generatedMsg) (screen.Screen, tea.Cmd) {
	s.generating = false
	if !msg.Outcome.OK() {
		s.errMsg = msg.Outcome.Message
		return s, nil
	}

	ctrl, repo, spec := s.ctrl, s.eventRepo, s.Spec()
	restart := func() screen.Screen { return New(ctrl, repo, spec) }
	next := take.New(ctrl, repo, restart, msg.Outcome.Warnings)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *SetupScreen) openHistory() tea.Cmd {
	if s.eventRepo == nil {
		return nil
	}
	h := history.New(s.eventRepo)
	return func() tea.Msg { return router.PushScreenMsg{Screen: h} }
}

func spinnerTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func (s *SetupScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render("Generate a multiple-choice quiz"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render("Pick a topic, how many questions, and how hard."))
	b.WriteString("\n\n")

	var form strings.Builder
	form.WriteString(s.label("Topic", fieldTopic) + "\n" + s.topic.View() + "\n\n")
	form.WriteString(s.label(fmt.Sprintf("Questions (1-%d)", quiz.MaxQuestions), fieldCount) + "\n" + s.count.View() + "\n\n")
	form.WriteString(s.label("Difficulty", fieldDifficulty) + "\n" + s.renderDifficulty() + "\n")
	form.WriteString(theme.Hint.Render(quiz.Guidance(quiz.Difficulties[s.difficulty])) + "\n\n")

	buttons := components.NewButton("Generate", s.focus == fieldGenerate, nil).View()
	if s.eventRepo != nil {
		buttons = lipgloss.JoinHorizontal(lipgloss.Center, buttons, "  ",
			components.NewButton("History", s.focus == fieldHistory, nil).View())
	}
	form.WriteString(buttons)

	card := theme.Card.Width(min(width-4, 64)).Render(form.String())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	b.WriteString("\n\n")

	switch {
	case s.generating:
		frame := spinnerFrames[s.frame%len(spinnerFrames)]
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.Accent).
			Render(frame + " Asking the model for your quiz..."))
	case s.errMsg != "":
		b.WriteString(theme.ErrorText.Width(width).Align(lipgloss.Center).Render(s.errMsg))
	}

	return b.String()
}

func (s *SetupScreen) label(text string, f field) string {
	if s.focus == f {
		return theme.Label.Render("▸ " + text)
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + text)
}

func (s *SetupScreen) renderDifficulty() string {
	parts := make([]string, len(quiz.Difficulties))
	for i, d := range quiz.Difficulties {
		label := " " + string(d) + " "
		if i == s.difficulty {
			parts[i] = theme.ButtonActive.Padding(0, 1).Render(label)
		} else {
			parts[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Render(label)
		}
	}
	return strings.Join(parts, " ")
}
