package results

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizforge/internal/app"
	"github.com/abhisek/quizforge/internal/notify"
	"github.com/abhisek/quizforge/internal/quiz"
	"github.com/abhisek/quizforge/internal/report"
	"github.com/abhisek/quizforge/internal/router"
	"github.com/abhisek/quizforge/internal/screen"
	"github.com/abhisek/quizforge/internal/screens/history"
	"github.com/abhisek/quizforge/internal/store"
	"github.com/abhisek/quizforge/internal/ui/components"
	"github.com/abhisek/quizforge/internal/ui/layout"
	"github.com/abhisek/quizforge/internal/ui/theme"
)

// headerLines is the fixed part of the view above the review list.
const headerLines = 9

// ResultsScreen shows the report for a submitted quiz.
type ResultsScreen struct {
	ctrl      *app.Controller
	eventRepo store.EventRepo
	restart   func() screen.Screen

	report   *report.Report
	warnings []string
	menu     components.Menu
	offset   int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen. restart builds the screen for a new quiz.
func New(ctrl *app.Controller, eventRepo store.EventRepo, rep *report.Report, warnings []string, restart func() screen.Screen) *ResultsScreen {
	s := &ResultsScreen{
		ctrl:      ctrl,
		eventRepo: eventRepo,
		restart:   restart,
		report:    rep,
		warnings:  warnings,
	}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "New quiz", Action: s.newQuiz},
		{Label: "History", Action: s.openHistory, Disabled: eventRepo == nil},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return s
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Menu"},
		{Key: "PgUp/PgDn", Description: "Scroll review"},
		{Key: "Enter", Description: "Select"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "pgdown", "ctrl+d", "]":
		s.offset++
		return s, nil
	case "pgup", "ctrl+u", "[":
		if s.offset > 0 {
			s.offset--
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *ResultsScreen) newQuiz() tea.Cmd {
	s.ctrl.NewQuiz()
	next := s.restart()
	return func() tea.Msg { return router.ResetScreenMsg{Screen: next} }
}

func (s *ResultsScreen) openHistory() tea.Cmd {
	h := history.New(s.eventRepo)
	return func() tea.Msg { return router.PushScreenMsg{Screen: h} }
}

func (s *ResultsScreen) View(width, height int) string {
	r := s.report
	if r == nil {
		return ""
	}

	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(bandColor(r.Score)).Bold(true), r.Message))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text).Bold(true),
		fmt.Sprintf("%.1f%%   %d of %d correct", r.Score, r.CorrectCount, r.TotalCount)))
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("%s · %s   Time %s   Pace %s",
			r.Spec.Topic, r.Spec.Difficulty, notify.FormatDuration(r.TotalTime), r.RateString())))
	for _, w := range s.warnings {
		b.WriteString(center(theme.WarningText, "⚠ "+w))
	}
	b.WriteString("\n")

	menu := s.menu.View()
	review := s.reviewLines(min(width-4, 76))

	// Clip the review to the space left after the header and menu.
	avail := height - headerLines - len(s.warnings) - lipgloss.Height(menu) - 1
	if avail < 3 {
		avail = 3
	}
	if maxOffset := max(len(review)-avail, 0); s.offset > maxOffset {
		s.offset = maxOffset
	}
	end := min(s.offset+avail, len(review))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		strings.Join(review[s.offset:end], "\n")))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, menu))
	return b.String()
}

// reviewLines renders every question with the picked and correct
// answers, one slice entry per display line.
func (s *ResultsScreen) reviewLines(width int) []string {
	var lines []string
	for i, qr := range s.report.Results {
		mark, style := "✓", theme.Correct
		if !qr.Correct {
			mark, style = "✗", theme.Incorrect
		}
		text := style.Render(fmt.Sprintf("%s %d. ", mark, i+1)) + theme.Body.Render(qr.Question.Text)
		lines = append(lines, wrap(text, width)...)

		picked := qr.Selected
		if picked == "" {
			picked = "-"
		}
		lines = append(lines, theme.Hint.Render(fmt.Sprintf("     Your answer: %s   Correct: %s",
			picked, optionFor(qr.Question, qr.Question.CorrectAnswer))))
		if qr.Question.Explanation != "" {
			lines = append(lines, wrap(theme.Hint.Render("     "+qr.Question.Explanation), width)...)
		}
		lines = append(lines, "")
	}
	return lines
}

// optionFor returns the full option text labelled by letter, or the
// letter itself when no option matches.
func optionFor(q quiz.Question, letter string) string {
	for _, opt := range q.Options {
		if quiz.AnswerLetter(opt) == letter {
			return opt
		}
	}
	return letter
}

func wrap(text string, width int) []string {
	return strings.Split(lipgloss.NewStyle().Width(width).Render(text), "\n")
}

func bandColor(score float64) color.Color {
	switch {
	case score >= report.ExcellentThreshold:
		return theme.Success
	case score >= report.PassThreshold:
		return theme.Accent
	default:
		return theme.Error
	}
}
