package take

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizforge/internal/notify"
	"github.com/abhisek/quizforge/internal/ui/components"
	"github.com/abhisek/quizforge/internal/ui/theme"
)

func (s *TakeScreen) View(width, height int) string {
	if s.quiz.Len() == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  No active quiz.")
	}
	if s.showingQuitConfirm {
		return renderQuitConfirm(width, height)
	}

	var b strings.Builder
	sess := s.ctrl.Session()
	total := s.quiz.Len()
	answered := sess.AnsweredCount()

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s · %s", sess.Spec().Topic, sess.Spec().Difficulty))
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Q %d/%d  %s", s.current+1, total, notify.FormatDuration(s.elapsed)))

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 2; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")

	bar := components.NewProgressBar(
		fmt.Sprintf("%d of %d answered", answered, total),
		float64(answered)/float64(total), false, min(width-4, 60))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n")

	for _, w := range s.warnings {
		b.WriteString(theme.WarningText.Width(width).Align(lipgloss.Center).Render("⚠ " + w))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	card := theme.Card.Width(min(width-4, 72)).Render(
		theme.Hint.Render(fmt.Sprintf("Question %d", s.current+1)) + "\n\n" + s.choice.View())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderDots()))
	b.WriteString("\n\n")

	switch {
	case s.submitting:
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.Accent).Render("Scoring your answers..."))
	case s.errMsg != "":
		b.WriteString(theme.ErrorText.Width(width).Align(lipgloss.Center).Render(s.errMsg))
	case answered == total:
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.Success).Render("All answered. Press S to submit."))
	}

	return b.String()
}

// renderDots shows one marker per question: filled when answered,
// bracketed for the current one.
func (s *TakeScreen) renderDots() string {
	sess := s.ctrl.Session()
	parts := make([]string, s.quiz.Len())
	for i := range parts {
		mark := "○"
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if _, ok := sess.Answer(i); ok {
			mark = "●"
			style = style.Foreground(theme.Secondary)
		}
		if i == s.current {
			mark = "[" + mark + "]"
			style = style.Bold(true).Foreground(theme.Primary)
		}
		parts[i] = style.Render(mark)
	}
	return strings.Join(parts, " ")
}

func renderQuitConfirm(width, height int) string {
	msg := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render("Discard this quiz?"),
		"",
		theme.Hint.Render("Your answers will be lost and nothing is recorded."),
		"",
		theme.Body.Render("Y to discard, N to keep going"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
}
