package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizforge/internal/ui/theme"
)

// OptionChosenMsg is emitted when the user picks an option.
type OptionChosenMsg struct {
	Index  int
	Option string
}

// MultiChoice is a single-choice selector for one question.
type MultiChoice struct {
	Question string
	Options  []string

	// Cursor is the highlighted option.
	Cursor int

	// Chosen is the picked option, -1 if none.
	Chosen int

	// Reveal switches to read-only mode highlighting CorrectIndex.
	Reveal       bool
	CorrectIndex int
}

// NewMultiChoice creates a selector. chosen is the previously picked
// option or -1.
func NewMultiChoice(question string, options []string, chosen int) MultiChoice {
	cursor := 0
	if chosen >= 0 && chosen < len(options) {
		cursor = chosen
	}
	return MultiChoice{
		Question:     question,
		Options:      options,
		Cursor:       cursor,
		Chosen:       chosen,
		CorrectIndex: -1,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection. Options can be picked
// with Enter/Space on the cursor or directly by letter or number.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Reveal {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
		return m, nil
	case "enter", "space", " ":
		return m.choose(m.Cursor)
	}

	if len(key) == 1 {
		c := strings.ToLower(key)[0]
		switch {
		case c >= 'a' && c <= 'd':
			return m.choose(int(c - 'a'))
		case c >= '1' && c <= '4':
			return m.choose(int(c - '1'))
		}
	}

	return m, nil
}

func (m MultiChoice) choose(i int) (MultiChoice, tea.Cmd) {
	if i < 0 || i >= len(m.Options) {
		return m, nil
	}
	m.Cursor = i
	m.Chosen = i
	option := m.Options[i]
	return m, func() tea.Msg { return OptionChosenMsg{Index: i, Option: option} }
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor && !m.Reveal {
			prefix = "▸ "
		}
		mark := "○ "
		if i == m.Chosen {
			mark = "● "
		}
		line := prefix + mark + opt

		var style lipgloss.Style
		switch {
		case m.Reveal && i == m.CorrectIndex:
			style = theme.Correct
		case m.Reveal && i == m.Chosen:
			style = theme.Incorrect
		case m.Reveal:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Cursor:
			style = theme.Selected
		case i == m.Chosen:
			style = theme.Chosen
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}
