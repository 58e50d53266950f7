package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/learnex/learnex/internal/ui/theme"
)

// OptionLabel returns the letter shown before option i.
func OptionLabel(i int) string {
	if i < 0 || i >= 26 {
		return "?"
	}
	return string(rune('A' + i))
}

// OptionList renders the options of one question with a movable cursor.
// Chosen marks the learner's current answer; -1 means none.
type OptionList struct {
	Options []string
	Cursor  int
	Chosen  int

	// Reveal switches to review colouring: Correct in green, a wrong
	// Chosen in red.
	Reveal  bool
	Correct int
}

// NewOptionList creates a list with the cursor on the chosen option, or on
// the first option when nothing is chosen.
func NewOptionList(options []string, chosen int) OptionList {
	cursor := 0
	if chosen >= 0 && chosen < len(options) {
		cursor = chosen
	}
	return OptionList{Options: options, Cursor: cursor, Chosen: chosen}
}

// Update moves the cursor.
func (l OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return l, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if l.Cursor > 0 {
			l.Cursor--
		}
	case "down", "j":
		if l.Cursor < len(l.Options)-1 {
			l.Cursor++
		}
	}
	return l, nil
}

// View renders one line per option.
func (l OptionList) View(width int) string {
	var b strings.Builder
	for i, opt := range l.Options {
		prefix := "  "
		if i == l.Cursor && !l.Reveal {
			prefix = "▸ "
		}
		mark := "○"
		if i == l.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, mark, OptionLabel(i), opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case l.Reveal && i == l.Correct:
			style = theme.Correct
		case l.Reveal && i == l.Chosen:
			style = theme.Incorrect
		case l.Reveal:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == l.Cursor:
			style = theme.Selected
		case i == l.Chosen:
			style = lipgloss.NewStyle().Foreground(theme.Secondary)
		}
		if width > 4 {
			style = style.MaxWidth(width)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
