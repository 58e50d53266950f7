package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/learnex/learnex/internal/ui/theme"
)

// MenuItem is one choice of a Menu. Key, when set, activates the item
// directly. Disabled items are skipped by the cursor and shown with Reason.
type MenuItem struct {
	Label    string
	Key      string
	Action   func() tea.Cmd
	Disabled bool
	Reason   string
}

// Menu is a vertical list of actions.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu selects the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	m.Selected = m.step(-1, 1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// step returns the next enabled index after from in direction dir, or -1.
func (m Menu) step(from, dir int) int {
	for i := from + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			return i
		}
	}
	return -1
}

// SetLabel renames item i.
func (m *Menu) SetLabel(i int, label string) {
	if i >= 0 && i < len(m.Items) {
		m.Items[i].Label = label
	}
}

func (m Menu) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	item := m.Items[i]
	if item.Disabled || item.Action == nil {
		return nil
	}
	return item.Action()
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if i := m.step(m.Selected, -1); i >= 0 {
			m.Selected = i
		}
	case "down", "j":
		if i := m.step(m.Selected, 1); i >= 0 {
			m.Selected = i
		}
	case "enter":
		return m, m.activate(m.Selected)
	default:
		for i, item := range m.Items {
			if item.Key != "" && item.Key == key && !item.Disabled {
				m.Selected = i
				return m, m.activate(i)
			}
		}
	}
	return m, nil
}

var (
	menuCursor   = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	menuItem     = lipgloss.NewStyle().Foreground(theme.Text)
	menuDisabled = lipgloss.NewStyle().Foreground(theme.TextDim).Faint(true)
	menuKey      = lipgloss.NewStyle().Foreground(theme.Accent)
)

func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		label := item.Label
		if item.Key != "" {
			label += " " + menuKey.Render("("+item.Key+")")
		}
		switch {
		case item.Disabled:
			line := "    " + item.Label
			if item.Reason != "" {
				line += " - " + item.Reason
			}
			b.WriteString(menuDisabled.Render(line))
		case i == m.Selected:
			b.WriteString(menuCursor.Render("  ▸ ") + menuCursor.Render(label))
		default:
			b.WriteString(menuItem.Render("    ") + menuItem.Render(label))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
