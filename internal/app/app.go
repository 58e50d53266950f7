package app

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/learnex/learnex/internal/assessment"
	"github.com/learnex/learnex/internal/router"
	"github.com/learnex/learnex/internal/screen"
	"github.com/learnex/learnex/internal/ui/layout"
	"github.com/learnex/learnex/internal/ui/theme"
)

var _ assessment.ExitGuard = (*Guard)(nil)

// Options configures the root model.
type Options struct {
	Root  screen.Screen
	Guard *Guard
	Log   zerolog.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	guard  *Guard
	log    zerolog.Logger
	width  int
	height int

	// confirmLeave is set while the leave-test dialog is open.
	confirmLeave bool
}

func newAppModel(opts Options) AppModel {
	return AppModel{
		router: router.New(opts.Root),
		guard:  opts.Guard,
		log:    opts.Log,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if m.confirmLeave {
			switch msg.String() {
			case "y", "Y":
				return m.quit()
			case "n", "N", "esc":
				m.confirmLeave = false
			}
			return m, nil
		}

		if msg.String() == "ctrl+c" {
			if m.guard.Armed() {
				m.confirmLeave = true
				return m, nil
			}
			return m.quit()
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) quit() (tea.Model, tea.Cmd) {
	m.log.Info().Bool("guarded", m.guard.Armed()).Msg("leaving")
	m.confirmLeave = false
	m.router.CloseAll()
	return m, tea.Quit
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.HeaderStatus()
		}
	}
	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.keyHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	var content string
	if m.confirmLeave {
		content = renderLeaveConfirm(m.width, contentHeight)
	} else {
		content = m.router.View(m.width, contentHeight)
	}

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m AppModel) keyHints(active screen.Screen) []layout.KeyHint {
	if m.confirmLeave {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave"},
			{Key: "N", Description: "Stay"},
		}
	}
	if kp, ok := active.(screen.KeyHintProvider); ok {
		if hints := kp.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func renderLeaveConfirm(width, height int) string {
	body := strings.Join([]string{
		theme.Title.Render("Leave the test?"),
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Render("Your answers and remaining time are saved."),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Start the same exam again to continue."),
		"",
		theme.Hint.Render("y to leave · n to stay"),
	}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Dialog.Render(body))
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := newAppModel(opts)
	defer m.router.CloseAll()

	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
