package mocktest

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	figure "github.com/common-nighthawk/go-figure"

	"github.com/learnex/learnex/internal/assessment"
	"github.com/learnex/learnex/internal/router"
	"github.com/learnex/learnex/internal/screen"
	"github.com/learnex/learnex/internal/screens/history"
	"github.com/learnex/learnex/internal/ui/components"
	"github.com/learnex/learnex/internal/ui/layout"
	"github.com/learnex/learnex/internal/ui/theme"
)

// InstructionsScreen is shown before the clock starts.
type InstructionsScreen struct {
	deps Deps
	cfg  assessment.SessionConfig
	menu components.Menu

	// code is non-nil while a teacher test still needs its code.
	code *components.TextInput

	saved   *assessment.Snapshot
	loading bool
	errMsg  string
}

var _ screen.Screen = (*InstructionsScreen)(nil)
var _ screen.KeyHintProvider = (*InstructionsScreen)(nil)

// NewInstructions creates the instructions screen for cfg.
func NewInstructions(deps Deps, cfg assessment.SessionConfig) *InstructionsScreen {
	s := &InstructionsScreen{deps: deps, cfg: cfg}
	if cfg.Mode == assessment.ModeTeacher && cfg.TeacherCode == "" {
		ti := components.NewTextInput("Teacher code", true, 16)
		s.code = &ti
	}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Start test", Key: "s", Action: s.start},
		{Label: "Past results", Key: "h", Action: s.openHistory, Disabled: deps.Results == nil, Reason: "history is off"},
		{Label: "Quit", Key: "q", Action: func() tea.Cmd { return tea.Quit }},
	})
	return s
}

func (s *InstructionsScreen) Title() string {
	return s.cfg.Title
}

func (s *InstructionsScreen) Init() tea.Cmd {
	var cmds []tea.Cmd
	if s.code != nil {
		cmds = append(cmds, s.code.Init())
	}
	if s.deps.Store != nil {
		cmds = append(cmds, s.loadSaved())
	}
	return tea.Batch(cmds...)
}

func (s *InstructionsScreen) KeyHints() []layout.KeyHint {
	if s.code != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Confirm code"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "s/h/q", Description: "Start/History/Quit"},
	}
}

func (s *InstructionsScreen) loadSaved() tea.Cmd {
	kv, examID := s.deps.Store, s.cfg.ExamID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()
		snap, err := assessment.LoadSnapshot(ctx, kv, examID)
		if err != nil {
			return savedAttemptMsg{}
		}
		return savedAttemptMsg{Snapshot: snap}
	}
}

func (s *InstructionsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedAttemptMsg:
		if msg.Snapshot != nil && msg.Snapshot.Resumable() {
			s.saved = msg.Snapshot
			s.menu.SetLabel(0, "Resume test")
		}
		return s, nil

	case questionsLoadedMsg:
		return s.handleLoaded(msg)

	case tea.KeyPressMsg:
		if s.loading {
			return s, nil
		}
		if s.code != nil {
			return s.updateCode(msg)
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}

	if s.code != nil {
		var cmd tea.Cmd
		*s.code, cmd = s.code.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *InstructionsScreen) updateCode(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "enter" {
		code := s.code.Value()
		if code == "" {
			s.errMsg = "Enter the code your teacher gave you."
			return s, nil
		}
		s.cfg = s.cfg.WithTeacherCode(code)
		s.code = nil
		s.errMsg = ""
		return s, nil
	}
	var cmd tea.Cmd
	*s.code, cmd = s.code.Update(msg)
	return s, cmd
}

// start loads the questions. A saved attempt is resumed on its own
// questions, since the source may not produce the same ones again.
func (s *InstructionsScreen) start() tea.Cmd {
	s.loading = true
	s.errMsg = ""
	if s.saved != nil {
		qs := s.saved.Bank()
		return func() tea.Msg { return questionsLoadedMsg{Questions: qs} }
	}
	src, cfg, log := s.deps.Source, s.cfg, s.deps.Log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		qs, err := src.Questions(ctx, cfg)
		if err != nil {
			log.Error().Err(err).Str("exam", cfg.ExamID).Msg("load questions")
		}
		return questionsLoadedMsg{Questions: qs, Err: err}
	}
}

func (s *InstructionsScreen) handleLoaded(msg questionsLoadedMsg) (screen.Screen, tea.Cmd) {
	s.loading = false
	if msg.Err != nil {
		s.errMsg = fmt.Sprintf("Could not prepare questions: %v", msg.Err)
		return s, nil
	}
	if len(msg.Questions) == 0 {
		s.errMsg = "No questions are available for this subject."
		return s, nil
	}
	test := NewTest(s.deps, s.cfg, msg.Questions)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: test} }
}

func (s *InstructionsScreen) openHistory() tea.Cmd {
	h := history.New(s.deps.Results)
	return func() tea.Msg { return router.PushScreenMsg{Screen: h} }
}

func (s *InstructionsScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(renderBanner(width))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Title, s.cfg.Title))
	b.WriteString("\n\n")

	rules := []string{
		fmt.Sprintf("%d questions · %s · %d marks each", s.cfg.TotalQuestions, layout.FormatClock(s.cfg.DurationSeconds), assessment.PointsPerCorrect),
		"No negative marking. Unanswered questions score zero.",
		"Mark questions for review and come back to them from the palette.",
		"The test is submitted automatically when the time runs out.",
		"Answers are saved as you go; leaving keeps your place and time.",
	}
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	for _, r := range rules {
		b.WriteString(layout.Centered(width, dim, "• "+r))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if s.saved != nil {
		notice := fmt.Sprintf("Saved attempt found: question %d, %s left.",
			s.saved.CurrentQuestion+1, layout.FormatClock(s.saved.TimeLeft))
		b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Accent), notice))
		b.WriteString("\n\n")
	}

	switch {
	case s.loading:
		b.WriteString(layout.Centered(width, dim, "Preparing questions..."))
	case s.code != nil:
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, "Teacher code: "+s.code.View()))
	default:
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))
	}

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error), s.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

const bannerCompact = "L E A R N E X"

// renderBanner draws the product name, falling back to spaced letters when
// the figlet art does not fit.
func renderBanner(width int) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	art := strings.TrimRight(figure.NewFigure("LEARNEX", "small", true).String(), "\n")
	if lipgloss.Width(art) > width {
		return layout.Centered(width, style, bannerCompact)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(art))
}
