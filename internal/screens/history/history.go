package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/learnex/learnex/internal/assessment"
	"github.com/learnex/learnex/internal/router"
	"github.com/learnex/learnex/internal/screen"
	"github.com/learnex/learnex/internal/store"
	"github.com/learnex/learnex/internal/ui/layout"
	"github.com/learnex/learnex/internal/ui/theme"
)

// pageSize is how many past results are loaded.
const pageSize = 50

type historyLoadedMsg struct {
	Results []store.ResultRecord
	Err     error
}

// HistoryScreen lists past submitted tests.
type HistoryScreen struct {
	repo     store.ResultRepo
	results  []store.ResultRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo store.ResultRepo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		if repo == nil {
			return historyLoadedMsg{}
		}
		results, err := repo.Recent(context.Background(), pageSize)
		return historyLoadedMsg{Results: results, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Past Results"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.results = msg.Results
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.results)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading results...")
	}
	if len(s.results) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No tests submitted yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, r := range s.results {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		auto := ""
		if r.AutoSubmitted {
			auto = "  (time up)"
		}
		line := fmt.Sprintf("%s%s  %-28s  %3d/%-3d  %3d%%  %s%s",
			prefix,
			r.SubmittedAt.Local().Format("Jan 02 15:04"),
			truncate(r.Title, 28),
			r.Score, r.Total*assessment.PointsPerCorrect,
			r.Accuracy,
			layout.FormatClock(r.TimeTakenSecs),
			auto)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(details(r))))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func details(r store.ResultRecord) string {
	parts := []string{
		fmt.Sprintf("%d correct", r.Correct),
		fmt.Sprintf("%d attempted of %d", r.Attempted, r.Total),
		fmt.Sprintf("%d marked", r.Marked),
		"exam " + r.ExamID,
	}
	if r.TeacherCode != "" {
		parts = append(parts, "code "+r.TeacherCode)
	}
	return "    " + strings.Join(parts, " · ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
