package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/learnex/learnex/internal/assessment"
	"github.com/learnex/learnex/internal/router"
	"github.com/learnex/learnex/internal/screen"
	"github.com/learnex/learnex/internal/ui/components"
	"github.com/learnex/learnex/internal/ui/layout"
	"github.com/learnex/learnex/internal/ui/theme"
)

// ResultsScreen shows the outcome of a submitted test with a per-question
// review.
type ResultsScreen struct {
	handoff   assessment.Handoff
	onRetry   func() screen.Screen
	onHistory func() screen.Screen

	reviewing bool
	selected  int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a results screen. onRetry and onHistory may be nil.
func New(h assessment.Handoff, onRetry, onHistory func() screen.Screen) *ResultsScreen {
	return &ResultsScreen{handoff: h, onRetry: onRetry, onHistory: onHistory}
}

func (s *ResultsScreen) Init() tea.Cmd { return nil }

func (s *ResultsScreen) Title() string {
	return s.handoff.TestConfig.Title + " · Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	if s.reviewing {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Question"},
			{Key: "Tab", Description: "Summary"},
			{Key: "Q", Description: "Quit"},
		}
	}
	hints := []layout.KeyHint{{Key: "Tab", Description: "Review answers"}}
	if s.onRetry != nil {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "New attempt"})
	}
	if s.onHistory != nil {
		hints = append(hints, layout.KeyHint{Key: "H", Description: "Past results"})
	}
	return append(hints, layout.KeyHint{Key: "Q", Description: "Quit"})
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "q":
		return s, tea.Quit
	case "tab":
		s.reviewing = !s.reviewing
	case "up", "k":
		if s.reviewing && s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.reviewing && s.selected < len(s.handoff.Questions)-1 {
			s.selected++
		}
	case "r":
		if s.onRetry != nil {
			next := s.onRetry()
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
	case "h":
		if s.onHistory != nil {
			next := s.onHistory()
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	if s.reviewing {
		return s.renderReview(width, height)
	}
	return s.renderSummary(width, height)
}

func (s *ResultsScreen) renderSummary(width, height int) string {
	r := s.handoff.Results
	var b strings.Builder

	b.WriteString(theme.Title.Render("Test submitted"))
	b.WriteString("\n\n")

	score := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render(fmt.Sprintf("%d / %d", r.Score, r.MaxScore()))
	b.WriteString("Score  " + score)
	b.WriteString("\n\n")

	rows := []struct {
		label string
		value string
		style lipgloss.Style
	}{
		{"Correct", fmt.Sprint(r.CorrectCount), theme.Correct},
		{"Incorrect", fmt.Sprint(r.Incorrect()), theme.Incorrect},
		{"Not answered", fmt.Sprint(r.Unattempted()), theme.Body},
		{"Accuracy", fmt.Sprintf("%d%%", r.AccuracyPercent), theme.Body},
		{"Time taken", layout.FormatClock(r.TimeTakenSeconds), theme.Body},
		{"Marked for review", fmt.Sprint(r.MarkedCount), lipgloss.NewStyle().Foreground(theme.Marked)},
	}
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Width(20)
	for _, row := range rows {
		b.WriteString(label.Render(row.label) + row.style.Render(row.value))
		b.WriteString("\n")
	}

	if r.AutoSubmitted {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).
			Render("Time ran out, so the test was submitted automatically."))
		b.WriteString("\n")
	}

	card := theme.Card.Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

// Verdict marks for the review list.
const (
	markCorrect = "✓"
	markWrong   = "✗"
	markBlank   = "–"
)

func verdict(q assessment.Question) (string, lipgloss.Style) {
	switch {
	case !q.Answered():
		return markBlank, lipgloss.NewStyle().Foreground(theme.TextDim)
	case q.IsCorrect():
		return markCorrect, theme.Correct
	default:
		return markWrong, theme.Incorrect
	}
}

func (s *ResultsScreen) renderReview(width, height int) string {
	qs := s.handoff.Questions
	if len(qs) == 0 {
		return layout.Centered(width, theme.Hint, "\n\nNo questions to review.")
	}

	inner := max(width-4, 20)
	var b strings.Builder

	// Strip of verdicts, one per question.
	var strip strings.Builder
	for i, q := range qs {
		mark, style := verdict(q)
		if i == s.selected {
			style = style.Underline(true)
		}
		strip.WriteString(style.Render(mark))
		strip.WriteString(" ")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strip.String()))
	b.WriteString("\n\n")

	q := qs[s.selected]
	mark, style := verdict(q)
	head := fmt.Sprintf("Q%d %s", s.selected+1, style.Render(mark))
	if q.MarkedForReview {
		head += lipgloss.NewStyle().Foreground(theme.Marked).Render("  ⚑")
	}
	b.WriteString("  " + head + "\n\n")

	prompt := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(inner).Render(q.Prompt)
	for _, l := range strings.Split(prompt, "\n") {
		b.WriteString("  " + l + "\n")
	}
	b.WriteString("\n")

	chosen := -1
	if q.UserAnswerIndex != nil {
		chosen = *q.UserAnswerIndex
	}
	opts := components.NewOptionList(q.Options, chosen)
	opts.Reveal = true
	opts.Correct = q.CorrectOptionIndex
	for _, l := range strings.Split(strings.TrimRight(opts.View(inner), "\n"), "\n") {
		b.WriteString("  " + l + "\n")
	}

	if !q.Answered() {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  Not answered. Correct answer: %s", components.OptionLabel(q.CorrectOptionIndex))))
		b.WriteString("\n")
	}
	return b.String()
}
