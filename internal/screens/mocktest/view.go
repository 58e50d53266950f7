package mocktest

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/learnex/learnex/internal/assessment"
	"github.com/learnex/learnex/internal/ui/components"
	"github.com/learnex/learnex/internal/ui/layout"
	"github.com/learnex/learnex/internal/ui/theme"
)

// lowTimeSeconds is when the clock turns red.
const lowTimeSeconds = 5 * 60

func clockStatus(remaining int, paused bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	if remaining <= lowTimeSeconds {
		style = style.Foreground(theme.Error)
	}
	s := style.Render("⏱ " + layout.FormatClock(remaining))
	if paused {
		s += lipgloss.NewStyle().Foreground(theme.Accent).Render(" paused")
	}
	return s
}

func autosaveBadge(st assessment.AutosaveStatus) string {
	switch st {
	case assessment.AutosaveSaving:
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("saving…")
	case assessment.AutosaveError:
		return lipgloss.NewStyle().Foreground(theme.Error).Render("⚠ not saved")
	default:
		return lipgloss.NewStyle().Foreground(theme.Success).Render("✓ saved")
	}
}

func (s *TestScreen) View(width, height int) string {
	st := s.state
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	switch {
	case st.Phase == assessment.PhaseNotStarted:
		return layout.Centered(width, dim, "\n\n\nStarting test...")
	case st.Phase == assessment.PhaseSubmitted:
		return layout.Centered(width, dim, "\n\n\nSubmitting...")
	case st.ConfirmingSubmit:
		return renderSubmitConfirm(st.Summary(), width, height)
	case st.Paused:
		return renderPaused(st.RemainingSeconds, width, height)
	}

	q, ok := st.Current()
	if !ok {
		return layout.Centered(width, dim, "\n\n\nThis test has no questions.")
	}

	inner := max(width-4, 20)
	var b strings.Builder

	// Info line.
	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("  Question %d of %d", st.CurrentIndex+1, len(st.Questions)))
	meta := []string{q.Subject}
	if q.Topic != "" {
		meta = append(meta, q.Topic)
	}
	if q.Difficulty != "" {
		meta = append(meta, string(q.Difficulty))
	}
	right := dim.Render(strings.Join(meta, " · ")) + "  " + autosaveBadge(st.Autosave)
	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 2; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	b.WriteString(line)
	b.WriteString("\n")

	sum := st.Summary()
	b.WriteString("  ")
	b.WriteString(components.NewProgressBar("Answered", sum.Attempted, sum.Total, inner).View())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render("  " + strings.Repeat("─", inner)))
	b.WriteString("\n\n")

	if st.Restored && st.CurrentIndex == 0 && sum.Attempted == 0 {
		b.WriteString(dim.Render("  Resumed from your saved attempt."))
		b.WriteString("\n\n")
	}

	if st.PaletteVisible {
		b.WriteString(s.renderPalette(st, width))
		return b.String()
	}

	prompt := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(inner).
		Render(q.Prompt)
	b.WriteString(indent(prompt, "  "))
	b.WriteString("\n\n")
	b.WriteString(indent(s.options.View(inner), "  "))

	if q.MarkedForReview {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Marked).Render("  ⚑ Marked for review"))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *TestScreen) renderPalette(st assessment.State, width int) string {
	statuses := make([]assessment.QuestionStatus, len(st.Questions))
	for i, q := range st.Questions {
		statuses[i] = q.Status()
	}
	p := components.Palette{Statuses: statuses, Current: st.CurrentIndex}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, p.View())
}

func renderSubmitConfirm(sum assessment.SubmitSummary, width, height int) string {
	rows := []string{
		theme.Title.Render("Submit the test?"),
		"",
		fmt.Sprintf("Answered          %3d", sum.Attempted),
		fmt.Sprintf("Not answered      %3d", sum.Unattempted()),
		fmt.Sprintf("Marked for review %3d", sum.Marked),
		"",
	}
	if sum.Unattempted() > 0 {
		rows = append(rows, lipgloss.NewStyle().Foreground(theme.Accent).
			Render(fmt.Sprintf("%d questions are still unanswered.", sum.Unattempted())), "")
	}
	rows = append(rows, theme.Hint.Render("y to submit · n to keep going"))

	body := lipgloss.NewStyle().Foreground(theme.Text).Render(strings.Join(rows, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Dialog.Render(body))
}

func renderPaused(remaining, width, height int) string {
	body := strings.Join([]string{
		theme.Title.Render("Paused"),
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Render(layout.FormatClock(remaining) + " left"),
		"",
		theme.Hint.Render("press p to resume"),
	}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Dialog.Render(body))
}

func indent(s, pad string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n") + "\n"
}
