package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/learnex/learnex/internal/assessment"
	"github.com/learnex/learnex/internal/ui/theme"
)

// PaletteColumns is the number of cells per palette row.
const PaletteColumns = 10

// Palette renders the question grid with each cell coloured by status.
type Palette struct {
	Statuses []assessment.QuestionStatus
	Current  int
}

// View renders the grid followed by a legend.
func (p Palette) View() string {
	var b strings.Builder
	for i, st := range p.Statuses {
		style := cellStyle(st)
		if i == p.Current {
			style = style.Inherit(theme.CellCurrent)
		}
		b.WriteString(style.Render(fmt.Sprintf(" %2d ", i+1)))
		if (i+1)%PaletteColumns == 0 || i == len(p.Statuses)-1 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}

	b.WriteString("\n")
	legend := []string{
		theme.CellAnswered.Render(" ") + " answered",
		theme.CellMarked.Render(" ") + " marked",
		theme.CellAnsweredMarked.Render(" ") + " answered + marked",
		theme.CellUnanswered.Render("·") + " not visited",
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(strings.Join(legend, "   ")))
	return b.String()
}

func cellStyle(st assessment.QuestionStatus) lipgloss.Style {
	switch st {
	case assessment.StatusAnswered:
		return theme.CellAnswered
	case assessment.StatusMarked:
		return theme.CellMarked
	case assessment.StatusAnsweredMarked:
		return theme.CellAnsweredMarked
	default:
		return theme.CellUnanswered
	}
}
