package results

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/learnex/learnex/internal/assessment"
	"github.com/learnex/learnex/internal/router"
	"github.com/learnex/learnex/internal/screen"
)

type stubScreen struct{ name string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.name }
func (s *stubScreen) Title() string                           { return s.name }

func answered(i int) *int { return &i }

func testHandoff(auto bool) assessment.Handoff {
	qs := []assessment.Question{
		{ID: 1, Prompt: "Unit of force?", Options: []string{"Joule", "Newton", "Watt"}, CorrectOptionIndex: 1, UserAnswerIndex: answered(1)},
		{ID: 2, Prompt: "Unit of power?", Options: []string{"Joule", "Newton", "Watt"}, CorrectOptionIndex: 2, UserAnswerIndex: answered(0), MarkedForReview: true},
		{ID: 3, Prompt: "Unit of energy?", Options: []string{"Joule", "Newton", "Watt"}, CorrectOptionIndex: 0},
	}
	cfg := assessment.ConfigFromNavigation("jee-1", nil)
	return assessment.Handoff{
		TestConfig: cfg,
		Questions:  qs,
		Results:    assessment.CompileResult(qs, 754, auto, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)),
	}
}

func TestSummaryView(t *testing.T) {
	s := New(testHandoff(false), nil, nil)
	view := s.View(100, 40)

	for _, want := range []string{"4 / 12", "Correct", "Incorrect", "50%", "12:34"} {
		if !strings.Contains(view, want) {
			t.Errorf("summary missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "automatically") {
		t.Error("manual submit should not show the time-up notice")
	}
}

func TestSummaryView_AutoSubmitted(t *testing.T) {
	view := New(testHandoff(true), nil, nil).View(100, 40)
	if !strings.Contains(view, "submitted automatically") {
		t.Errorf("expected time-up notice:\n%s", view)
	}
}

func TestReviewNavigation(t *testing.T) {
	s := New(testHandoff(false), nil, nil)
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if !s.reviewing {
		t.Fatal("tab should open the review")
	}
	if !strings.Contains(s.View(100, 40), "Unit of force?") {
		t.Error("review should start on the first question")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 2 {
		t.Errorf("selected = %d, want 2", s.selected)
	}
	view := s.View(100, 40)
	if !strings.Contains(view, "Not answered. Correct answer: A") {
		t.Errorf("expected unanswered hint:\n%s", view)
	}
}

func TestRetryAndHistory(t *testing.T) {
	retry := &stubScreen{name: "retry"}
	past := &stubScreen{name: "history"}
	s := New(testHandoff(false),
		func() screen.Screen { return retry },
		func() screen.Screen { return past })

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if msg, ok := cmd().(router.ReplaceScreenMsg); !ok || msg.Screen != retry {
		t.Errorf("r should replace with the retry screen, got %#v", msg)
	}

	_, cmd = s.Update(tea.KeyPressMsg{Code: 'h', Text: "h"})
	if msg, ok := cmd().(router.PushScreenMsg); !ok || msg.Screen != past {
		t.Errorf("h should push the history screen, got %#v", msg)
	}
}

func TestRetryWithoutFactory(t *testing.T) {
	s := New(testHandoff(false), nil, nil)
	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"}); cmd != nil {
		t.Error("expected no command without a retry factory")
	}
	if len(s.KeyHints()) != 2 {
		t.Errorf("hints = %+v", s.KeyHints())
	}
}
