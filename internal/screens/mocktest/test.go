package mocktest

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/learnex/learnex/internal/assessment"
	"github.com/learnex/learnex/internal/router"
	"github.com/learnex/learnex/internal/screen"
	"github.com/learnex/learnex/internal/screens/history"
	"github.com/learnex/learnex/internal/screens/results"
	"github.com/learnex/learnex/internal/store"
	"github.com/learnex/learnex/internal/ui/components"
	"github.com/learnex/learnex/internal/ui/layout"
)

// TestScreen runs one session. Session callbacks arrive on goroutines, so
// they are funnelled through channels and turned into messages by listen.
type TestScreen struct {
	deps    Deps
	session *assessment.Session
	state   assessment.State
	options components.OptionList
	log     zerolog.Logger

	changes  chan struct{}
	handoffs chan assessment.Handoff
	stop     chan struct{}

	submitted bool
	closed    bool
}

var _ screen.Screen = (*TestScreen)(nil)
var _ screen.KeyHintProvider = (*TestScreen)(nil)
var _ screen.StatusProvider = (*TestScreen)(nil)
var _ screen.Closer = (*TestScreen)(nil)

// NewTest creates a test screen over questions. The session starts when
// the screen is initialised.
func NewTest(deps Deps, cfg assessment.SessionConfig, questions []assessment.Question) *TestScreen {
	s := &TestScreen{
		deps:     deps,
		changes:  make(chan struct{}, 1),
		handoffs: make(chan assessment.Handoff, 1),
		stop:     make(chan struct{}),
	}
	s.log = deps.Log.With().Str("component", "mocktest").Logger()

	rec := &recorder{
		results: deps.Results,
		events:  deps.Events,
		log:     s.log,
		out:     s.handoffs,
	}
	s.session = assessment.NewSession(cfg, questions, assessment.Options{
		Store:         deps.Store,
		Scheduler:     deps.Scheduler,
		Guard:         deps.Guard,
		Sink:          rec,
		Logger:        &deps.Log,
		AutosaveDelay: deps.AutosaveDelay,
		Now:           deps.Now,
		OnChange:      s.notify,
	})
	rec.sessionID = s.session.ID()
	s.refresh()
	return s
}

// Session exposes the running session.
func (s *TestScreen) Session() *assessment.Session {
	return s.session
}

func (s *TestScreen) Title() string {
	return s.state.Config.Title
}

func (s *TestScreen) Init() tea.Cmd {
	return tea.Batch(s.begin(), s.listen())
}

func (s *TestScreen) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// listen waits for the next session event.
func (s *TestScreen) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case h := <-s.handoffs:
			return submittedMsg{Handoff: h}
		case <-s.changes:
			return changedMsg{}
		case <-s.stop:
			return nil
		}
	}
}

func (s *TestScreen) begin() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()
		return startedMsg{OK: s.session.Start(ctx)}
	}
}

func (s *TestScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		s.refresh()
		if !msg.OK {
			return s, nil
		}
		return s, s.appendEvent(store.ActionStart)

	case changedMsg:
		s.refresh()
		return s, s.listen()

	case submittedMsg:
		return s.handleSubmitted(msg.Handoff)

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *TestScreen) handleSubmitted(h assessment.Handoff) (screen.Screen, tea.Cmd) {
	s.submitted = true
	s.refresh()

	deps, cfg := s.deps, h.TestConfig
	retry := func() screen.Screen { return NewInstructions(deps, cfg) }
	var past func() screen.Screen
	if deps.Results != nil {
		past = func() screen.Screen { return history.New(deps.Results) }
	}
	res := results.New(h, retry, past)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: res} }
}

func (s *TestScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	st := s.state
	if st.Phase != assessment.PhaseActive {
		return s, nil
	}
	key := msg.String()

	switch {
	case st.ConfirmingSubmit:
		switch key {
		case "y", "Y", "enter":
			return s, s.confirm()
		case "n", "N", "esc":
			s.session.CancelSubmit()
		}

	case st.Paused:
		if key == "p" || key == "enter" {
			s.session.Resume()
		}

	case st.PaletteVisible:
		s.handlePaletteKey(key)

	default:
		s.handleQuestionKey(msg)
	}

	s.refresh()
	return s, nil
}

// confirm submits from a command. Submitting deletes the autosave and
// stores the result, and neither may stall Update on a slow backend. The
// handoff comes back through listen.
func (s *TestScreen) confirm() tea.Cmd {
	sess := s.session
	return func() tea.Msg {
		sess.ConfirmSubmit()
		return nil
	}
}

func (s *TestScreen) handlePaletteKey(key string) {
	i := s.state.CurrentIndex
	switch key {
	case "left", "h":
		s.session.GoTo(i - 1)
	case "right", "l":
		s.session.GoTo(i + 1)
	case "up", "k":
		s.session.GoTo(i - components.PaletteColumns)
	case "down", "j":
		s.session.GoTo(i + components.PaletteColumns)
	case "m":
		s.session.ToggleReview(i)
	case "tab", "enter", "esc":
		s.session.TogglePalette()
	case "s":
		s.session.RequestSubmit()
	case "p":
		s.session.Pause()
	}
}

func (s *TestScreen) handleQuestionKey(msg tea.KeyPressMsg) {
	i := s.state.CurrentIndex
	key := msg.String()

	switch key {
	case "enter", "space":
		s.session.SelectAnswer(i, s.options.Cursor)
		return
	case "left", "h":
		s.session.Previous()
		return
	case "right", "l", "n":
		s.session.Next()
		return
	case "m":
		s.session.ToggleReview(i)
		return
	case "x", "backspace", "delete":
		s.session.ClearAnswer(i)
		return
	case "tab":
		s.session.TogglePalette()
		return
	case "p":
		s.session.Pause()
		return
	case "s":
		s.session.RequestSubmit()
		return
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		s.session.SelectAnswer(i, int(key[0]-'1'))
		return
	}
	if len(key) == 1 && key[0] >= 'a' && key[0] <= 'f' {
		s.session.SelectAnswer(i, int(key[0]-'a'))
		return
	}

	s.options, _ = s.options.Update(msg)
}

// refresh copies the session state and keeps the option cursor on the
// current question.
func (s *TestScreen) refresh() {
	prev := s.state.CurrentIndex
	s.state = s.session.State()

	q, ok := s.state.Current()
	if !ok {
		s.options = components.OptionList{}
		return
	}
	chosen := -1
	if q.UserAnswerIndex != nil {
		chosen = *q.UserAnswerIndex
	}
	if prev != s.state.CurrentIndex || len(s.options.Options) != len(q.Options) {
		s.options = components.NewOptionList(q.Options, chosen)
		return
	}
	s.options.Chosen = chosen
}

func (s *TestScreen) appendEvent(action string) tea.Cmd {
	if s.deps.Events == nil {
		return nil
	}
	data := s.eventData(action)
	events, log := s.deps.Events, s.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()
		if err := events.AppendSessionEvent(ctx, data); err != nil {
			log.Warn().Err(err).Str("action", action).Msg("append session event")
		}
		return nil
	}
}

func (s *TestScreen) eventData(action string) store.SessionEventData {
	sum := s.state.Summary()
	correct := 0
	for _, q := range s.state.Questions {
		if q.IsCorrect() {
			correct++
		}
	}
	return store.SessionEventData{
		SessionID:     s.session.ID(),
		ExamID:        s.state.Config.ExamID,
		Action:        action,
		Attempted:     sum.Attempted,
		Correct:       correct,
		RemainingSecs: s.state.RemainingSeconds,
	}
}

// Close tears the session down. An unfinished attempt keeps its autosave
// and is logged as abandoned.
func (s *TestScreen) Close() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.stop)

	st := s.session.State()
	s.session.Teardown()
	if st.Phase != assessment.PhaseActive {
		return
	}
	s.state = st
	if cmd := s.appendEvent(store.ActionAbandon); cmd != nil {
		cmd()
	}
}

func (s *TestScreen) HeaderStatus() string {
	if s.state.Phase != assessment.PhaseActive {
		return ""
	}
	return clockStatus(s.state.RemainingSeconds, s.state.Paused)
}

func (s *TestScreen) KeyHints() []layout.KeyHint {
	st := s.state
	switch {
	case st.Phase != assessment.PhaseActive:
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	case st.ConfirmingSubmit:
		return []layout.KeyHint{
			{Key: "Y", Description: "Submit"},
			{Key: "N", Description: "Keep going"},
		}
	case st.Paused:
		return []layout.KeyHint{
			{Key: "P", Description: "Resume"},
			{Key: "Ctrl+C", Description: "Leave"},
		}
	case st.PaletteVisible:
		return []layout.KeyHint{
			{Key: "←↑↓→", Description: "Jump"},
			{Key: "M", Description: "Mark"},
			{Key: "Tab", Description: "Back to question"},
			{Key: "S", Description: "Submit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Option"},
		{Key: "Enter", Description: "Answer"},
		{Key: "←→", Description: "Prev/Next"},
		{Key: "M", Description: "Mark"},
		{Key: "X", Description: "Clear"},
		{Key: "Tab", Description: "Palette"},
		{Key: "P", Description: "Pause"},
		{Key: "S", Description: "Submit"},
	}
}
