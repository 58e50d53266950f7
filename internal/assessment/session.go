package assessment

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/learnex/learnex/internal/schedule"
)

// DefaultAutosaveDelay is the quiet period before an autosave write.
const DefaultAutosaveDelay = time.Second

// saveTimeout bounds a single autosave write.
const saveTimeout = 5 * time.Second

// Options wires a Session to its host. Every field is optional.
type Options struct {
	// Store persists autosave snapshots. Nil disables autosave.
	Store KeyValueStore

	// Scheduler drives the countdown and the autosave debounce.
	// Defaults to schedule.Real.
	Scheduler schedule.Scheduler

	Guard ExitGuard
	Sink  ResultSink

	Logger *zerolog.Logger

	// AutosaveDelay defaults to DefaultAutosaveDelay.
	AutosaveDelay time.Duration

	// Now defaults to time.Now.
	Now func() time.Time

	// OnChange is called, outside the session lock, after any state change
	// including timer ticks and autosave status updates.
	OnChange func()
}

// Session runs one timed attempt. All methods are safe for concurrent use;
// the countdown and autosave callbacks run on scheduler goroutines.
type Session struct {
	id       string
	cfg      SessionConfig
	store    KeyValueStore
	sched    schedule.Scheduler
	guard    *onceGuard
	sink     ResultSink
	log      zerolog.Logger
	now      func() time.Time
	onChange func()
	autosave *schedule.Debouncer

	// writeMu orders snapshot writes against the delete on submit.
	writeMu sync.Mutex

	mu         sync.Mutex
	questions  []Question
	current    int
	remaining  int
	phase      Phase
	status     AutosaveStatus
	paused     bool
	confirming bool
	palette    bool
	restored   bool
	closed     bool
	startedAt  time.Time
	result     *Result
	stopTimer  schedule.CancelFunc
	timerGen   uint64
}

// NewSession creates a session in PhaseNotStarted over the given question
// bank. The session owns questions from here on.
func NewSession(cfg SessionConfig, questions []Question, opts Options) *Session {
	if questions == nil {
		questions = []Question{}
	}
	cfg.TotalQuestions = len(questions)

	s := &Session{
		id:        uuid.NewString(),
		cfg:       cfg,
		store:     opts.Store,
		sched:     opts.Scheduler,
		guard:     newOnceGuard(opts.Guard),
		sink:      opts.Sink,
		now:       opts.Now,
		onChange:  opts.OnChange,
		questions: questions,
		remaining: cfg.DurationSeconds,
	}
	if s.sched == nil {
		s.sched = schedule.Real{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.Logger != nil {
		s.log = opts.Logger.With().Str("component", "assessment").Str("exam", cfg.ExamID).Str("session", s.id).Logger()
	} else {
		s.log = zerolog.Nop()
	}

	delay := opts.AutosaveDelay
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	s.autosave = schedule.NewDebouncer(s.sched, delay, s.flush)
	return s
}

// ID returns the unique identifier of this attempt.
func (s *Session) ID() string { return s.id }

// Config returns the session descriptor.
func (s *Session) Config() SessionConfig { return s.cfg }

// Start moves the session from PhaseNotStarted to PhaseActive. A compatible
// autosave snapshot for the same exam is restored. Returns false if the
// session was already started or torn down.
func (s *Session) Start(ctx context.Context) bool {
	s.mu.Lock()
	ok := s.phase == PhaseNotStarted && !s.closed
	s.mu.Unlock()
	if !ok {
		return false
	}

	snap := s.restorable(ctx)

	s.mu.Lock()
	if s.phase != PhaseNotStarted || s.closed {
		s.mu.Unlock()
		return false
	}
	s.phase = PhaseActive
	s.remaining = s.cfg.DurationSeconds
	s.current = 0
	if snap != nil {
		snap.applyTo(s.questions)
		s.remaining = snap.TimeLeft
		s.current = clamp(snap.CurrentQuestion, len(s.questions))
		s.restored = true
	}
	s.startedAt = s.now()
	s.startTimerLocked()
	restored := s.restored
	remaining := s.remaining
	s.mu.Unlock()

	s.guard.Arm()
	s.log.Info().
		Bool("restored", restored).
		Int("remaining_s", remaining).
		Int("questions", len(s.questions)).
		Msg("session started")
	s.notify()
	return true
}

func (s *Session) restorable(ctx context.Context) *Snapshot {
	if s.store == nil {
		return nil
	}
	snap, err := LoadSnapshot(ctx, s.store, s.cfg.ExamID)
	if err != nil {
		s.log.Warn().Err(err).Msg("ignoring unreadable autosave")
		return nil
	}
	if snap == nil {
		return nil
	}
	if !snap.CompatibleWith(s.questions, s.cfg.DurationSeconds) {
		s.log.Info().Str("version", snap.Version).Msg("ignoring incompatible autosave")
		return nil
	}
	return snap
}

// SelectAnswer records option as the answer to question q. Out of range
// indices are ignored.
func (s *Session) SelectAnswer(q, option int) {
	s.mutate(func() bool {
		if q < 0 || q >= len(s.questions) || !s.questions[q].ValidOption(option) {
			return false
		}
		if cur := s.questions[q].UserAnswerIndex; cur != nil && *cur == option {
			return false
		}
		v := option
		s.questions[q].UserAnswerIndex = &v
		return true
	})
}

// ClearAnswer removes the answer to question q.
func (s *Session) ClearAnswer(q int) {
	s.mutate(func() bool {
		if q < 0 || q >= len(s.questions) || s.questions[q].UserAnswerIndex == nil {
			return false
		}
		s.questions[q].UserAnswerIndex = nil
		return true
	})
}

// ToggleReview flips the review flag of question q.
func (s *Session) ToggleReview(q int) {
	s.mutate(func() bool {
		if q < 0 || q >= len(s.questions) {
			return false
		}
		s.questions[q].MarkedForReview = !s.questions[q].MarkedForReview
		return true
	})
}

// GoTo moves to question i, clamped into the bank.
func (s *Session) GoTo(i int) {
	s.mutate(func() bool {
		return s.moveLocked(i)
	})
}

// Next moves forward one question; a no-op on the last question.
func (s *Session) Next() {
	s.mutate(func() bool {
		return s.moveLocked(s.current + 1)
	})
}

// Previous moves back one question; a no-op on the first question.
func (s *Session) Previous() {
	s.mutate(func() bool {
		return s.moveLocked(s.current - 1)
	})
}

func (s *Session) moveLocked(i int) bool {
	i = clamp(i, len(s.questions))
	if i == s.current {
		return false
	}
	s.current = i
	return true
}

// mutate applies fn while the session is editable and schedules an
// autosave when fn reports a change.
func (s *Session) mutate(fn func() bool) {
	s.mu.Lock()
	if !s.editableLocked() || !fn() {
		s.mu.Unlock()
		return
	}
	save := s.store != nil
	if save {
		s.status = AutosaveSaving
	}
	s.mu.Unlock()

	if save {
		s.autosave.Trigger()
	}
	s.notify()
}

func (s *Session) editableLocked() bool {
	return s.phase == PhaseActive && !s.closed && !s.paused && !s.confirming
}

// TogglePalette shows or hides the question palette.
func (s *Session) TogglePalette() {
	s.mu.Lock()
	if s.phase != PhaseActive || s.closed {
		s.mu.Unlock()
		return
	}
	s.palette = !s.palette
	s.mu.Unlock()
	s.notify()
}

// Pause stops the clock. Questions cannot be edited while paused.
func (s *Session) Pause() bool {
	s.mu.Lock()
	if s.phase != PhaseActive || s.closed || s.paused {
		s.mu.Unlock()
		return false
	}
	s.paused = true
	s.stopTimerLocked()
	s.mu.Unlock()

	s.log.Debug().Msg("session paused")
	s.notify()
	return true
}

// Resume restarts the clock after Pause.
func (s *Session) Resume() bool {
	s.mu.Lock()
	if s.phase != PhaseActive || s.closed || !s.paused {
		s.mu.Unlock()
		return false
	}
	s.paused = false
	s.startTimerLocked()
	s.mu.Unlock()

	s.log.Debug().Msg("session resumed")
	s.notify()
	return true
}

// RequestSubmit enters the confirmation step and returns the counts to
// show. Outside PhaseActive it only returns the counts.
func (s *Session) RequestSubmit() SubmitSummary {
	s.mu.Lock()
	sum := summarize(s.questions)
	changed := false
	if s.phase == PhaseActive && !s.closed && !s.confirming {
		s.confirming = true
		changed = true
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
	return sum
}

// CancelSubmit leaves the confirmation step.
func (s *Session) CancelSubmit() {
	s.mu.Lock()
	changed := s.confirming && s.phase == PhaseActive
	s.confirming = false
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

// ConfirmSubmit ends the session from the confirmation step. It returns
// false if there was nothing to confirm, including when the countdown
// already submitted the session.
func (s *Session) ConfirmSubmit() (Result, bool) {
	s.mu.Lock()
	if !s.confirming {
		s.mu.Unlock()
		return Result{}, false
	}
	h := s.submitLocked(false)
	s.mu.Unlock()

	if h == nil {
		return Result{}, false
	}
	s.finish(*h)
	return h.Results, true
}

// submitLocked freezes the session and compiles the Result. It returns nil
// if the session is not active, so only the first caller wins.
func (s *Session) submitLocked(auto bool) *Handoff {
	if s.phase != PhaseActive || s.closed {
		return nil
	}
	s.phase = PhaseSubmitted
	s.confirming = false
	s.paused = false
	s.stopTimerLocked()

	r := CompileResult(s.questions, s.cfg.DurationSeconds-s.remaining, auto, s.now())
	s.result = &r
	return &Handoff{
		TestConfig: s.cfg,
		Questions:  cloneQuestions(s.questions),
		Results:    r,
	}
}

// finish runs the side effects of a submit outside the lock.
func (s *Session) finish(h Handoff) {
	s.autosave.Cancel()
	s.discardSnapshot()
	s.guard.Disarm()

	s.log.Info().
		Bool("auto", h.Results.AutoSubmitted).
		Int("correct", h.Results.CorrectCount).
		Int("attempted", h.Results.AttemptedCount).
		Int("score", h.Results.Score).
		Msg("session submitted")

	if s.sink != nil {
		s.sink.Deliver(h)
	}
	s.notify()
}

// Teardown releases the timer, pending autosave and exit guard without
// submitting. An active session writes one final snapshot so the attempt
// can be resumed with the time it had left.
func (s *Session) Teardown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.stopTimerLocked()
	active := s.phase == PhaseActive
	s.mu.Unlock()

	s.autosave.Cancel()
	if active {
		s.flush()
	}

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.guard.Disarm()
	if active {
		s.log.Info().Msg("session abandoned")
	}
}

// State returns a copy of the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Config:           s.cfg,
		Questions:        cloneQuestions(s.questions),
		CurrentIndex:     s.current,
		RemainingSeconds: s.remaining,
		Phase:            s.phase,
		Autosave:         s.status,
		Paused:           s.paused,
		ConfirmingSubmit: s.confirming,
		PaletteVisible:   s.palette,
		Restored:         s.restored,
		StartedAt:        s.startedAt,
	}
	if s.result != nil {
		r := *s.result
		st.Result = &r
	}
	return st
}

// Result returns the compiled result once the session is submitted.
func (s *Session) Result() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

func (s *Session) startTimerLocked() {
	s.stopTimerLocked()
	s.timerGen++
	gen := s.timerGen
	s.stopTimer = s.sched.Every(time.Second, func() { s.tick(gen) })
}

func (s *Session) stopTimerLocked() {
	if s.stopTimer != nil {
		s.stopTimer()
		s.stopTimer = nil
	}
	s.timerGen++
}

// tick is the countdown callback. Ticks from a cancelled timer are
// recognised by their generation and dropped.
func (s *Session) tick(gen uint64) {
	s.mu.Lock()
	if gen != s.timerGen || s.phase != PhaseActive || s.paused || s.closed {
		s.mu.Unlock()
		return
	}
	s.remaining--
	var h *Handoff
	if s.remaining <= 0 {
		s.remaining = 0
		h = s.submitLocked(true)
	}
	s.mu.Unlock()

	if h != nil {
		s.finish(*h)
		return
	}
	s.notify()
}

// flush writes the autosave snapshot. It runs on the debounce callback.
func (s *Session) flush() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.phase != PhaseActive || s.closed || s.store == nil {
		s.mu.Unlock()
		return
	}
	snap := Snapshot{
		Questions:       cloneQuestions(s.questions),
		CurrentQuestion: s.current,
		TimeLeft:        s.remaining,
		Timestamp:       s.now().UnixMilli(),
	}
	s.mu.Unlock()

	err := s.write(snap)

	s.mu.Lock()
	if s.phase == PhaseActive {
		switch {
		case err != nil:
			s.status = AutosaveError
		case !s.autosave.Pending():
			s.status = AutosaveSaved
		}
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error().Err(err).Msg("autosave failed")
	} else {
		s.log.Debug().Int("current", snap.CurrentQuestion).Int("remaining_s", snap.TimeLeft).Msg("autosaved")
	}
	s.notify()
}

func (s *Session) write(snap Snapshot) error {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	return s.store.Set(ctx, SnapshotKey(s.cfg.ExamID), data)
}

// discardSnapshot removes the autosave entry of a finished session so it is
// not offered for restore.
func (s *Session) discardSnapshot() {
	if s.store == nil {
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.store.Delete(ctx, SnapshotKey(s.cfg.ExamID)); err != nil {
		s.log.Warn().Err(err).Msg("delete autosave")
	}
}

func (s *Session) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
