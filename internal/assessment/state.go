package assessment

import "time"

// Phase is the discrete state of a session.
type Phase int

const (
	PhaseNotStarted Phase = iota // Instructions shown, clock not running
	PhaseActive                  // Clock running, answers editable
	PhaseSubmitted               // Terminal; Result produced
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseSubmitted:
		return "submitted"
	default:
		return "not-started"
	}
}

// AutosaveStatus is the UI-facing state of the autosave channel.
type AutosaveStatus int

const (
	AutosaveSaved AutosaveStatus = iota
	AutosaveSaving
	AutosaveError
)

func (s AutosaveStatus) String() string {
	switch s {
	case AutosaveSaving:
		return "saving"
	case AutosaveError:
		return "error"
	default:
		return "saved"
	}
}

// State is a read-only copy of a session at one instant.
type State struct {
	Config SessionConfig

	// Questions is a deep copy; editing it has no effect on the session.
	Questions []Question

	CurrentIndex     int
	RemainingSeconds int
	Phase            Phase
	Autosave         AutosaveStatus

	// Paused stops the clock and blocks question edits.
	Paused bool

	// ConfirmingSubmit is true while the submit confirmation is pending.
	ConfirmingSubmit bool

	// PaletteVisible is a UI toggle with no effect on the session.
	PaletteVisible bool

	// Restored is true when Start resumed from an autosave snapshot.
	Restored bool

	StartedAt time.Time

	// Result is set once Phase is PhaseSubmitted.
	Result *Result
}

// Current returns the question at CurrentIndex, or false for an empty bank.
func (s State) Current() (Question, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// Summary counts questions by status.
func (s State) Summary() SubmitSummary {
	return summarize(s.Questions)
}

// SubmitSummary is shown in the submit confirmation.
type SubmitSummary struct {
	Attempted int
	Marked    int
	Total     int
}

// Unattempted returns the number of blank questions.
func (s SubmitSummary) Unattempted() int {
	return s.Total - s.Attempted
}

func summarize(qs []Question) SubmitSummary {
	sum := SubmitSummary{Total: len(qs)}
	for _, q := range qs {
		if q.Answered() {
			sum.Attempted++
		}
		if q.MarkedForReview {
			sum.Marked++
		}
	}
	return sum
}
