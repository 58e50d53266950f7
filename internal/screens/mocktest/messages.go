package mocktest

import "github.com/learnex/learnex/internal/assessment"

// savedAttemptMsg carries the autosave found for the exam, if any.
type savedAttemptMsg struct {
	Snapshot *assessment.Snapshot
}

// questionsLoadedMsg is sent when the question bank is ready.
type questionsLoadedMsg struct {
	Questions []assessment.Question
	Err       error
}

// startedMsg is sent once Session.Start has returned.
type startedMsg struct {
	OK bool
}

// changedMsg is sent after any session state change, including ticks.
type changedMsg struct{}

// submittedMsg carries the single handoff of the session.
type submittedMsg struct {
	Handoff assessment.Handoff
}
