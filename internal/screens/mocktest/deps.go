package mocktest

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/learnex/learnex/internal/assessment"
	"github.com/learnex/learnex/internal/schedule"
	"github.com/learnex/learnex/internal/store"
)

// eventTimeout bounds event log writes made from the UI.
const eventTimeout = 3 * time.Second

// loadTimeout bounds question generation, which may call an LLM.
const loadTimeout = 3 * time.Minute

// Deps is everything the mock test screens need from the host.
// Only Source is required.
type Deps struct {
	Source assessment.QuestionSource

	// Store holds autosave snapshots. Nil disables autosave and restore.
	Store assessment.KeyValueStore

	Results store.ResultRepo
	Events  store.EventRepo
	Guard   assessment.ExitGuard
	Log     zerolog.Logger

	AutosaveDelay time.Duration
	Scheduler     schedule.Scheduler
	Now           func() time.Time
}
