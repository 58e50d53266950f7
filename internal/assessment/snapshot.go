package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"golang.org/x/mod/semver"
)

// SnapshotVersion is written into every autosave entry. Entries whose major
// version differs are ignored on restore.
const SnapshotVersion = "v1.0.0"

// snapshotKeyPrefix namespaces autosave entries in the key-value store.
const snapshotKeyPrefix = "mocktest_"

// KeyValueStore is the durable storage capability used by autosave.
type KeyValueStore interface {
	// Get returns the stored value, or nil if key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Snapshot is the persisted form of an in-progress session.
type Snapshot struct {
	Version         string     `json:"version,omitempty"`
	Questions       []Question `json:"questions"`
	CurrentQuestion int        `json:"currentQuestion"`
	TimeLeft        int        `json:"timeLeft"`
	Timestamp       int64      `json:"timestamp"` // unix millis
}

// SavedAt returns Timestamp as a time.Time.
func (s Snapshot) SavedAt() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// SnapshotKey returns the store key for an exam's autosave entry.
func SnapshotKey(examID string) string {
	return snapshotKeyPrefix + examID
}

// EncodeSnapshot marshals a snapshot, stamping the current version.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	s.Version = SnapshotVersion
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return b, nil
}

// DecodeSnapshot unmarshals a stored entry. Entries written without a
// version are treated as v1.0.0.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if s.Version == "" {
		s.Version = SnapshotVersion
	}
	if !semver.IsValid(s.Version) {
		return Snapshot{}, fmt.Errorf("snapshot version %q is not valid semver", s.Version)
	}
	return s, nil
}

// LoadSnapshot reads and decodes the autosave entry for examID. It returns
// nil when no entry exists.
func LoadSnapshot(ctx context.Context, kv KeyValueStore, examID string) (*Snapshot, error) {
	data, err := kv.Get(ctx, SnapshotKey(examID))
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	s, err := DecodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CompatibleWith reports whether the snapshot can be restored over the
// given question bank: same major version, the same questions in the same
// order (ids, prompts, options and correct answers), and every stored
// answer still a valid option.
func (s Snapshot) CompatibleWith(questions []Question, durationSeconds int) bool {
	if semver.Major(s.Version) != semver.Major(SnapshotVersion) {
		return false
	}
	if len(s.Questions) != len(questions) {
		return false
	}
	if s.TimeLeft <= 0 || s.TimeLeft > durationSeconds {
		return false
	}
	for i, q := range s.Questions {
		if !sameContent(q, questions[i]) {
			return false
		}
		if q.UserAnswerIndex != nil && !questions[i].ValidOption(*q.UserAnswerIndex) {
			return false
		}
	}
	return true
}

// sameContent compares everything but the learner's answer and mark.
// Ids run 1..n for every bank, so they alone say nothing.
func sameContent(a, b Question) bool {
	return a.ID == b.ID &&
		a.Prompt == b.Prompt &&
		a.CorrectOptionIndex == b.CorrectOptionIndex &&
		slices.Equal(a.Options, b.Options)
}

// Resumable reports whether the saved questions can seed a new session on
// their own: a known major version and well-formed items.
func (s Snapshot) Resumable() bool {
	if semver.Major(s.Version) != semver.Major(SnapshotVersion) || len(s.Questions) == 0 {
		return false
	}
	for _, q := range s.Questions {
		if q.Prompt == "" || len(q.Options) < 2 || !q.ValidOption(q.CorrectOptionIndex) {
			return false
		}
	}
	return true
}

// Bank returns the saved questions with answers and marks cleared. Sources
// that generate fresh content on every call cannot reproduce an attempt,
// so a resumed session is built on this instead; Start then restores the
// learner's state over it.
func (s Snapshot) Bank() []Question {
	qs := cloneQuestions(s.Questions)
	for i := range qs {
		qs[i].UserAnswerIndex = nil
		qs[i].MarkedForReview = false
	}
	return qs
}

// applyTo copies the learner-editable fields from the snapshot onto the
// bank. CompatibleWith has already checked that the content matches.
func (s Snapshot) applyTo(questions []Question) {
	for i := range questions {
		saved := s.Questions[i]
		questions[i].MarkedForReview = saved.MarkedForReview
		questions[i].UserAnswerIndex = nil
		if saved.UserAnswerIndex != nil {
			v := *saved.UserAnswerIndex
			questions[i].UserAnswerIndex = &v
		}
	}
}
