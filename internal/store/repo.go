package store

import (
	"context"
	"time"
)

// ResultRecord is one submitted attempt in the results history.
type ResultRecord struct {
	ID            int
	SessionID     string
	ExamID        string
	Title         string
	Subject       string
	Mode          string
	TeacherCode   string
	Correct       int
	Attempted     int
	Total         int
	Accuracy      int
	Score         int
	Marked        int
	TimeTakenSecs int
	AutoSubmitted bool
	SubmittedAt   time.Time
}

// ResultRepo stores submitted results.
type ResultRepo interface {
	// Save inserts rec and sets rec.ID.
	Save(ctx context.Context, rec *ResultRecord) error

	// Recent returns up to limit results, newest first (0 = unlimited).
	Recent(ctx context.Context, limit int) ([]ResultRecord, error)

	// ForExam returns the results of one exam, newest first.
	ForExam(ctx context.Context, examID string, limit int) ([]ResultRecord, error)
}

// Session event actions.
const (
	ActionStart   = "start"
	ActionSubmit  = "submit"
	ActionAbandon = "abandon"
)

// SessionEventData captures a session lifecycle transition.
type SessionEventData struct {
	SessionID     string
	ExamID        string
	Action        string
	Attempted     int
	Correct       int
	RemainingSecs int
}

// SessionEvent is a stored SessionEventData.
type SessionEvent struct {
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMUsage aggregates LLM request events per provider and model.
type LLMUsage struct {
	Provider     string
	Model        string
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	// AppendSessionEvent records a session lifecycle transition.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// SessionEvents returns the events of one session in sequence order.
	SessionEvents(ctx context.Context, sessionID string) ([]SessionEvent, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// LLMUsage summarises recorded LLM calls.
	LLMUsage(ctx context.Context) ([]LLMUsage, error)
}

// KV is implemented by every autosave backend.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// List returns the entries whose key starts with prefix, ordered by key.
	List(ctx context.Context, prefix string) ([]KVEntry, error)
}

var (
	_ KV = (*SQLiteKV)(nil)
	_ KV = (*MemoryKV)(nil)
	_ KV = (*RedisKV)(nil)
)
