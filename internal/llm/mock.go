package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// MockResponse is one scripted reply of a MockProvider. A non-nil Err is
// returned instead of a response.
type MockResponse struct {
	Content    json.RawMessage
	Usage      Usage
	StopReason string
	Err        error
}

// MockProvider replays scripted responses in order and records every
// request. Content is returned as scripted, without schema checks, so
// callers can exercise their own validation.
type MockProvider struct {
	mu     sync.Mutex
	script []MockResponse

	// Calls holds the requests received so far. Read it only after the
	// calls under test have returned.
	Calls []Request
}

var errScriptExhausted = errors.New("no scripted response left")

// NewMockProvider returns a MockProvider that plays script.
func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	if len(m.script) == 0 {
		m.mu.Unlock()
		return nil, &Error{Kind: ErrProviderUnavailable, Provider: "mock", Err: errScriptExhausted}
	}
	next := m.script[0]
	m.script = m.script[1:]
	m.mu.Unlock()

	if next.Err != nil {
		return nil, next.Err
	}
	stop := next.StopReason
	if stop == "" {
		stop = StopEnd
	}
	return &Response{
		Content:    next.Content,
		Usage:      next.Usage,
		Model:      m.ModelID(),
		StopReason: stop,
	}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

// Enqueue appends replies to the script.
func (m *MockProvider) Enqueue(replies ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, replies...)
}

// CallCount is the number of Generate calls so far.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Pending is the number of scripted replies not yet consumed.
func (m *MockProvider) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.script)
}
