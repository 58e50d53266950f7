package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRetry wraps mock with a retry policy whose sleeps are recorded
// instead of slept.
func newTestRetry(mock *MockProvider, attempts int) (*RetryProvider, *[]time.Duration) {
	var waits []time.Duration
	r := WithRetry(mock, RetryConfig{
		MaxAttempts: attempts,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     time.Second,
		Multiplier:  2,
	}, zerolog.Nop())
	r.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return r, &waits
}

func ok() MockResponse { return MockResponse{Content: json.RawMessage(`{"ok":true}`)} }

func TestRetry_FirstAttemptSucceeds(t *testing.T) {
	mock := NewMockProvider(ok())
	r, waits := newTestRetry(mock, 3)

	resp, err := r.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
	assert.Equal(t, 1, mock.CallCount())
	assert.Empty(t, *waits)
	assert.Equal(t, "mock", r.ModelID())
}

func TestRetry_TransientFailures(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &Error{Kind: ErrProviderUnavailable, Status: 503}},
		MockResponse{Err: errors.New("connection reset")},
		ok(),
	)
	r, waits := newTestRetry(mock, 3)

	_, err := r.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 3, mock.CallCount())
	require.Len(t, *waits, 2)
	assert.InDelta(t, float64(100*time.Millisecond), float64((*waits)[0]), float64(20*time.Millisecond))
	assert.InDelta(t, float64(200*time.Millisecond), float64((*waits)[1]), float64(40*time.Millisecond))
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &Error{Kind: ErrProviderUnavailable}},
		MockResponse{Err: &Error{Kind: ErrProviderUnavailable}},
		ok(),
	)
	r, _ := newTestRetry(mock, 2)

	_, err := r.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetry_HonoursRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &Error{Kind: ErrRateLimit, RetryAfter: 3 * time.Second}},
		ok(),
	)
	r, waits := newTestRetry(mock, 3)

	_, err := r.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{3 * time.Second}, *waits)
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	bad := MockResponse{Err: invalidResponse("mock", json.RawMessage(`{}`), "missing questions")}
	mock := NewMockProvider(bad, bad, ok())
	r, _ := newTestRetry(mock, 5)

	_, err := r.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetry_PermanentFailuresNotRetried(t *testing.T) {
	for _, kind := range []error{ErrTruncated, ErrRejected, context.Canceled} {
		t.Run(kind.Error(), func(t *testing.T) {
			mock := NewMockProvider(MockResponse{Err: &Error{Kind: kind}}, ok())
			r, waits := newTestRetry(mock, 3)

			_, err := r.Generate(context.Background(), Request{})
			assert.ErrorIs(t, err, kind)
			assert.Equal(t, 1, mock.CallCount())
			assert.Empty(t, *waits)
		})
	}
}

func TestRetry_StopsWhenContextEnds(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &Error{Kind: ErrProviderUnavailable}}, ok())
	r, _ := newTestRetry(mock, 3)
	ctx, cancel := context.WithCancel(context.Background())
	r.sleep = func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}

	_, err := r.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_LogsAttempts(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &Error{Kind: ErrRateLimit}}, ok())
	var buf bytes.Buffer
	r, _ := newTestRetry(mock, 2)
	r.log = zerolog.New(&buf).Level(zerolog.DebugLevel)

	_, err := r.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"kind":"rate_limit"`)
	assert.Contains(t, buf.String(), `"attempt":1`)
}

func TestRetryConfig_Backoff(t *testing.T) {
	cfg := RetryConfig{InitialWait: time.Second, MaxWait: 5 * time.Second, Multiplier: 2}
	assert.Equal(t, time.Second, cfg.Backoff(1))
	assert.Equal(t, 2*time.Second, cfg.Backoff(2))
	assert.Equal(t, 4*time.Second, cfg.Backoff(3))
	assert.Equal(t, 5*time.Second, cfg.Backoff(4))
}

func TestRetry_ZeroAttemptsStillCallsOnce(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &Error{Kind: ErrProviderUnavailable}})
	r, _ := newTestRetry(mock, 0)

	_, err := r.Generate(context.Background(), Request{})
	assert.Error(t, err)
	assert.Equal(t, 1, mock.CallCount())
}
