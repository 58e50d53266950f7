package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_PlaysScriptInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"questions":[]}`), Usage: Usage{InputTokens: 8, OutputTokens: 2}},
		MockResponse{Content: json.RawMessage(`{"questions":[{}]}`), StopReason: StopMaxTokens},
	)

	first, err := mock.Generate(context.Background(), Request{System: "exam writer"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"questions":[]}`, string(first.Content))
	assert.Equal(t, StopEnd, first.StopReason)
	assert.Equal(t, 8, first.Usage.InputTokens)

	second, err := mock.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, StopMaxTokens, second.StopReason)

	assert.Equal(t, 2, mock.CallCount())
	assert.Equal(t, "exam writer", mock.Calls[0].System)
	assert.Zero(t, mock.Pending())
}

func TestMockProvider_ExhaustedScript(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, 1, mock.CallCount())

	mock.Enqueue(MockResponse{Content: json.RawMessage(`{}`)})
	_, err = mock.Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

func TestMockProvider_ScriptedErrorAndCancel(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &Error{Kind: ErrRateLimit}})
	_, err := mock.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrRateLimit)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = mock.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount(), "cancelled call is not recorded")
}

func TestError_MatchesKindAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("generate: %w", &Error{Kind: ErrProviderUnavailable, Provider: "openai", Status: 503, Err: cause})

	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrRateLimit)
	assert.Equal(t, "generate: openai: provider unavailable (HTTP 503): connection reset", err.Error())

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 503, pe.Status)
}

func TestKindName(t *testing.T) {
	assert.Equal(t, "", KindName(nil))
	assert.Equal(t, "", KindName(errors.New("plain")))
	assert.Equal(t, "rate_limit", KindName(&Error{Kind: ErrRateLimit}))
	assert.Equal(t, "invalid", KindName(invalidResponse("x", nil, "bad")))
	assert.Equal(t, "truncated", KindName(&Error{Kind: ErrTruncated}))
	assert.Equal(t, "rejected", KindName(&Error{Kind: ErrRejected}))
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{0, ErrProviderUnavailable},
		{http.StatusTooManyRequests, ErrRateLimit},
		{http.StatusRequestTimeout, ErrProviderUnavailable},
		{http.StatusBadGateway, ErrProviderUnavailable},
		{http.StatusBadRequest, ErrRejected},
		{http.StatusUnauthorized, ErrRejected},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := statusError("anthropic", tt.status, nil, errors.New("boom"))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStatusError_RetryAfter(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "7")
	err := statusError("anthropic", http.StatusTooManyRequests, h, nil)
	assert.Equal(t, 7*time.Second, err.RetryAfter)
	assert.Contains(t, err.Error(), "retry after 7s")

	h.Set("Retry-After", "soon")
	assert.Zero(t, statusError("anthropic", http.StatusTooManyRequests, h, nil).RetryAfter)

	h.Set("Retry-After", time.Now().Add(-time.Minute).UTC().Format(http.TimeFormat))
	assert.Zero(t, statusError("anthropic", http.StatusTooManyRequests, h, nil).RetryAfter)
}

func TestFinish(t *testing.T) {
	schema := mcqSchema()
	valid := json.RawMessage(`{"prompt":"Unit of force?","options":["joule","newton"],"correct":1}`)

	resp, err := finish(Request{Schema: schema}, completion{
		provider: "openai",
		model:    "gpt-4o-mini",
		content:  valid,
		stop:     StopEnd,
		usage:    Usage{InputTokens: 10, OutputTokens: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, 15, resp.Usage.TotalTokens)
	assert.Equal(t, "gpt-4o-mini", resp.Model)

	var out struct {
		Correct int `json:"correct"`
	}
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, 1, out.Correct)

	_, err = finish(Request{Schema: schema}, completion{provider: "openai", content: json.RawMessage(`{"prompt":`), stop: StopMaxTokens})
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = finish(Request{Schema: schema}, completion{provider: "openai", content: json.RawMessage(`{"prompt":"x"}`), stop: StopEnd})
	assert.ErrorIs(t, err, ErrInvalidResponse)

	// Without a schema, a length stop is just a stop reason.
	resp, err = finish(Request{}, completion{provider: "openai", content: json.RawMessage(`"partial"`), stop: StopMaxTokens})
	require.NoError(t, err)
	assert.Equal(t, StopMaxTokens, resp.StopReason)
}

func TestLabels(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))
	assert.Empty(t, ExamFrom(ctx))

	ctx = WithExam(WithPurpose(ctx, "question-gen"), "jee-1")
	assert.Equal(t, "question-gen", PurposeFrom(ctx))
	assert.Equal(t, "jee-1", ExamFrom(ctx))

	ctx = WithPurpose(ctx, "check")
	assert.Equal(t, "jee-1", ExamFrom(ctx), "exam survives a purpose change")
}
