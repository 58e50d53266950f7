package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenRouterProvider(t *testing.T) {
	_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"})
	assert.ErrorContains(t, err, "openrouter API key is required")

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "meta-llama/llama-3-8b"})
	require.NoError(t, err)
	assert.Equal(t, "meta-llama/llama-3-8b", p.ModelID())
}

func TestOpenRouterProvider_ReportsItsOwnName(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		openAIFailure(http.StatusServiceUnavailable, "overloaded")(w, r)
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "x/y", BaseURL: server.URL + "/api/v1"})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), questionRequest())
	require.ErrorIs(t, err, ErrProviderUnavailable)
	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "openrouter", pe.Provider)
	assert.Equal(t, "/api/v1/chat/completions", path)
}
