package llm

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amrgaberM/codesense/internal/config"
	"github.com/amrgaberM/codesense/internal/core"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*GroqClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewGroqClient(&config.Config{
		GroqAPIKey:  "test-key",
		GroqModel:   "llama-3.3-70b-versatile",
		GroqBaseURL: srv.URL,
	}, testLogger())
	require.NoError(t, err)
	return client, srv
}

func completionBody(content string) string {
	b, _ := json.Marshal(chatResponse{
		Choices: []chatChoice{{Message: chatMessage{Role: "assistant", Content: content}}},
		Usage:   chatUsage{TotalTokens: 42},
	})
	return string(b)
}

func TestGroqClientComplete(t *testing.T) {
	var gotReq chatRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = w.Write([]byte(completionBody(`{"summary": "ok", "issues": []}`)))
	})

	content, err := client.Complete(context.Background(), Prompt{System: "sys", User: "usr"})
	require.NoError(t, err)
	assert.Equal(t, `{"summary": "ok", "issues": []}`, content)

	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, "llama-3.3-70b-versatile", gotReq.Model)
	assert.InDelta(t, 0.1, gotReq.Temperature, 0.001)
}

func TestGroqClientRetriesRateLimit(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(completionBody("done")))
	})

	content, err := client.Complete(context.Background(), Prompt{User: "usr"})
	require.NoError(t, err)
	assert.Equal(t, "done", content)
	assert.Equal(t, 2, attempts)
}

func TestGroqClientAuthErrorNotRetried(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Complete(context.Background(), Prompt{User: "usr"})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrProviderUnavailable)
	assert.Equal(t, 1, attempts)
}

func TestGroqClientServerErrorSurfacesProviderUnavailable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Complete(context.Background(), Prompt{User: "usr"})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrProviderUnavailable)
}

func TestGroqClientContextCancellation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Complete(ctx, Prompt{User: "usr"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewGroqClientRequiresKey(t *testing.T) {
	_, err := NewGroqClient(&config.Config{}, testLogger())
	assert.Error(t, err)
}
