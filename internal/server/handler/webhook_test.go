package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/amrgaberM/codesense/internal/config"
	"github.com/amrgaberM/codesense/internal/core"
	"github.com/amrgaberM/codesense/mocks"
)

const testSecret = "hunter2"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func prPayload(t *testing.T, action string) []byte {
	t.Helper()
	payload := map[string]any{
		"action": action,
		"number": 42,
		"pull_request": map[string]any{
			"number": 42,
			"title":  "Add feature",
			"head":   map[string]any{"sha": "abc123"},
		},
		"repository": map[string]any{
			"name":      "hello",
			"full_name": "octocat/hello",
			"owner":     map[string]any{"login": "octocat"},
		},
		"sender": map[string]any{"login": "octocat"},
	}
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return b
}

func signedRequest(t *testing.T, event string, payload []byte, secret string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/github", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", event)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	req.Header.Set("X-Hub-Signature-256", "sha256="+hex.EncodeToString(mac.Sum(nil)))
	return req
}

func newWebhookHandler(dispatcher core.JobDispatcher) *WebhookHandler {
	cfg := &config.Config{GitHubWebhookSecret: testSecret}
	return NewWebhookHandler(cfg, dispatcher, testLogger())
}

func TestWebhookHandlerDispatchesOpenedPR(t *testing.T) {
	ctrl := gomock.NewController(t)
	dispatcher := mocks.NewMockJobDispatcher(ctrl)

	var dispatched *core.ReviewEvent
	dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, event *core.ReviewEvent) error {
			dispatched = event
			return nil
		})

	h := newWebhookHandler(dispatcher)
	rec := httptest.NewRecorder()
	h.Handle(rec, signedRequest(t, "pull_request", prPayload(t, "opened"), testSecret))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.NotNil(t, dispatched)
	assert.Equal(t, "octocat/hello", dispatched.RepoFullName)
	assert.Equal(t, 42, dispatched.PRNumber)
}

func TestWebhookHandlerRejectsBadSignature(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newWebhookHandler(mocks.NewMockJobDispatcher(ctrl)) // no Dispatch expected

	rec := httptest.NewRecorder()
	h.Handle(rec, signedRequest(t, "pull_request", prPayload(t, "opened"), "wrong-secret"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookHandlerIgnoresUnreviewableActions(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newWebhookHandler(mocks.NewMockJobDispatcher(ctrl))

	rec := httptest.NewRecorder()
	h.Handle(rec, signedRequest(t, "pull_request", prPayload(t, "closed"), testSecret))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookHandlerIgnoresOtherEventTypes(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newWebhookHandler(mocks.NewMockJobDispatcher(ctrl))

	payload := []byte(`{"zen": "Keep it logically awesome."}`)
	rec := httptest.NewRecorder()
	h.Handle(rec, signedRequest(t, "ping", payload, testSecret))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookHandlerQueueFull(t *testing.T) {
	ctrl := gomock.NewController(t)
	dispatcher := mocks.NewMockJobDispatcher(ctrl)
	dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(assert.AnError)

	h := newWebhookHandler(dispatcher)
	rec := httptest.NewRecorder()
	h.Handle(rec, signedRequest(t, "pull_request", prPayload(t, "opened"), testSecret))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
