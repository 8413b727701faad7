package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/amrgaberM/codesense/internal/analyzer"
	"github.com/amrgaberM/codesense/internal/core"
	"github.com/amrgaberM/codesense/internal/llm"
	"github.com/amrgaberM/codesense/mocks"
)

func newReviewHandler(llmc llm.Client) *ReviewHandler {
	a := analyzer.New(llmc, testLogger(), 1)
	return NewReviewHandler(a, testLogger())
}

func completingLLM(ctrl *gomock.Controller, response string) *mocks.MockLLMClient {
	llmc := mocks.NewMockLLMClient(ctrl)
	llmc.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(response, nil).AnyTimes()
	return llmc
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/review", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestReviewEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newReviewHandler(completingLLM(ctrl,
		`{"summary": "one bug", "issues": [{"title": "Division by zero", "severity": "high", "category": "bug", "line": 1}]}`))

	rec := postJSON(t, h.Review, `{"code": "a/b", "language": "python"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result core.ReviewResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 85, result.QualityScore)
	assert.Equal(t, 1, result.FilesReviewed)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, core.SeverityHigh, result.Issues[0].Severity)
	assert.NotEmpty(t, result.ReviewID)
}

func TestReviewEndpointBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Empty code", `{"code": "", "language": "python"}`},
		{"Unsupported language", `{"code": "x", "language": "cobol"}`},
		{"Malformed JSON", `{"code": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			h := newReviewHandler(mocks.NewMockLLMClient(ctrl)) // provider must not be reached
			rec := postJSON(t, h.Review, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestReviewEndpointProviderDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	llmc := mocks.NewMockLLMClient(ctrl)
	llmc.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("", core.ErrProviderUnavailable)
	h := newReviewHandler(llmc)

	rec := postJSON(t, h.Review, `{"code": "x = 1", "language": "python"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestReviewWithTypeForcesAnalysisType(t *testing.T) {
	ctrl := gomock.NewController(t)

	var lastPrompt llm.Prompt
	llmc := mocks.NewMockLLMClient(ctrl)
	llmc.EXPECT().Complete(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p llm.Prompt) (string, error) {
			lastPrompt = p
			return `{"issues": []}`, nil
		})
	h := newReviewHandler(llmc)

	rec := postJSON(t, h.ReviewWithType(core.AnalysisSecurity), `{"code": "x = 1", "language": "python", "analysis_type": "general"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, lastPrompt.System, "security vulnerabilities")
}

func TestLanguagesEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newReviewHandler(mocks.NewMockLLMClient(ctrl))

	rec := httptest.NewRecorder()
	h.Languages(rec, httptest.NewRequest(http.MethodGet, "/api/v1/languages", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Languages []struct {
			Name       string   `json:"name"`
			Extensions []string `json:"extensions"`
		} `json:"languages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Languages, 11)
}

func TestDetectLanguageEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newReviewHandler(mocks.NewMockLLMClient(ctrl))

	t.Run("By filename", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.DetectLanguage(rec, httptest.NewRequest(http.MethodGet, "/api/v1/detect-language?filename=app.py", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"language":"python"`)
	})

	t.Run("Missing parameters", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.DetectLanguage(rec, httptest.NewRequest(http.MethodGet, "/api/v1/detect-language", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
