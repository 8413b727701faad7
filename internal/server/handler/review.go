// Package handler provides HTTP handlers for the CodeSense API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/amrgaberM/codesense/internal/analyzer"
	"github.com/amrgaberM/codesense/internal/core"
)

// ReviewHandler serves the code review endpoints.
type ReviewHandler struct {
	analyzer *analyzer.Analyzer
	logger   *slog.Logger
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(a *analyzer.Analyzer, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{analyzer: a, logger: logger}
}

// reviewRequest is the JSON body of POST /api/v1/review.
type reviewRequest struct {
	Code         string `json:"code"`
	Filename     string `json:"filename,omitempty"`
	Language     string `json:"language,omitempty"`
	AnalysisType string `json:"analysis_type,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Review handles POST /api/v1/review.
func (h *ReviewHandler) Review(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, "")
}

// ReviewWithType returns a handler that forces a specific analysis type,
// ignoring whatever the body says.
func (h *ReviewHandler) ReviewWithType(analysisType core.AnalysisType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.review(w, r, analysisType)
	}
}

func (h *ReviewHandler) review(w http.ResponseWriter, r *http.Request, forcedType core.AnalysisType) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	analysisType := core.ParseAnalysisType(req.AnalysisType)
	if forcedType != "" {
		analysisType = forcedType
	}

	review, err := h.analyzer.ReviewCode(r.Context(), core.AnalysisRequest{
		Code:         req.Code,
		Filename:     req.Filename,
		Language:     req.Language,
		AnalysisType: analysisType,
	})
	if err != nil {
		h.writeReviewError(w, err)
		return
	}

	result := analyzer.Aggregate([]core.FileReview{review})
	WriteJSON(w, http.StatusOK, result)
}

func (h *ReviewHandler) writeReviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidRequest), errors.Is(err, core.ErrUnsupportedLanguage):
		WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrProviderUnavailable):
		h.logger.Error("model provider unavailable", "error", err)
		WriteJSON(w, http.StatusBadGateway, errorResponse{Error: "model provider unavailable"})
	default:
		h.logger.Error("review failed", "error", err)
		WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "review failed"})
	}
}

// Languages handles GET /api/v1/languages.
func (h *ReviewHandler) Languages(w http.ResponseWriter, _ *http.Request) {
	langs := h.analyzer.Languages()

	type languageInfo struct {
		Name       string   `json:"name"`
		Extensions []string `json:"extensions"`
	}
	var out []languageInfo
	for _, name := range langs.Names() {
		out = append(out, languageInfo{Name: name, Extensions: langs.Extensions(name)})
	}
	WriteJSON(w, http.StatusOK, map[string]any{"languages": out})
}

// DetectLanguage handles GET /api/v1/detect-language.
func (h *ReviewHandler) DetectLanguage(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	code := r.URL.Query().Get("code")
	if filename == "" && code == "" {
		WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "provide either filename or code parameter"})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"language": analyzer.DetectLanguage(code, filename),
		"filename": filename,
	})
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
