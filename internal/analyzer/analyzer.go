// Package analyzer orchestrates code reviews: it builds prompts, calls the
// model provider, normalizes the reply, and aggregates per-file findings into
// a single result.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/amrgaberM/codesense/internal/core"
	"github.com/amrgaberM/codesense/internal/llm"
)

// Analyzer coordinates single- and multi-file reviews. Every invocation is
// stateless; the same Analyzer may serve concurrent reviews.
type Analyzer struct {
	client      llm.Client
	langs       core.LanguageSet
	logger      *slog.Logger
	maxParallel int
}

// New creates an Analyzer backed by the given model client.
func New(client llm.Client, logger *slog.Logger, maxParallel int) *Analyzer {
	if maxParallel <= 0 {
		maxParallel = 1
	}
	return &Analyzer{
		client:      client,
		langs:       core.SupportedLanguages(),
		logger:      logger,
		maxParallel: maxParallel,
	}
}

// Languages exposes the supported language set for validation and listings.
func (a *Analyzer) Languages() core.LanguageSet { return a.langs }

// ReviewCode reviews one piece of source code. Structural errors
// (core.ErrInvalidRequest, core.ErrUnsupportedLanguage) abort the review;
// an unparseable model reply degrades to an empty finding list instead.
func (a *Analyzer) ReviewCode(ctx context.Context, req core.AnalysisRequest) (core.FileReview, error) {
	if req.Language == "" {
		req.Language = DetectLanguage(req.Code, req.Filename)
	}

	prompt, err := llm.BuildPrompt(req, a.langs)
	if err != nil {
		return core.FileReview{}, err
	}

	raw, err := a.client.Complete(ctx, prompt)
	if err != nil {
		return core.FileReview{}, fmt.Errorf("model call failed: %w", err)
	}

	normalized, err := llm.Normalize(raw)
	if err != nil {
		return core.FileReview{}, fmt.Errorf("normalizing model response: %w", err)
	}
	if normalized.Degraded {
		a.logger.Warn("model response only partially parsed",
			"file", req.Filename,
			"diagnostic", normalized.Diagnostic,
		)
	}

	filename := req.Filename
	if filename == "" {
		filename = "code"
	}

	return core.FileReview{
		Filename:    filename,
		Language:    req.Language,
		LinesOfCode: len(strings.Split(req.Code, "\n")),
		Summary:     normalized.Summary,
		Issues:      normalized.Issues,
		Degraded:    normalized.Degraded,
	}, nil
}

// ReviewFile reads a file from disk and reviews it.
func (a *Analyzer) ReviewFile(ctx context.Context, path string, analysisType core.AnalysisType) (core.FileReview, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.FileReview{}, fmt.Errorf("reading %s: %w", path, err)
	}

	return a.ReviewCode(ctx, core.AnalysisRequest{
		Code:         string(data),
		Filename:     filepath.Base(path),
		Language:     DetectLanguage(string(data), path),
		AnalysisType: analysisType,
	})
}

// ReviewFiles reviews multiple files concurrently and folds the outcome into
// one ReviewResult. A file that fails structurally is reported as an
// info-severity finding for that file; it never aborts the rest of the batch.
// Result ordering follows the input order regardless of completion order.
func (a *Analyzer) ReviewFiles(ctx context.Context, paths []string, analysisType core.AnalysisType) core.ReviewResult {
	reviews := make([]core.FileReview, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxParallel)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			review, err := a.ReviewFile(gctx, path, analysisType)
			if err != nil {
				a.logger.Warn("file review failed", "file", path, "error", err)
				review = failedFileReview(path, err)
			}
			reviews[i] = review
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures become findings

	return Aggregate(reviews)
}

// failedFileReview represents a file that could not be analyzed at all.
func failedFileReview(path string, err error) core.FileReview {
	return core.FileReview{
		Filename: filepath.Base(path),
		Language: "unknown",
		Summary:  "Analysis encountered an error",
		Issues: []core.Issue{{
			Severity:    core.SeverityInfo,
			Category:    core.CategoryQuality,
			Title:       "File Processing Error",
			Description: err.Error(),
			Suggestion:  "Check the file and try again",
		}},
	}
}
