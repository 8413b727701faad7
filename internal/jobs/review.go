package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/amrgaberM/codesense/internal/analyzer"
	"github.com/amrgaberM/codesense/internal/config"
	"github.com/amrgaberM/codesense/internal/core"
	"github.com/amrgaberM/codesense/internal/github"
)

const reviewTimeout = 5 * time.Minute

// ReviewJob reviews the changed files of a pull request and posts the result
// as a single PR comment.
type ReviewJob struct {
	cfg      *config.Config
	analyzer *analyzer.Analyzer
	ghClient github.Client
	logger   *slog.Logger
}

// NewReviewJob creates a new ReviewJob.
func NewReviewJob(cfg *config.Config, a *analyzer.Analyzer, ghClient github.Client, logger *slog.Logger) core.Job {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if a == nil {
		panic("analyzer cannot be nil")
	}
	if ghClient == nil {
		panic("github client cannot be nil")
	}
	return &ReviewJob{cfg: cfg, analyzer: a, ghClient: ghClient, logger: logger}
}

// Run executes the code review job for a pull request event.
func (j *ReviewJob) Run(ctx context.Context, event *core.ReviewEvent) error {
	if err := j.validateInputs(event); err != nil {
		return fmt.Errorf("input validation failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, reviewTimeout)
	defer cancel()

	j.logger.Info("starting review job", "repo", event.RepoFullName, "pr", event.PRNumber)

	files, err := j.ghClient.GetChangedFiles(ctx, event.RepoOwner, event.RepoName, event.PRNumber)
	if err != nil {
		return fmt.Errorf("failed to list changed files: %w", err)
	}

	reviews := j.reviewPatches(ctx, files)
	if len(reviews) == 0 {
		j.logger.Info("no reviewable changes in pull request", "repo", event.RepoFullName, "pr", event.PRNumber)
		return nil
	}

	result := analyzer.Aggregate(reviews)
	body := github.FormatReviewComment(&result)

	if err := j.ghClient.CreateComment(ctx, event.RepoOwner, event.RepoName, event.PRNumber, body); err != nil {
		return fmt.Errorf("failed to post review comment: %w", err)
	}

	j.logger.Info("review job completed",
		"repo", event.RepoFullName,
		"pr", event.PRNumber,
		"review_id", result.ReviewID,
		"issues", len(result.Issues),
		"score", result.QualityScore,
	)
	return nil
}

// reviewPatches analyzes changed-file patches concurrently. Files without a
// patch (binary, renamed) or in an unsupported language are skipped; a file
// whose review fails outright becomes an info finding rather than failing
// the pull request.
func (j *ReviewJob) reviewPatches(ctx context.Context, files []github.ChangedFile) []core.FileReview {
	reviews := make([]core.FileReview, len(files))
	reviewed := make([]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.cfg.MaxWorkers)

	for i, file := range files {
		i, file := i, file
		if file.Patch == "" {
			continue
		}
		patch := truncatePatch(file.Patch, j.cfg.MaxPatchBytes)

		lang := analyzer.DetectLanguage(patch, file.Filename)
		if !j.analyzer.Languages().Contains(lang) {
			j.logger.Debug("skipping file in unsupported language", "file", file.Filename, "language", lang)
			continue
		}

		g.Go(func() error {
			review, err := j.analyzer.ReviewCode(gctx, core.AnalysisRequest{
				Code:         patch,
				Filename:     file.Filename,
				Language:     lang,
				AnalysisType: core.AnalysisGeneral,
			})
			if err != nil {
				j.logger.Warn("patch review failed", "file", file.Filename, "error", err)
				review = core.FileReview{
					Filename: file.Filename,
					Language: lang,
					Issues: []core.Issue{{
						Severity:    core.SeverityInfo,
						Category:    core.CategoryQuality,
						Title:       "File Processing Error",
						Description: err.Error(),
					}},
				}
			}
			reviews[i] = review
			reviewed[i] = true
			return nil
		})
	}
	_ = g.Wait()

	out := make([]core.FileReview, 0, len(files))
	for i := range reviews {
		if reviewed[i] {
			out = append(out, reviews[i])
		}
	}
	return out
}

// truncatePatch caps a patch at maxBytes without splitting a UTF-8 rune, so
// the model is never sent an invalid byte sequence.
func truncatePatch(patch string, maxBytes int) string {
	if len(patch) <= maxBytes {
		return patch
	}
	n := maxBytes
	for n > 0 && !utf8.RuneStart(patch[n]) {
		n--
	}
	return patch[:n]
}

// validateInputs ensures the event contains all required fields.
func (j *ReviewJob) validateInputs(event *core.ReviewEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.RepoOwner == "" {
		return fmt.Errorf("repository owner cannot be empty")
	}
	if event.RepoName == "" {
		return fmt.Errorf("repository name cannot be empty")
	}
	if event.PRNumber <= 0 {
		return fmt.Errorf("pull request number must be positive, got: %d", event.PRNumber)
	}
	return nil
}
