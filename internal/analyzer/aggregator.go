package analyzer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amrgaberM/codesense/internal/core"
)

// severityPenalty is the per-issue score deduction. The exact constants are an
// internal policy choice; what matters is that a more severe issue always
// costs at least as much as a less severe one.
var severityPenalty = map[core.Severity]int{
	core.SeverityCritical: 25,
	core.SeverityHigh:     15,
	core.SeverityMedium:   8,
	core.SeverityLow:      3,
	core.SeverityInfo:     1,
}

// Aggregate folds per-file reviews into one ReviewResult. Issues are ordered
// by severity descending with ties kept in first-seen order, issue IDs are
// assigned after ordering, and the quality score is computed locally so the
// result is reproducible for the same findings.
func Aggregate(files []core.FileReview) core.ReviewResult {
	result := core.ReviewResult{
		ReviewID:      newReviewID(),
		FilesReviewed: len(files),
		CreatedAt:     time.Now().UTC(),
		Files:         files,
	}

	for _, file := range files {
		result.Issues = append(result.Issues, file.Issues...)
		result.Degraded = result.Degraded || file.Degraded
	}

	sort.SliceStable(result.Issues, func(i, j int) bool {
		return result.Issues[i].Severity.Rank() > result.Issues[j].Severity.Rank()
	})
	for i := range result.Issues {
		result.Issues[i].ID = fmt.Sprintf("ISS-%03d", i+1)
	}

	result.QualityScore = Score(result.Issues)
	result.Summary = summarize(result.Issues, result.SeverityCounts())
	return result
}

// Score derives a 0-100 quality score from the issue list. It starts at 100
// and subtracts a fixed penalty per issue scaled by severity weight, floored
// at zero. The fold is associative, so per-file results may be merged in any
// order without changing the score.
func Score(issues []core.Issue) int {
	score := 100
	for _, issue := range issues {
		score -= severityPenalty[issue.Severity]
	}
	if score < 0 {
		score = 0
	}
	return score
}

// summarize produces the one-line overall assessment shown in every renderer.
func summarize(issues []core.Issue, counts map[core.Severity]int) string {
	if len(issues) == 0 {
		return "No issues found! The code looks good."
	}

	var parts []string
	for _, sev := range core.Severities {
		if n := counts[sev]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, sev))
		}
	}

	summary := fmt.Sprintf("Found %d issues: %s.", len(issues), strings.Join(parts, ", "))
	if counts[core.SeverityCritical] > 0 {
		summary += " Critical issues require immediate attention!"
	}
	return summary
}

// newReviewID returns a short opaque identifier, generated once per review.
func newReviewID() string {
	return uuid.NewString()[:8]
}
