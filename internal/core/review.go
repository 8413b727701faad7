package core

import "time"

// FileReview holds the normalized analysis of a single piece of code.
type FileReview struct {
	Filename    string  `json:"filename"`
	Language    string  `json:"language"`
	LinesOfCode int     `json:"lines_of_code"`
	Summary     string  `json:"summary,omitempty"`
	Issues      []Issue `json:"issues"`
	Degraded    bool    `json:"degraded,omitempty"` // model response could not be fully parsed
}

// ReviewResult is the aggregated output of analyzing one or more files,
// including a derived quality score.
type ReviewResult struct {
	ReviewID      string       `json:"review_id"`
	FilesReviewed int          `json:"files_reviewed"`
	Issues        []Issue      `json:"issues"`
	QualityScore  int          `json:"quality_score"`
	Summary       string       `json:"summary,omitempty"`
	Degraded      bool         `json:"degraded,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	Files         []FileReview `json:"files,omitempty"`
}

// SeverityCounts returns the number of issues per severity level.
func (r *ReviewResult) SeverityCounts() map[Severity]int {
	counts := make(map[Severity]int, len(Severities))
	for _, issue := range r.Issues {
		counts[issue.Severity]++
	}
	return counts
}

// HasBlockingIssues reports whether the result contains critical findings.
func (r *ReviewResult) HasBlockingIssues() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityCritical {
			return true
		}
	}
	return false
}
