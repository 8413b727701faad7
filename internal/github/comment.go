package github

import (
	"fmt"
	"strings"

	"github.com/amrgaberM/codesense/internal/core"
)

var severityBadges = map[core.Severity]string{
	core.SeverityCritical: "🔴 Critical",
	core.SeverityHigh:     "🟠 High",
	core.SeverityMedium:   "🟡 Medium",
	core.SeverityLow:      "🔵 Low",
	core.SeverityInfo:     "⚪ Info",
}

// maxCommentIssues keeps PR comments readable; the full result is still
// available through the API.
const maxCommentIssues = 20

// FormatReviewComment renders a ReviewResult as a Markdown pull request comment.
func FormatReviewComment(result *core.ReviewResult) string {
	var sb strings.Builder

	sb.WriteString("# CodeSense AI Review\n\n")
	fmt.Fprintf(&sb, "**Quality Score:** %d/100\n\n", result.QualityScore)

	if result.Summary != "" {
		sb.WriteString(result.Summary + "\n\n")
	}
	if result.Degraded {
		sb.WriteString("> ⚠️ Parts of the model response could not be parsed; this review may be incomplete.\n\n")
	}

	counts := result.SeverityCounts()
	if len(result.Issues) > 0 {
		sb.WriteString("| Severity | Count |\n|---|---|\n")
		for _, sev := range core.Severities {
			if n := counts[sev]; n > 0 {
				fmt.Fprintf(&sb, "| %s | %d |\n", severityBadges[sev], n)
			}
		}
		sb.WriteString("\n")
	}

	for i, issue := range result.Issues {
		if i == maxCommentIssues {
			fmt.Fprintf(&sb, "_...and %d more issues._\n\n", len(result.Issues)-maxCommentIssues)
			break
		}
		writeIssueSection(&sb, issue)
	}

	sb.WriteString("---\n*Automated code review by [CodeSense AI](https://github.com/amrgaberM/codesense)*")
	return sb.String()
}

func writeIssueSection(sb *strings.Builder, issue core.Issue) {
	fmt.Fprintf(sb, "### %s | %s | %s\n\n", severityBadges[issue.Severity], issue.Category, issue.Title)
	if issue.Line > 0 {
		fmt.Fprintf(sb, "*Line %d*\n\n", issue.Line)
	}
	if issue.Description != "" {
		sb.WriteString(issue.Description + "\n\n")
	}
	if issue.Suggestion != "" {
		fmt.Fprintf(sb, "**Fix:** %s\n\n", issue.Suggestion)
	}
	if issue.FixedSnippet != "" {
		fmt.Fprintf(sb, "```suggestion\n%s\n```\n\n", issue.FixedSnippet)
	}
}
