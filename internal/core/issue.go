// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

import "strings"

// Severity is the ordered priority of an Issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Severities lists all severity levels from most to least severe.
var Severities = []Severity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
	SeverityInfo,
}

// Rank returns a numeric rank for sorting (higher = more severe).
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 5
	case SeverityHigh:
		return 4
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// ParseSeverity maps a raw string to a Severity. Model output is untrusted free
// text, so unrecognized or missing values fall back to SeverityLow instead of
// being rejected.
func ParseSeverity(raw string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(raw))) {
	case SeverityCritical:
		return SeverityCritical
	case SeverityHigh:
		return SeverityHigh
	case SeverityMedium:
		return SeverityMedium
	case SeverityLow:
		return SeverityLow
	case SeverityInfo:
		return SeverityInfo
	default:
		return SeverityLow
	}
}

// Category classifies the kind of problem an Issue reports.
type Category string

const (
	CategorySecurity    Category = "security"
	CategoryBug         Category = "bug"
	CategoryPerformance Category = "performance"
	CategoryQuality     Category = "quality"
	CategoryStyle       Category = "style"
)

// ParseCategory maps a raw string to a Category, falling back to
// CategoryQuality for unrecognized or missing values.
func ParseCategory(raw string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(raw))) {
	case CategorySecurity:
		return CategorySecurity
	case CategoryBug:
		return CategoryBug
	case CategoryPerformance:
		return CategoryPerformance
	case CategoryQuality:
		return CategoryQuality
	case CategoryStyle:
		return CategoryStyle
	default:
		return CategoryQuality
	}
}

// Issue represents a single reported code problem with severity, category,
// and remediation guidance.
type Issue struct {
	ID           string   `json:"id"`
	Severity     Severity `json:"severity"`
	Category     Category `json:"category"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Line         int      `json:"line,omitempty"` // 1-indexed; 0 means unknown
	Suggestion   string   `json:"suggestion,omitempty"`
	FixedSnippet string   `json:"fixed_snippet,omitempty"`
}
