package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Severity
	}{
		{"Exact match", "critical", SeverityCritical},
		{"Uppercase", "HIGH", SeverityHigh},
		{"Surrounding whitespace", "  medium  ", SeverityMedium},
		{"Info", "info", SeverityInfo},
		{"Unknown falls back to low", "catastrophic", SeverityLow},
		{"Empty falls back to low", "", SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSeverity(tt.input))
		})
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Category
	}{
		{"Security", "security", CategorySecurity},
		{"Bug uppercase", "BUG", CategoryBug},
		{"Performance", "performance", CategoryPerformance},
		{"Style", "style", CategoryStyle},
		{"Unknown falls back to quality", "documentation", CategoryQuality},
		{"Empty falls back to quality", "", CategoryQuality},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCategory(tt.input))
		})
	}
}

func TestSeverityRankOrdering(t *testing.T) {
	for i := 1; i < len(Severities); i++ {
		assert.Greater(t, Severities[i-1].Rank(), Severities[i].Rank(),
			"%s must outrank %s", Severities[i-1], Severities[i])
	}
	assert.Equal(t, 0, Severity("bogus").Rank())
}
