package core

import (
	"fmt"
	"sort"
	"strings"
)

// AnalysisType selects the focus of a review.
type AnalysisType string

const (
	AnalysisGeneral     AnalysisType = "general"
	AnalysisSecurity    AnalysisType = "security"
	AnalysisPerformance AnalysisType = "performance"
	AnalysisQuality     AnalysisType = "quality"
)

// ParseAnalysisType maps a raw string to an AnalysisType, defaulting to
// AnalysisGeneral for empty or unrecognized input. Analysis type comes from
// our own callers rather than the model, so a loose default is acceptable here.
func ParseAnalysisType(raw string) AnalysisType {
	switch AnalysisType(strings.ToLower(strings.TrimSpace(raw))) {
	case AnalysisSecurity:
		return AnalysisSecurity
	case AnalysisPerformance:
		return AnalysisPerformance
	case AnalysisQuality:
		return AnalysisQuality
	default:
		return AnalysisGeneral
	}
}

// LanguageSet is an immutable set of supported language tags, constructed once
// at process start and passed explicitly to validation.
type LanguageSet struct {
	byName map[string]struct{}
	byExt  map[string]string
}

// SupportedLanguages builds the closed set of languages the reviewer accepts,
// keyed by canonical name and by file extension.
func SupportedLanguages() LanguageSet {
	byExt := map[string]string{
		".py":   "python",
		".js":   "javascript",
		".ts":   "typescript",
		".java": "java",
		".go":   "go",
		".rs":   "rust",
		".rb":   "ruby",
		".php":  "php",
		".c":    "c",
		".cpp":  "cpp",
		".cs":   "csharp",
	}
	byName := make(map[string]struct{}, len(byExt))
	for _, lang := range byExt {
		byName[lang] = struct{}{}
	}
	return LanguageSet{byName: byName, byExt: byExt}
}

// Contains reports whether lang is a recognized language tag.
func (s LanguageSet) Contains(lang string) bool {
	_, ok := s.byName[strings.ToLower(strings.TrimSpace(lang))]
	return ok
}

// FromExtension returns the language for a file extension like ".go",
// or "" if the extension is not recognized.
func (s LanguageSet) FromExtension(ext string) string {
	return s.byExt[strings.ToLower(ext)]
}

// Names returns all supported language names in sorted order.
func (s LanguageSet) Names() []string {
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extensions returns the file extensions mapped to a given language, sorted.
func (s LanguageSet) Extensions(lang string) []string {
	var exts []string
	for ext, l := range s.byExt {
		if l == lang {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

// AnalysisRequest describes a single review invocation. It is constructed per
// call, immutable, and never persisted.
type AnalysisRequest struct {
	Code         string
	Filename     string
	Language     string
	AnalysisType AnalysisType
}

// Validate checks the request against the supported language set. It must be
// called before any network activity so invalid requests are rejected early.
func (r AnalysisRequest) Validate(langs LanguageSet) error {
	if strings.TrimSpace(r.Code) == "" {
		return fmt.Errorf("source code is empty: %w", ErrInvalidRequest)
	}
	if !langs.Contains(r.Language) {
		return fmt.Errorf("language %q: %w", r.Language, ErrUnsupportedLanguage)
	}
	return nil
}
