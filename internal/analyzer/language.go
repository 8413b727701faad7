package analyzer

import (
	"path/filepath"
	"strings"

	"github.com/amrgaberM/codesense/internal/core"
)

// DetectLanguage guesses the language of a snippet: file extension first,
// then a couple of cheap content heuristics, falling back to "text".
// The fallback is deliberately not a supported language, so detection failure
// surfaces as ErrUnsupportedLanguage instead of a review in the wrong dialect.
func DetectLanguage(code, filename string) string {
	if filename != "" {
		langs := core.SupportedLanguages()
		if lang := langs.FromExtension(filepath.Ext(filename)); lang != "" {
			return lang
		}
	}

	switch {
	case strings.Contains(code, "package main") || strings.Contains(code, "func "):
		return "go"
	case strings.Contains(code, "def ") || strings.Contains(code, "import "):
		return "python"
	case strings.Contains(code, "const ") || strings.Contains(code, "function "):
		return "javascript"
	}
	return "text"
}
