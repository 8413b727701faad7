// Package llm talks to the model provider and turns its free-form output into
// structured review data.
package llm

import (
	"fmt"
	"strings"

	"github.com/amrgaberM/codesense/internal/core"
)

// Prompt is a fully assembled request payload for the chat-completions API.
type Prompt struct {
	System string
	User   string
}

const systemPromptBase = `You are CodeSense AI, an expert code reviewer. Analyze code for bugs, security issues, and best practices. Always respond with valid JSON only, no markdown.

Respond ONLY with this JSON format:
{"summary": "brief assessment", "issues": [{"title": "Issue name", "description": "Details", "severity": "critical|high|medium|low|info", "category": "security|bug|performance|quality|style", "line": 1, "suggestion": "How to fix", "fixed_snippet": "corrected code"}]}`

// analysisFocus narrows the system instruction per analysis type. The general
// type adds nothing so identical inputs keep producing identical payloads.
var analysisFocus = map[core.AnalysisType]string{
	core.AnalysisSecurity:    "Focus exclusively on security vulnerabilities: injection, unsafe deserialization, secrets in code, path traversal, and authentication flaws.",
	core.AnalysisPerformance: "Focus exclusively on performance problems: wasted allocations, quadratic loops, blocking calls, and unbounded resource usage.",
	core.AnalysisQuality:     "Focus exclusively on maintainability and correctness: error handling gaps, dead code, misleading names, and missing edge cases.",
}

// BuildPrompt assembles a deterministic request payload from the analysis
// request. It validates the request first and performs no I/O: the same input
// always yields the same prompt.
func BuildPrompt(req core.AnalysisRequest, langs core.LanguageSet) (Prompt, error) {
	if err := req.Validate(langs); err != nil {
		return Prompt{}, err
	}

	system := systemPromptBase
	if focus, ok := analysisFocus[req.AnalysisType]; ok {
		system += "\n\n" + focus
	}

	var user strings.Builder
	fmt.Fprintf(&user, "Review this %s code", strings.ToLower(strings.TrimSpace(req.Language)))
	if req.Filename != "" {
		fmt.Fprintf(&user, " from %s", req.Filename)
	}
	user.WriteString(":\n\n```\n")
	user.WriteString(req.Code)
	user.WriteString("\n```\n")

	return Prompt{System: system, User: user.String()}, nil
}
