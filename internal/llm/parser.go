package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/amrgaberM/codesense/internal/core"
)

// NormalizedResponse is the structured form of one raw model reply.
type NormalizedResponse struct {
	Summary string
	Issues  []core.Issue
	// Degraded marks a reply that could not be fully parsed. The review still
	// proceeds with whatever was recovered; this is a warning, not an error.
	Degraded   bool
	Diagnostic string
}

var (
	trailingCommaObject = regexp.MustCompile(`,\s*}`)
	trailingCommaArray  = regexp.MustCompile(`,\s*]`)
)

const diagnosticSampleLen = 500

// Normalize converts the model's raw output into an ordered sequence of
// issues. The input is untrusted free text, so parsing is layered:
//
//  1. Strip any wrapping markdown code fence and attempt a strict JSON parse.
//  2. On failure, retry against the largest balanced JSON segment with
//     trailing commas repaired.
//  3. If recovery also fails, return an empty issue list flagged Degraded
//     rather than an error; a malformed reply must never crash the caller.
//
// Only an outright empty raw string is an error (core.ErrInvalidRequest).
func Normalize(raw string) (*NormalizedResponse, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("raw model response is empty: %w", core.ErrInvalidRequest)
	}

	text := stripCodeFence(raw)

	env, ok := decodeEnvelope(text)
	if !ok {
		recovered := repairJSON(largestBalancedSegment(text))
		if recovered != "" {
			env, ok = decodeEnvelope(recovered)
		}
	}
	if !ok {
		return &NormalizedResponse{
			Degraded:   true,
			Diagnostic: "response is not parseable JSON: " + sample(raw),
		}, nil
	}

	resp := &NormalizedResponse{Summary: strings.TrimSpace(env.Summary)}
	seen := make(map[string]struct{}, len(env.Issues))
	var badRecords []string

	for _, rec := range env.Issues {
		issue, ok := coerceIssue(rec)
		if !ok {
			badRecords = append(badRecords, sample(string(rec)))
			continue
		}
		// The model may report the same defect twice; keep the first.
		key := dedupeKey(issue)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		resp.Issues = append(resp.Issues, issue)
	}

	if len(badRecords) > 0 {
		resp.Degraded = true
		resp.Diagnostic = fmt.Sprintf("%d unrecognized issue records: %s",
			len(badRecords), strings.Join(badRecords, "; "))
	}
	return resp, nil
}

// envelope matches the reply shape the prompt asks for. A bare array of issue
// records is accepted as well since models frequently drop the wrapper object.
type envelope struct {
	Summary string            `json:"summary"`
	Issues  []json.RawMessage `json:"issues"`
}

func decodeEnvelope(text string) (envelope, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return envelope{}, false
	}

	if strings.HasPrefix(text, "[") {
		var records []json.RawMessage
		if err := json.Unmarshal([]byte(text), &records); err != nil {
			return envelope{}, false
		}
		return envelope{Issues: records}, true
	}

	var env envelope
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		return envelope{}, false
	}
	return env, true
}

// candidateIssue is the well-formed record variant.
type candidateIssue struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Severity     string `json:"severity"`
	Category     string `json:"category"`
	Line         int    `json:"line"`
	LineStart    int    `json:"line_start"`
	Suggestion   string `json:"suggestion"`
	FixedSnippet string `json:"fixed_snippet"`
}

// coerceIssue classifies a candidate record's shape before coercion: first the
// strict struct variant, then a loose map variant for records with mistyped
// fields (e.g. "line": "12"). Records that are not JSON objects at all are
// rejected so the caller can surface them in the degradation diagnostic.
func coerceIssue(rec json.RawMessage) (core.Issue, bool) {
	var cand candidateIssue
	if err := json.Unmarshal(rec, &cand); err == nil {
		return issueFromCandidate(cand), true
	}

	var loose map[string]any
	if err := json.Unmarshal(rec, &loose); err != nil {
		return core.Issue{}, false
	}
	return issueFromCandidate(candidateIssue{
		Title:        coerceString(loose["title"]),
		Description:  coerceString(loose["description"]),
		Severity:     coerceString(loose["severity"]),
		Category:     coerceString(loose["category"]),
		Line:         coerceInt(loose["line"]),
		LineStart:    coerceInt(loose["line_start"]),
		Suggestion:   coerceString(loose["suggestion"]),
		FixedSnippet: coerceString(loose["fixed_snippet"]),
	}), true
}

func issueFromCandidate(cand candidateIssue) core.Issue {
	title := strings.TrimSpace(cand.Title)
	if title == "" {
		title = "Unknown Issue"
	}

	line := cand.Line
	if line <= 0 {
		line = cand.LineStart
	}
	if line < 0 {
		line = 0 // never fabricate a location
	}

	return core.Issue{
		Severity:     core.ParseSeverity(cand.Severity),
		Category:     core.ParseCategory(cand.Category),
		Title:        title,
		Description:  strings.TrimSpace(cand.Description),
		Line:         line,
		Suggestion:   strings.TrimSpace(cand.Suggestion),
		FixedSnippet: cand.FixedSnippet,
	}
}

func dedupeKey(issue core.Issue) string {
	return fmt.Sprintf("%s|%d|%s", issue.Category, issue.Line, strings.ToLower(issue.Title))
}

// stripCodeFence removes ``` or ```json wrapping that models add around JSON
// output despite instructions not to.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	idx := strings.Index(trimmed, "\n")
	if idx < 0 {
		return s
	}
	inner := trimmed[idx+1:]
	if lastFence := strings.LastIndex(inner, "```"); lastFence >= 0 {
		inner = inner[:lastFence]
	}
	return strings.TrimSpace(inner)
}

// largestBalancedSegment returns the longest balanced {...} or [...] span in
// text, respecting JSON string literals and escapes. It returns "" when no
// balanced span exists, e.g. for truncated output.
func largestBalancedSegment(text string) string {
	var best string
	for i := 0; i < len(text); i++ {
		open := text[i]
		if open != '{' && open != '[' {
			continue
		}
		if end := matchBalanced(text, i); end > i {
			if end-i > len(best) {
				best = text[i : end+1]
			}
			i = end
		}
	}
	return best
}

// matchBalanced returns the index of the bracket closing the one at start,
// or -1 if the span never closes.
func matchBalanced(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// repairJSON fixes the trailing-comma mistakes models make most often.
func repairJSON(text string) string {
	if text == "" {
		return ""
	}
	text = trailingCommaObject.ReplaceAllString(text, "}")
	text = trailingCommaArray.ReplaceAllString(text, "]")
	return text
}

func sample(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > diagnosticSampleLen {
		return s[:diagnosticSampleLen] + "..."
	}
	return s
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func coerceInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
