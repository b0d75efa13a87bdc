// Package schedule turns raw text completions into GeneratedSchedule values and renders them.
//
// Provider output is not contractually JSON: models wrap it in Markdown fences or
// surround it with prose. Normalize applies a best-effort cleanup and Parse validates
// the result, mapping it field by field so that absent or mistyped optional fields
// never break rendering.
package schedule

import (
	"regexp"
	"strings"
)

// fencePattern matches a fenced code block spanning the whole input, with an optional
// language tag on the opening fence.
var fencePattern = regexp.MustCompile("(?s)^```(?:[A-Za-z][A-Za-z0-9_+-]*)?\\s*\\n?(.*?)\\n?\\s*```$")

// Normalize extracts the JSON candidate from a raw completion.
//
// Strategies, first match wins:
//  1. the whole (trimmed) text is a fenced block: return its trimmed interior
//  2. the text is an object or array with only whitespace around it: return the span
//
// Anything else is returned trimmed but otherwise unchanged so that parsing fails
// loudly instead of guessing. Text that embeds example JSON inside prose defeats
// strategy 2; that is a known limitation.
func Normalize(raw string) string {
	text := strings.TrimSpace(raw)

	if m := fencePattern.FindStringSubmatch(text); m != nil {
		if inner := strings.TrimSpace(m[1]); inner != "" {
			return inner
		}
	}

	if span, ok := enclosingSpan(text); ok {
		return span
	}
	return text
}

// enclosingSpan locates the outermost object (or array) and returns it when nothing
// but whitespace surrounds it.
func enclosingSpan(text string) (string, bool) {
	firstBrace := strings.Index(text, "{")
	lastBrace := strings.LastIndex(text, "}")
	firstBracket := strings.Index(text, "[")
	lastBracket := strings.LastIndex(text, "]")

	objectFirst := firstBracket == -1 || firstBrace < firstBracket ||
		(strings.HasSuffix(text, "}") && !strings.HasSuffix(text, "]"))

	switch {
	case firstBrace != -1 && lastBrace > firstBrace && objectFirst:
		return cleanSpan(text, firstBrace, lastBrace)
	case firstBracket != -1 && lastBracket > firstBracket:
		return cleanSpan(text, firstBracket, lastBracket)
	}
	return "", false
}

func cleanSpan(text string, start, end int) (string, bool) {
	if strings.TrimSpace(text[:start]) != "" || strings.TrimSpace(text[end+1:]) != "" {
		return "", false
	}
	return text[start : end+1], true
}
