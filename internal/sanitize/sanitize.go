// Package sanitize neutralizes adversarial patterns in user text before it is
// interpolated into a prompt sent to an external LLM. The denylist is a
// best-effort mitigation, not a guarantee.
package sanitize

import (
	"regexp"
	"strings"
)

// DefaultMaxLength caps sanitized text to bound prompt token usage.
const DefaultMaxLength = 1000

// injectionPatterns match known prompt-injection phrasings and markup tags.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(ignore|disregard|forget|override|bypass).*(previous|above|prior|all).*(instruction|prompt|command|rule)`),
	regexp.MustCompile(`(?i)(you are now|you must now|from now on)`),
	regexp.MustCompile(`(?i)(system|admin|root).*(prompt|message|command)`),
	regexp.MustCompile(`<[^>]+>`), // HTML/XML tags
}

// Clean strips recognizable prompt-injection patterns and markup from text and
// truncates the result to maxLength runes. Pure; never fails. Empty input
// returns the empty string. A maxLength <= 0 falls back to DefaultMaxLength.
func Clean(text string, maxLength int) string {
	if text == "" {
		return ""
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	cleaned := text
	for _, p := range injectionPatterns {
		cleaned = p.ReplaceAllString(cleaned, "")
	}

	if runes := []rune(cleaned); len(runes) > maxLength {
		cleaned = string(runes[:maxLength])
	}

	return strings.TrimSpace(cleaned)
}
