// Package llmjson extracts JSON values from untrusted LLM output. Model
// responses often wrap the JSON in explanatory prose that may itself contain
// braces, so extraction scans for balanced spans and accepts the first span
// that actually parses, instead of slicing from the first '{' to the last '}'.
package llmjson

import (
	"encoding/json"
	"errors"
)

// ErrNoJSON signals that no well-formed JSON value was found in the text.
var ErrNoJSON = errors.New("no well-formed JSON value in text")

// ExtractObject finds the first well-formed JSON object in text and
// unmarshals it into v.
func ExtractObject(text string, v any) error {
	return extract(text, '{', '}', v)
}

// ExtractArray finds the first well-formed JSON array in text and
// unmarshals it into v.
func ExtractArray(text string, v any) error {
	return extract(text, '[', ']', v)
}

func extract(text string, open, close byte, v any) error {
	if text == "" {
		return ErrNoJSON
	}

	// Fast path: the whole response is pure JSON of the expected kind.
	trimmed := trimSpace(text)
	if len(trimmed) > 0 && trimmed[0] == open {
		if json.Unmarshal([]byte(trimmed), v) == nil {
			return nil
		}
	}

	for i := 0; i < len(text); i++ {
		if text[i] != open {
			continue
		}
		end, ok := balancedSpan(text, i, open, close)
		if !ok {
			continue
		}
		if json.Unmarshal([]byte(text[i:end+1]), v) == nil {
			return nil
		}
	}

	return ErrNoJSON
}

// balancedSpan returns the index of the delimiter closing the span opened at
// start, honoring JSON string literals and escape sequences.
func balancedSpan(text string, start int, open, close byte) (int, bool) {
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
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}

	return 0, false
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
