package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoPayload indicates the text contains no balanced top-level JSON object or array.
var ErrNoPayload = errors.New("no json payload found in model output")

// Extract locates the single JSON object or array embedded in raw model output and
// strict-parses it. The model regularly wraps its payload in prose or ```json fences;
// both are stripped before scanning. Every input maps to a value or an error, the
// function never panics.
func Extract(raw string) (json.RawMessage, error) {
	trimmed := stripFences(strings.TrimSpace(raw))
	if trimmed == "" {
		return nil, ErrNoPayload
	}

	span, ok := balancedSpan(trimmed)
	if !ok {
		return nil, ErrNoPayload
	}

	var probe interface{}
	if err := json.Unmarshal([]byte(span), &probe); err != nil {
		return nil, fmt.Errorf("parse extracted payload: %w", err)
	}

	return json.RawMessage(span), nil
}

// ExtractInto extracts the embedded payload and unmarshals it into target.
func ExtractInto(raw string, target interface{}) error {
	payload, err := Extract(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, target)
}

func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// balancedSpan returns the longest balanced {...} or [...] span starting at the
// first opening bracket. Quoted strings and escapes are honoured so braces inside
// feedback text do not confuse the scan.
func balancedSpan(text string) (string, bool) {
	start := -1
	var open, close rune
	for i, r := range text {
		if r == '{' || r == '[' {
			start = i
			open = r
			close = '}'
			if r == '[' {
				close = ']'
			}
			break
		}
	}
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := rune(text[i])
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// string content, brackets do not count
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}
