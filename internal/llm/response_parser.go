package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseStructured extracts a JSON object from loose model output using a
// layered fallback: direct parse, then parse after stripping markdown code
// fences, then extraction of the first balanced object. Prompting a model to
// emit well-formed JSON is inherently unreliable, so a parse failure is an
// expected outcome reported as an error value, never a panic.
func ParseStructured(text string) (map[string]any, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err == nil {
		return out, nil
	}

	stripped := stripCodeFences(raw)
	if err := json.Unmarshal([]byte(stripped), &out); err == nil {
		return out, nil
	}

	extracted := extractJSON(stripped)
	if err := json.Unmarshal([]byte(extracted), &out); err != nil {
		return nil, fmt.Errorf("no parsable JSON object in model output: %w", err)
	}
	return out, nil
}

// stripCodeFences removes markdown code block markers the model may wrap its
// output in despite instructions.
func stripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// extractJSON returns the first balanced JSON object in text, tracking string
// and escape state so braces inside string values don't end the scan. If no
// complete object is found the input is returned as-is and the caller's parse
// fails with the real reason.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	if start == -1 {
		return text
	}

	braceCount := 0
	inString := false
	escape := false

	for i := start; i < len(text); i++ {
		char := text[i]

		if escape {
			escape = false
			continue
		}
		if char == '\\' {
			escape = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}

		if !inString {
			switch char {
			case '{':
				braceCount++
			case '}':
				braceCount--
				if braceCount == 0 {
					return text[start : i+1]
				}
			}
		}
	}

	return text
}

// StringField returns the named field of a parsed object as a string, with
// ok reporting whether it was present and non-empty.
func StringField(obj map[string]any, key string) (string, bool) {
	v, ok := obj[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// StringSliceField returns the named field as a string slice, tolerating the
// JSON decoder's []any representation.
func StringSliceField(obj map[string]any, key string) []string {
	v, ok := obj[key]
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
