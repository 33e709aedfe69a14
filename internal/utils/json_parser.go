package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedJSONRe    = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	controlCharsRe  = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// DecodeModelJSON parses JSON out of LLM output, which may be pure JSON,
// JSON wrapped in a markdown code fence, or JSON buried in surrounding prose.
// Each candidate is also retried after light cleanup (trailing commas,
// control characters) before giving up.
func DecodeModelJSON(input string, target any) error {
	input = strings.TrimSpace(strings.TrimPrefix(input, "\uFEFF"))
	if input == "" {
		return fmt.Errorf("empty input")
	}

	candidates := []string{input}
	if fenced := stripCodeFence(input); fenced != "" {
		candidates = append(candidates, fenced)
	}
	if embedded := firstJSONValue(input); embedded != "" {
		candidates = append(candidates, embedded)
	}

	for _, candidate := range candidates {
		if err := json.Unmarshal([]byte(candidate), target); err == nil {
			return nil
		}
		cleaned := trailingCommaRe.ReplaceAllString(candidate, "$1")
		cleaned = controlCharsRe.ReplaceAllString(cleaned, "")
		if err := json.Unmarshal([]byte(cleaned), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no parseable JSON in input: %s", truncate(input, 100))
}

// stripCodeFence returns the content of the first ```json ... ``` (or bare
// ```) block that looks like JSON, or "" when there is none.
func stripCodeFence(input string) string {
	matches := fencedJSONRe.FindStringSubmatch(input)
	if len(matches) < 2 {
		return ""
	}
	content := strings.TrimSpace(matches[1])
	if strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") {
		return content
	}
	return ""
}

// firstJSONValue finds the first balanced JSON object or array inside text.
func firstJSONValue(input string) string {
	objStart := strings.Index(input, "{")
	arrStart := strings.Index(input, "[")

	if objStart >= 0 && (arrStart < 0 || objStart < arrStart) {
		if v := balancedSlice(input[objStart:], '{', '}'); v != "" {
			return v
		}
	}
	if arrStart >= 0 {
		if v := balancedSlice(input[arrStart:], '[', ']'); v != "" {
			return v
		}
	}
	return ""
}

// balancedSlice extracts the prefix of input with balanced open/close runes,
// ignoring brackets inside JSON strings.
func balancedSlice(input string, open, close rune) string {
	depth := 0
	inString := false
	escape := false

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}
		switch {
		case ch == '\\':
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return input[:i+1]
			}
		}
	}
	return ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
