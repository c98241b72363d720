package quizgen

import (
	"encoding/json"
	"strings"
)

// ParseResponse extracts a JSON object from raw model output. Models often
// wrap the object in prose or code fences, so when the whole text does not
// decode as an object every balanced {...} block is tried, last first.
// Unparseable output yields an empty map.
func ParseResponse(raw string) map[string]any {
	raw = strings.TrimSpace(raw)
	if obj, ok := decodeObject(raw); ok {
		return obj
	}

	blocks := balancedObjects(raw)
	for i := len(blocks) - 1; i >= 0; i-- {
		if obj, ok := decodeObject(blocks[i]); ok {
			return obj
		}
	}
	return map[string]any{}
}

func decodeObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// balancedObjects returns the non-overlapping top-level brace-balanced
// substrings of s, left to right. An opening brace that never closes is
// skipped and the scan resumes just after it.
func balancedObjects(s string) []string {
	var out []string
	for i := 0; i < len(s); {
		if s[i] != '{' {
			i++
			continue
		}
		end := matchBrace(s, i)
		if end < 0 {
			i++
			continue
		}
		out = append(out, s[i:end+1])
		i = end + 1
	}
	return out
}

// matchBrace returns the index of the brace closing the one at start, or
// -1. Braces inside JSON string literals are ignored.
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
