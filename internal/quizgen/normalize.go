package quizgen

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedResponse is returned when a parsed response has no
// "questions" list.
var ErrMalformedResponse = errors.New("response has no questions list")

const maxOptions = 4

// Normalize converts a parsed batch response into items. Entries that are
// not objects, lack a stem, or have fewer than two usable options are
// dropped. Answer and source indices are coerced into range.
func Normalize(obj map[string]any, batchLen int) ([]Item, error) {
	list, ok := obj["questions"].([]any)
	if !ok {
		return nil, ErrMalformedResponse
	}

	items := make([]Item, 0, len(list))
	for _, entry := range list {
		q, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if it, ok := normalizeQuestion(q, batchLen); ok {
			items = append(items, it)
		}
	}
	return items, nil
}

func normalizeQuestion(q map[string]any, batchLen int) (Item, bool) {
	stem := strings.TrimSpace(stringValue(q["stem"]))
	if stem == "" {
		stem = strings.TrimSpace(stringValue(q["question"]))
	}
	if stem == "" {
		return Item{}, false
	}

	rawOpts, _ := q["options"].([]any)
	if len(rawOpts) < 2 {
		return Item{}, false
	}

	idx := intValue(q["answer_index"])
	if idx < 0 || idx >= len(rawOpts) {
		idx = 0
	}
	answer := strings.TrimSpace(stringValue(rawOpts[idx]))

	var options []string
	seen := make(map[string]struct{}, len(rawOpts))
	for _, o := range rawOpts {
		s := strings.TrimSpace(stringValue(o))
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		options = append(options, s)
	}
	if len(options) < 2 {
		return Item{}, false
	}

	answerAt := 0
	for i, o := range options {
		if answer != "" && strings.EqualFold(o, answer) {
			answerAt = i
			break
		}
	}
	answer = options[answerAt]

	if len(options) > maxOptions {
		if answerAt >= maxOptions {
			options[maxOptions-1] = answer
		}
		options = options[:maxOptions]
	}

	src := intValue(q["source_idx"])
	if src < 0 {
		src = 0
	}
	if src > batchLen-1 {
		src = max(batchLen-1, 0)
	}

	return Item{
		Type:        TypeMCQ,
		Prompt:      stem,
		Options:     options,
		Answer:      answer,
		Explanation: strings.TrimSpace(stringValue(q["explanation"])),
		SourceIdx:   src,
	}, true
}

func stringValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}

// intValue coerces a decoded JSON value to an int. Anything that is not a
// number or numeric string is 0.
func intValue(v any) int {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		return int(math.Trunc(x))
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return int(math.Trunc(f))
		}
	}
	return 0
}
