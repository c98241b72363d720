package quiz

import (
	"strings"
	"unicode/utf8"

	"github.com/abhisek/medstud/internal/quizgen"
)

// Feedback describes the outcome of answering or skipping one item.
type Feedback struct {
	// Graded is false for items that need manual grading.
	Graded  bool
	Correct bool

	// Reveal is the expected answer, shown after a wrong answer or a skip.
	Reveal string

	// Saved is set when an ungraded answer was recorded as-is.
	Saved bool
}

// Kind groups item types by how they are graded. Unknown types grade
// as essays.
func Kind(t quizgen.ItemType) quizgen.ItemType {
	switch strings.ToLower(string(t)) {
	case "mcq":
		return quizgen.TypeMCQ
	case "truefalse", "true_false", "tf":
		return quizgen.TypeTrueFalse
	case "short", "short-answer", "fill-in-the-blank", "fill":
		return quizgen.TypeShort
	}
	return quizgen.TypeEssay
}

// Grade checks answer against item. Multiple choice accepts the full option
// text or any answer starting with the same character as the expected one,
// so "a" or "A)" count for an answer written as "A". True/false and short
// answers need a case-insensitive exact match. Empty answers are wrong.
func Grade(item quizgen.Item, answer string) Feedback {
	expected := strings.TrimSpace(item.Answer)
	given := strings.ToLower(strings.TrimSpace(answer))

	kind := Kind(item.Type)
	if kind == quizgen.TypeEssay {
		return Feedback{Saved: true}
	}

	fb := Feedback{Graded: true}
	if given != "" && expected != "" {
		want := strings.ToLower(expected)
		switch kind {
		case quizgen.TypeMCQ:
			fb.Correct = given == want || firstRune(given) == firstRune(want)
		default:
			fb.Correct = given == want
		}
	}
	if !fb.Correct {
		fb.Reveal = expected
	}
	return fb
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}
