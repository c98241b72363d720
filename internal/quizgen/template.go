package quizgen

import (
	"math/rand/v2"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var keywordRe = regexp.MustCompile(`[A-Za-z][A-Za-z\-]{4,}`)

const (
	minDistractorLen = 4
	maxDistractorLen = 18
	maxDistractors   = 3

	blank = "____"
)

// Keywords harvests up to limit distinct key terms from snippets, in order
// of first appearance. They serve as distractors for template items.
func Keywords(snippets []string, limit int) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range snippets {
		for _, w := range keywordRe.FindAllString(s, -1) {
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
			if len(out) >= limit {
				return out
			}
		}
	}
	return out
}

// TemplateItem builds a question from a snippet without a model. The
// snippet's longest key term becomes a fill-in-the-blank answer with
// distractors drawn from pool. A snippet with no key term becomes a
// true/false statement. The result depends only on the arguments.
func TemplateItem(snippet string, pool []string, seed int64) Item {
	answer := longestTerm(snippet)
	if answer == "" {
		return Item{
			Type:        TypeTrueFalse,
			Prompt:      "True or False: " + snippet,
			Options:     []string{"True", "False"},
			Answer:      "True",
			Explanation: "Statement taken verbatim from source.",
		}
	}

	rng := rand.New(rand.NewPCG(uint64(int64(utf8.RuneCountInString(snippet))+seed), 0))

	var candidates []string
	for _, w := range pool {
		n := utf8.RuneCountInString(w)
		if strings.EqualFold(w, answer) || n < minDistractorLen || n > maxDistractorLen {
			continue
		}
		candidates = append(candidates, w)
	}
	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	options := []string{answer}
	for _, w := range candidates {
		if len(options) > maxDistractors {
			break
		}
		if containsFold(options, w) {
			continue
		}
		options = append(options, w)
	}
	rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	return Item{
		Type:        TypeMCQ,
		Prompt:      "Fill in the blank: " + strings.Replace(snippet, answer, blank, 1),
		Options:     options,
		Answer:      answer,
		Explanation: "Key-term recall from the snippet.",
	}
}

// longestTerm returns the longest key term, the earliest on ties.
func longestTerm(s string) string {
	terms := keywordRe.FindAllString(s, -1)
	if len(terms) == 0 {
		return ""
	}
	sort.SliceStable(terms, func(i, j int) bool { return len(terms[i]) > len(terms[j]) })
	return terms[0]
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
