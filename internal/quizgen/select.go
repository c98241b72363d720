package quizgen

import (
	"math/rand/v2"
	"unicode/utf8"

	"github.com/abhisek/medstud/internal/extract"
)

const (
	minSnippetLen = 40
	maxSnippetLen = 300
)

// Select picks up to want snippets from chunks: whitespace-collapsed,
// 40 to 300 characters long, unique, in a shuffled order fixed by seed.
// Fewer candidates than want returns all of them.
func Select(chunks []string, want int, seed int64) []string {
	return selectWith(chunks, want, seed, func(s string) (string, bool) {
		n := utf8.RuneCountInString(s)
		return s, n >= minSnippetLen && n <= maxSnippetLen
	})
}

// selectRelaxed is Select without the lower length bound. Over-long
// snippets are cut to the upper bound.
func selectRelaxed(chunks []string, want int, seed int64) []string {
	return selectWith(chunks, want, seed, func(s string) (string, bool) {
		if utf8.RuneCountInString(s) > maxSnippetLen {
			s = string([]rune(s)[:maxSnippetLen])
		}
		return s, s != ""
	})
}

func selectWith(chunks []string, want int, seed int64, keep func(string) (string, bool)) []string {
	seen := make(map[string]struct{}, len(chunks))
	var uniq []string
	for _, c := range chunks {
		s, ok := keep(extract.CollapseSpace(c))
		if !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		uniq = append(uniq, s)
	}

	rng := rand.New(rand.NewPCG(uint64(seed), 0))
	rng.Shuffle(len(uniq), func(i, j int) { uniq[i], uniq[j] = uniq[j], uniq[i] })

	if want < 1 {
		want = 1
	}
	if len(uniq) > want {
		uniq = uniq[:want]
	}
	return uniq
}
