package quizgen

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const liverSnippet = "The liver metabolizes bilirubin into urobilinogen for excretion."

func TestTemplateItem_FillInTheBlank(t *testing.T) {
	pool := Keywords([]string{liverSnippet}, 120)
	it := TemplateItem(liverSnippet, pool, 0)

	assert.Equal(t, TypeMCQ, it.Type)
	assert.Equal(t, "urobilinogen", it.Answer)
	assert.Equal(t, "Fill in the blank: The liver metabolizes bilirubin into ____ for excretion.", it.Prompt)
	assert.Equal(t, "Key-term recall from the snippet.", it.Explanation)
	assert.Equal(t, 0, it.SourceIdx)

	require.Len(t, it.Options, 4)
	assert.Contains(t, it.Options, "urobilinogen")
	seen := map[string]bool{}
	for _, o := range it.Options {
		key := strings.ToLower(o)
		assert.False(t, seen[key], "duplicate option %q", o)
		seen[key] = true
		if o != it.Answer {
			n := utf8.RuneCountInString(o)
			assert.True(t, n >= 4 && n <= 18, "distractor %q length %d", o, n)
		}
	}
}

func TestTemplateItem_Deterministic(t *testing.T) {
	pool := []string{"hepatocyte", "glucuronide", "cholestasis", "jaundice", "albumin", "ammonia"}
	a := TemplateItem(liverSnippet, pool, 0)
	b := TemplateItem(liverSnippet, pool, 0)
	assert.Equal(t, a, b)
}

func TestTemplateItem_FirstLongestTermWins(t *testing.T) {
	it := TemplateItem("Sodium and calcium shift quickly.", nil, 0)
	// "Sodium" and "calcium" are both candidates; "calcium" is longer.
	assert.Equal(t, "calcium", it.Answer)

	it = TemplateItem("Apple grape lemon.", nil, 0)
	assert.Equal(t, "Apple", it.Answer)
	assert.Equal(t, []string{"Apple"}, it.Options)
}

func TestTemplateItem_SkipsAnswerAndDuplicatesInPool(t *testing.T) {
	pool := []string{"Urobilinogen", "bil", "Bilirubin", "bilirubin", "extraordinarilylongword"}
	it := TemplateItem(liverSnippet, pool, 0)

	assert.Equal(t, "urobilinogen", it.Answer)
	assert.Len(t, it.Options, 2)
	assert.True(t, containsFold(it.Options, "bilirubin"))
}

func TestTemplateItem_TrueFalse(t *testing.T) {
	it := TemplateItem("Na K Cl 1 2 3", []string{"sodium"}, 0)

	assert.Equal(t, TypeTrueFalse, it.Type)
	assert.Equal(t, "True or False: Na K Cl 1 2 3", it.Prompt)
	assert.Equal(t, []string{"True", "False"}, it.Options)
	assert.Equal(t, "True", it.Answer)
	assert.Equal(t, "Statement taken verbatim from source.", it.Explanation)
}

func TestKeywords(t *testing.T) {
	snippets := []string{
		"Alpha beta gamma delta epsilon",
		"gamma rays and x-ray-like signals",
	}
	assert.Equal(t, []string{"Alpha", "gamma", "delta", "epsilon", "x-ray-like", "signals"}, Keywords(snippets, 120))
	assert.Equal(t, []string{"Alpha", "gamma"}, Keywords(snippets, 2))
	assert.Empty(t, Keywords(nil, 10))
}
