package quizgen

import (
	"encoding/json"
	"fmt"
	"strings"
)

const promptTemplate = `You are a medical exam item writer.

Given the following study snippets, generate 1 multiple-choice question per snippet.
Focus on key facts; avoid trivia. Vary stems; keep options plausible. One correct answer only.

Return ONLY valid JSON in this exact schema:
{
  "questions": [
    {
      "stem": "string",
      "options": ["A", "B", "C", "D"],
      "answer_index": 0,
      "explanation": "brief rationale",
      "source_idx": 0
    }
  ]
}

Snippets (index them by order 0..%d):
%s
`

// BuildPrompt renders the generation request for one batch. Snippets are
// listed in batch order, which is the index space of source_idx.
func BuildPrompt(batch []string) string {
	list, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		// []string always marshals; keep a readable fallback anyway.
		list = []byte("[\n  \"" + strings.Join(batch, "\",\n  \"") + "\"\n]")
	}
	return fmt.Sprintf(promptTemplate, max(len(batch)-1, 0), list)
}
