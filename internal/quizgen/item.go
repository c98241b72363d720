package quizgen

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/medstud/internal/extract"
)

// ItemType identifies how a quiz item is answered and graded.
type ItemType string

const (
	TypeMCQ       ItemType = "mcq"
	TypeTrueFalse ItemType = "truefalse"
	TypeShort     ItemType = "short"
	TypeEssay     ItemType = "essay"
)

// Item is a single quiz question. Every generation path emits this shape.
type Item struct {
	Type        ItemType `json:"type"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options,omitempty"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`

	// SourceIdx indexes the snippet batch the item was written from.
	SourceIdx int `json:"source_idx"`
}

// ID returns a stable identifier derived from the item's normalized prompt.
// Review records and answer events are keyed on it.
func (it Item) ID() string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("medstud:item:"+NormalizePrompt(it.Prompt))).String()
}

// NormalizePrompt folds case and collapses whitespace so that trivially
// different prompts compare equal.
func NormalizePrompt(s string) string {
	return strings.ToLower(extract.CollapseSpace(s))
}

// Mode trades generation speed against output quality.
type Mode string

const (
	ModeFast     Mode = "fast"
	ModeQuality  Mode = "quality"
	ModeTemplate Mode = "template"
)

// ParseMode validates a mode name. Empty means fast.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeFast, nil
	case ModeFast, ModeQuality, ModeTemplate:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q (want fast, quality or template)", s)
}
