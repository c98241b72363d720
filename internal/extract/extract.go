// Package extract turns lecture material into the headings and sentence
// chunks that quiz generation works from.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minChunkLen   = 20
	maxChunkLen   = 400
	maxChunks     = 300
	minHeadingLen = 3
	maxHeadingLen = 140
	maxHeadings   = 60

	// Below this many characters of text the document is treated as empty.
	minDocumentLen = 40
)

const (
	noteNoText   = "No extractable text found. The document may be empty or scanned; consider OCR."
	noteNoChunks = "No sentences of usable length found. Check that the document contains prose rather than tables or lists of terms."
)

// ErrUnsupportedFormat is returned for formats this package cannot read.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Format identifies how a document's bytes are to be read.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
)

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt", "plain":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromPath guesses the format from a file extension, defaulting to
// plain text.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".pdf":
		return FormatPDF
	}
	return FormatText
}

// Source is document input: either bytes already in memory or a stream that
// is read once when extraction starts.
type Source struct {
	data []byte
	r    io.Reader
}

// FromBytes wraps in-memory document bytes.
func FromBytes(b []byte) Source { return Source{data: b} }

// FromReader wraps a stream. It is consumed by the first call to Bytes.
func FromReader(r io.Reader) Source { return Source{r: r} }

// Bytes resolves the source to its content.
func (s Source) Bytes() ([]byte, error) {
	if s.r == nil {
		return s.data, nil
	}
	b, err := io.ReadAll(s.r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return b, nil
}

// Meta describes how a document was processed.
type Meta struct {
	Pages         int     `json:"pages"`
	Model         string  `json:"model"`
	Note          *string `json:"note"`
	EntitiesFound int     `json:"entities_found"`
}

// Result is the extraction output consumed by quiz generation.
type Result struct {
	Headings []string `json:"headings"`
	Chunks   []string `json:"chunks"`
	Meta     Meta     `json:"meta"`
}

// Extract reads src as the given format.
func Extract(src Source, format Format) (Result, error) {
	data, err := src.Bytes()
	if err != nil {
		return Result{}, err
	}
	if !utf8.Valid(data) {
		data = bytes.ToValidUTF8(data, []byte(" "))
	}

	var doc document
	switch format {
	case FormatText, "":
		doc = parsePlainText(data)
	case FormatMarkdown:
		doc = parseMarkdown(data)
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return doc.result(), nil
}

// document is the format-independent intermediate form.
type document struct {
	model      string
	pages      int
	headings   []string
	paragraphs []string
}

func (d document) result() Result {
	res := Result{
		Headings: uniqueInOrder(cleanHeadings(d.headings), maxHeadings),
		Chunks:   []string{},
		Meta:     Meta{Pages: d.pages, Model: d.model},
	}
	if res.Headings == nil {
		res.Headings = []string{}
	}

	full := strings.TrimSpace(strings.Join(d.paragraphs, "\n"))
	if utf8.RuneCountInString(full) < minDocumentLen {
		note := noteNoText
		res.Meta.Note = &note
		return res
	}

	var chunks []string
	for _, p := range d.paragraphs {
		for _, s := range SplitSentences(p) {
			n := utf8.RuneCountInString(s)
			if n >= minChunkLen && n <= maxChunkLen {
				chunks = append(chunks, s)
			}
		}
	}
	if chunks = uniqueInOrder(chunks, maxChunks); chunks != nil {
		res.Chunks = chunks
	}
	res.Meta.EntitiesFound = countTerms(res.Chunks)

	if len(res.Chunks) == 0 {
		note := noteNoChunks
		res.Meta.Note = &note
	}
	return res
}

var (
	spaceRe  = regexp.MustCompile(`\s+`)
	bulletRe = regexp.MustCompile(`^[•\-*\x{2022}]\s*`)
	termRe   = regexp.MustCompile(`[A-Za-z][A-Za-z\-]{4,}`)
)

// CollapseSpace trims s and folds every whitespace run to one space.
func CollapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// SplitSentences breaks text on '.', '!' or '?' followed by whitespace.
// Each sentence is whitespace-collapsed; empty ones are dropped.
func SplitSentences(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
			if i+1 < len(runes) && isSpace(runes[i+1]) {
				if s := CollapseSpace(string(runes[start : i+1])); s != "" {
					out = append(out, s)
				}
				start = i + 1
			}
		}
	}
	if s := CollapseSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r' || r == '\f' || r == '\v'
}

func cleanHeadings(raw []string) []string {
	var out []string
	for _, h := range raw {
		h = bulletRe.ReplaceAllString(CollapseSpace(h), "")
		n := utf8.RuneCountInString(h)
		if n >= minHeadingLen && n <= maxHeadingLen {
			out = append(out, h)
		}
	}
	return out
}

// uniqueInOrder drops blanks and repeats, keeping first occurrences, and
// stops after limit entries when limit > 0.
func uniqueInOrder(items []string, limit int) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, x := range items {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// countTerms counts distinct key-term shaped words, case-insensitively.
func countTerms(chunks []string) int {
	seen := make(map[string]struct{})
	for _, c := range chunks {
		for _, w := range termRe.FindAllString(c, -1) {
			seen[strings.ToLower(w)] = struct{}{}
		}
	}
	return len(seen)
}
