package extract

import (
	"strings"
	"unicode/utf8"
)

// parsePlainText splits text into paragraphs on blank lines. A paragraph
// made of a single short line without closing punctuation is taken as a
// heading, unless that would leave no body text, in which case only lines
// too short to be a chunk stay headings. Form feeds separate pages.
func parsePlainText(data []byte) document {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	doc := document{
		model: "plaintext",
		pages: strings.Count(text, "\f") + 1,
	}

	for _, block := range splitBlocks(text) {
		lines := strings.Split(block, "\n")
		if len(lines) == 1 && looksLikeHeading(lines[0]) {
			doc.headings = append(doc.headings, lines[0])
			continue
		}
		doc.paragraphs = append(doc.paragraphs, block)
	}

	if len(doc.paragraphs) == 0 {
		var headings []string
		for _, h := range doc.headings {
			if utf8.RuneCountInString(h) < minChunkLen {
				headings = append(headings, h)
			} else {
				doc.paragraphs = append(doc.paragraphs, h)
			}
		}
		doc.headings = headings
	}
	return doc
}

func splitBlocks(text string) []string {
	var (
		blocks []string
		cur    []string
	)
	flush := func() {
		if len(cur) > 0 {
			blocks = append(blocks, strings.Join(cur, "\n"))
			cur = nil
		}
	}
	for _, line := range strings.Split(strings.ReplaceAll(text, "\f", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur = append(cur, strings.TrimSpace(line))
	}
	flush()
	return blocks
}

func looksLikeHeading(line string) bool {
	line = strings.TrimSpace(line)
	if utf8.RuneCountInString(line) > 80 {
		return false
	}
	return !strings.ContainsAny(line[len(line)-1:], ".!?,;")
}
