package loader

import (
	"regexp"
	"strings"
)

var (
	runsOfSpaces   = regexp.MustCompile(`[ \t]+`)
	runsOfNewlines = regexp.MustCompile(`\n{3,}`)
)

// normalizeWhitespace collapses runs of spaces and blank lines.
func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = runsOfSpaces.ReplaceAllString(s, " ")
	s = runsOfNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// parseText treats the bytes as plain UTF-8 text.
func parseText(data []byte, source string) ([]TextUnit, error) {
	content := normalizeWhitespace(string(data))
	if content == "" {
		return nil, nil
	}
	return []TextUnit{{Content: content, Source: source, Page: -1}}, nil
}
