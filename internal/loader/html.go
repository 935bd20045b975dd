package loader

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// skippedElements are HTML elements whose text content is never visible prose.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"head":     true,
	"template": true,
	"iframe":   true,
}

// blockElements force a line break between extracted text runs.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "header": true, "footer": true,
	"blockquote": true, "pre": true, "table": true, "ul": true, "ol": true,
}

// parseHTML strips tags from an HTML page and returns its visible text as a
// single unpaginated unit. The contentType header drives charset decoding;
// pages with no visible text yield zero units.
func parseHTML(data []byte, contentType, source string) ([]TextUnit, error) {
	reader, err := charset.NewReader(bytes.NewReader(data), contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: charset detection: %w", ErrParse, err)
	}

	var builder strings.Builder
	tokenizer := html.NewTokenizer(reader)
	skipDepth := 0

	for {
		tokenType := tokenizer.Next()
		switch tokenType {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != io.EOF {
				return nil, fmt.Errorf("%w: html: %w", ErrParse, err)
			}
			content := normalizeWhitespace(builder.String())
			if content == "" {
				return nil, nil
			}
			return []TextUnit{{Content: content, Source: source, Page: -1}}, nil

		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			if skippedElements[tag] {
				skipDepth++
			}
			if blockElements[tag] {
				builder.WriteString("\n")
			}

		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			if skippedElements[tag] && skipDepth > 0 {
				skipDepth--
			}
			if blockElements[tag] {
				builder.WriteString("\n")
			}

		case html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			if blockElements[string(name)] {
				builder.WriteString("\n")
			}

		case html.TextToken:
			if skipDepth == 0 {
				builder.Write(tokenizer.Text())
				builder.WriteString(" ")
			}
		}
	}
}
