package loader

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var mdParser = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// parseMarkdown parses markdown and extracts its plain text via the AST,
// dropping formatting but keeping block structure as newlines.
func parseMarkdown(data []byte, source string) ([]TextUnit, error) {
	if len(data) == 0 {
		return nil, nil
	}

	reader := text.NewReader(data)
	doc := mdParser.Parser().Parse(reader)

	var builder strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			builder.Write(node.Segment.Value(data))
		case *ast.String:
			builder.Write(node.Value)
		case *ast.CodeBlock:
			writeCodeLines(&builder, node, data)
		case *ast.FencedCodeBlock:
			writeCodeLines(&builder, node, data)
		case *ast.Heading, *ast.Paragraph, *ast.List, *ast.ListItem:
			if builder.Len() > 0 && !strings.HasSuffix(builder.String(), "\n") {
				builder.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: markdown: %w", ErrParse, err)
	}

	content := normalizeWhitespace(builder.String())
	if content == "" {
		return nil, nil
	}
	return []TextUnit{{Content: content, Source: source, Page: -1}}, nil
}

func writeCodeLines(builder *strings.Builder, node interface{ Lines() *text.Segments }, data []byte) {
	if builder.Len() > 0 && !strings.HasSuffix(builder.String(), "\n") {
		builder.WriteString("\n")
	}
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		builder.Write(line.Value(data))
	}
}
