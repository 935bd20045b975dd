package loader

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// parseDOCX extracts paragraph text from a DOCX file. A .docx is a zip
// archive; the document body lives in word/document.xml, with runs of text
// in <w:t> elements and paragraphs delimited by <w:p>.
func parseDOCX(data []byte, source string) ([]TextUnit, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: docx is not a valid zip archive: %w", ErrParse, err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("%w: docx has no word/document.xml", ErrParse)
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: docx: %w", ErrParse, err)
	}
	defer func() {
		_ = rc.Close()
	}()

	content, err := extractDOCXText(rc)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, nil
	}
	return []TextUnit{{Content: content, Source: source, Page: -1}}, nil
}

// extractDOCXText walks the document XML token stream, collecting character
// data inside <w:t> elements and breaking lines at paragraph ends.
func extractDOCXText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var builder strings.Builder
	inText := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: docx xml: %w", ErrParse, err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				builder.WriteString("\n")
			case "tab":
				builder.WriteString("\t")
			}
		case xml.CharData:
			if inText {
				builder.Write(t)
			}
		}
	}

	return normalizeWhitespace(builder.String()), nil
}
