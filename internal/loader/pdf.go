package loader

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// parsePDF extracts text from a PDF, one unit per page so answers can cite
// page numbers. Pages with no extractable text are skipped.
func parsePDF(data []byte, source string) (units []TextUnit, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			units = nil
			err = fmt.Errorf("%w: pdf: %v", ErrParse, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: pdf: %w", ErrParse, err)
	}

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: pdf page %d: %w", ErrParse, i, err)
		}

		content := normalizeWhitespace(text)
		if content == "" {
			continue
		}
		units = append(units, TextUnit{
			Content: content,
			Source:  source,
			Page:    i - 1,
		})
	}

	return units, nil
}
