package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"docchat/internal/contextutil"
)

// Sentinel errors for load failures. Callers classify with errors.Is.
var (
	ErrUnsupportedType = errors.New("unsupported document type")
	ErrFetch           = errors.New("failed to fetch URL")
	ErrParse           = errors.New("failed to parse document")
)

// maxFetchBytes caps how much of a remote document is read.
const maxFetchBytes = 8 << 20

// TextUnit is one extracted unit of text from a source document.
// Page is 0-based; -1 means the source is not paginated.
type TextUnit struct {
	Content string
	Source  string
	Page    int
}

type parseFunc func(data []byte, source string) ([]TextUnit, error)

// Loader normalizes sources (URLs or uploaded files) into text units.
type Loader struct {
	client  *http.Client
	parsers map[string]parseFunc
}

// New creates a Loader with the given fetch timeout for remote sources.
func New(timeout time.Duration) *Loader {
	l := &Loader{
		client: &http.Client{Timeout: timeout},
	}
	l.parsers = map[string]parseFunc{
		".pdf":  parsePDF,
		".txt":  parseText,
		".md":   parseMarkdown,
		".docx": parseDOCX,
	}
	return l
}

// LoadURL fetches a URL and extracts its text. URLs ending in .pdf are parsed
// as PDF; everything else is treated as an HTML page.
func (l *Loader) LoadURL(ctx context.Context, rawURL string) ([]TextUnit, error) {
	logger := contextutil.LoggerFromContext(ctx)

	data, contentType, err := l.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	var units []TextUnit
	if strings.HasSuffix(strings.ToLower(rawURL), ".pdf") {
		units, err = parsePDF(data, rawURL)
	} else {
		units, err = parseHTML(data, contentType, rawURL)
	}
	if err != nil {
		return nil, err
	}

	if len(units) == 0 {
		logger.WarnContext(ctx, "no text extracted from URL, page may be JavaScript-rendered", "url", rawURL)
	}
	return units, nil
}

// LoadUpload extracts text from an uploaded file, dispatching on its extension.
func (l *Loader) LoadUpload(ctx context.Context, name string, data []byte) ([]TextUnit, error) {
	logger := contextutil.LoggerFromContext(ctx)

	ext := strings.ToLower(path.Ext(name))
	parse, ok := l.parsers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	units, err := parse(data, name)
	if err != nil {
		return nil, err
	}

	if len(units) == 0 {
		logger.WarnContext(ctx, "no text extracted from file", "name", name)
	}
	return units, nil
}

// fetch downloads a URL and returns the body bytes and Content-Type header.
func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrFetch, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("%w: bad status %d for %s", ErrFetch, resp.StatusCode, rawURL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}
