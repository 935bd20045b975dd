package indexer

import (
	"errors"
	"fmt"

	"docchat/internal/loader"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 150
)

// ErrBadChunkConfig indicates an invalid size/overlap combination.
var ErrBadChunkConfig = errors.New("invalid chunk configuration")

// Splitter cuts text units into overlapping fixed-size windows.
// Sizes are measured in runes so multi-byte characters are never split.
type Splitter struct {
	size    int
	overlap int
}

// NewSplitter creates a splitter. overlap must be smaller than size,
// otherwise the window could never advance.
func NewSplitter(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be greater than 0, got %d", ErrBadChunkConfig, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must not be negative, got %d", ErrBadChunkConfig, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than size %d", ErrBadChunkConfig, overlap, size)
	}
	return &Splitter{size: size, overlap: overlap}, nil
}

// Split cuts each unit into windows of size runes advancing by size-overlap,
// so consecutive chunks of a unit share exactly overlap runes. The final
// window may be shorter. Empty units are skipped.
func (s *Splitter) Split(units []loader.TextUnit) []Chunk {
	var chunks []Chunk
	step := s.size - s.overlap

	for _, unit := range units {
		runes := []rune(unit.Content)
		if len(runes) == 0 {
			continue
		}

		for start := 0; ; start += step {
			end := start + s.size
			if end > len(runes) {
				end = len(runes)
			}
			chunks = append(chunks, Chunk{
				Content:     string(runes[start:end]),
				Source:      unit.Source,
				Page:        unit.Page,
				StartOffset: start,
			})
			if end == len(runes) {
				break
			}
		}
	}

	return chunks
}
