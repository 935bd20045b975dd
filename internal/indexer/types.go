package indexer

// Chunk is one indexable window of text cut from a source unit.
// StartOffset is the rune offset of the chunk within its unit.
type Chunk struct {
	Content     string
	Source      string
	Page        int
	StartOffset int
}

// ScoredChunk pairs a chunk with its retrieval similarity score.
type ScoredChunk struct {
	Chunk
	Score float32
}
