package indexer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"docchat/internal/contextutil"
	"docchat/internal/vectorstore"
)

// Sentinel errors for index building. Callers classify with errors.Is.
var (
	ErrNoChunks  = errors.New("no chunks to index")
	ErrEmbedding = errors.New("embedding failed")
	ErrStore     = errors.New("vector store operation failed")
)

// embedBatchSize is how many chunks go into one embedding request.
const embedBatchSize = 16

// Embedder generates vector embeddings for texts.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Index maps a populated vector store back to its chunks. Search results from
// the store carry only point ids; the index resolves them to full chunks.
type Index struct {
	store  vectorstore.Store
	chunks map[string]Chunk
}

// BuildIndex embeds all chunks and loads them into the store, replacing
// whatever the store held before. Returns an Index over the new contents.
func BuildIndex(ctx context.Context, chunks []Chunk, embedder Embedder, store vectorstore.Store) (*Index, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}

	vectors := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, 0, end-start)
		for _, chunk := range chunks[start:end] {
			texts = append(texts, chunk.Content)
		}

		batch, err := embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("%w: expected %d vectors, got %d", ErrEmbedding, len(texts), len(batch))
		}
		vectors = append(vectors, batch...)
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: empty vector returned", ErrEmbedding)
	}

	if err := store.Reset(ctx, dim); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}

	points := make([]vectorstore.Point, len(chunks))
	byID := make(map[string]Chunk, len(chunks))
	for i, chunk := range chunks {
		id := uuid.NewString()
		points[i] = vectorstore.Point{ID: id, Vec: vectors[i]}
		byID[id] = chunk
	}

	if err := store.Upsert(ctx, points); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}

	logger.InfoContext(ctx, "index built", "chunks", len(chunks), "vector_size", dim)
	return &Index{store: store, chunks: byID}, nil
}

// Search returns the k chunks most similar to the query vector, best first.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]ScoredChunk, error) {
	results, err := idx.store.Search(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}

	scored := make([]ScoredChunk, 0, len(results))
	for _, result := range results {
		chunk, ok := idx.chunks[result.ID]
		if !ok {
			// A stale point from outside this index; skip it.
			continue
		}
		scored = append(scored, ScoredChunk{Chunk: chunk, Score: result.Score})
	}
	return scored, nil
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.chunks)
}
