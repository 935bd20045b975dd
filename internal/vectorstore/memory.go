package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store using brute-force cosine similarity.
// It is the default backend; the whole index fits in memory and is rebuilt
// on every load, so exhaustive search is fine.
type MemoryStore struct {
	mu     sync.RWMutex
	dim    int
	points []Point
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Reset drops all points and fixes the expected vector dimension.
func (s *MemoryStore) Reset(_ context.Context, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("vector dimension must be greater than 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dim = dim
	s.points = nil
	return nil
}

// Upsert adds points to the store. Vectors must match the Reset dimension.
func (s *MemoryStore) Upsert(_ context.Context, points []Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dim == 0 {
		return fmt.Errorf("store not initialized, call Reset first")
	}
	for _, p := range points {
		if len(p.Vec) != s.dim {
			return fmt.Errorf("point %s has dimension %d, expected %d", p.ID, len(p.Vec), s.dim)
		}
	}
	s.points = append(s.points, points...)
	return nil
}

// Search returns the k points most similar to the query, best first.
// Ties break by insertion order so results are deterministic.
func (s *MemoryStore) Search(_ context.Context, query []float32, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dim == 0 {
		return nil, fmt.Errorf("store not initialized, call Reset first")
	}
	if len(query) != s.dim {
		return nil, fmt.Errorf("query has dimension %d, expected %d", len(query), s.dim)
	}

	results := make([]SearchResult, 0, len(s.points))
	for _, p := range s.points {
		results = append(results, SearchResult{
			ID:    p.ID,
			Score: cosineSimilarity(query, p.Vec),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Zero vectors score 0.
func cosineSimilarity(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
