package vectorstore

import "context"

//go:generate mockgen -source=interface.go -destination=mocks/mock_store.go -package=mocks

// Point is a vector with its identifier, ready for upsert.
type Point struct {
	ID  string
	Vec []float32
}

// SearchResult is a single similarity search hit.
type SearchResult struct {
	ID    string
	Score float32
}

// Store is the vector store contract. Reset drops any existing data and
// prepares the store for vectors of the given dimension; Search returns the
// k nearest points by cosine similarity, best first.
type Store interface {
	Reset(ctx context.Context, dim int) error
	Upsert(ctx context.Context, points []Point) error
	Search(ctx context.Context, query []float32, k int) ([]SearchResult, error)
}
