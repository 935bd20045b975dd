package vectorstore

import (
	"context"
	"math"
	"testing"
)

func TestMemoryStore_RequiresReset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Upsert(ctx, []Point{{ID: "a", Vec: []float32{1, 0}}}); err == nil {
		t.Errorf("expected error upserting before Reset")
	}
	if _, err := store.Search(ctx, []float32{1, 0}, 1); err == nil {
		t.Errorf("expected error searching before Reset")
	}
}

func TestMemoryStore_ResetClearsPoints(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Reset(ctx, 2); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if err := store.Upsert(ctx, []Point{{ID: "a", Vec: []float32{1, 0}}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if err := store.Reset(ctx, 2); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	results, err := store.Search(ctx, []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty store after Reset, got %d results", len(results))
	}
}

func TestMemoryStore_DimensionChecks(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Reset(ctx, 0); err == nil {
		t.Errorf("expected error for zero dimension")
	}
	if err := store.Reset(ctx, 3); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	if err := store.Upsert(ctx, []Point{{ID: "a", Vec: []float32{1, 0}}}); err == nil {
		t.Errorf("expected error for mismatched point dimension")
	}
	if _, err := store.Search(ctx, []float32{1, 0}, 1); err == nil {
		t.Errorf("expected error for mismatched query dimension")
	}
}

func TestMemoryStore_SearchOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Reset(ctx, 2); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	points := []Point{
		{ID: "east", Vec: []float32{1, 0}},
		{ID: "north", Vec: []float32{0, 1}},
		{ID: "northeast", Vec: []float32{1, 1}},
	}
	if err := store.Upsert(ctx, points); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	results, err := store.Search(ctx, []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "east" {
		t.Errorf("expected east first, got %s", results[0].ID)
	}
	if results[1].ID != "northeast" {
		t.Errorf("expected northeast second, got %s", results[1].ID)
	}
	if results[0].Score < results[1].Score {
		t.Errorf("results not ordered by score: %v", results)
	}
}

func TestMemoryStore_KLargerThanStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Reset(ctx, 2); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if err := store.Upsert(ctx, []Point{{ID: "only", Vec: []float32{0, 1}}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	results, err := store.Search(ctx, []float32{0, 1}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}

	if _, err := store.Search(ctx, []float32{0, 1}, 0); err == nil {
		t.Errorf("expected error for k=0")
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("cosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}
