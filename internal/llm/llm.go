package llm

import (
	"context"
	"errors"
)

// ErrProvider indicates a failure in an external model provider.
// Callers can use errors.Is to classify transient upstream failures.
var ErrProvider = errors.New("llm provider error")

// Message is a single turn in a chat exchange.
// Role is one of "system", "user" or "assistant".
type Message struct {
	Role    string
	Content string
}

// Embedder generates vector embeddings for texts.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces a completion for a chat exchange.
type Generator interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
