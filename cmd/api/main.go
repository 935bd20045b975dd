package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"docchat/internal/config"
	"docchat/internal/http"
	"docchat/internal/llm"
	"docchat/internal/loader"
	"docchat/internal/session"
	"docchat/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx := context.Background()

	// Select the model provider
	var (
		embedder  llm.Embedder
		generator llm.Generator
	)
	switch cfg.LLMProvider {
	case "gemini":
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.ChatModel, cfg.EmbedModel)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		embedder = client
		generator = client
	case "openai":
		client := llm.NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.ChatModel, cfg.EmbedModel)
		embedder = client
		generator = client
	}
	slog.Info("Model provider initialized", "provider", cfg.LLMProvider, "chat_model", cfg.ChatModel, "embed_model", cfg.EmbedModel)

	// Select the vector store backend
	var store vectorstore.Store
	switch cfg.VectorBackend {
	case "qdrant":
		qdrantStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantCollection)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		store = qdrantStore
		slog.Info("Qdrant store ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)
	default:
		store = vectorstore.NewMemoryStore()
	}

	sess, err := session.New(embedder, generator, store, session.Options{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		TopK:         cfg.TopK,
	})
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	slog.Info("Session initialized", "chunk_size", cfg.ChunkSize, "chunk_overlap", cfg.ChunkOverlap, "top_k", cfg.TopK)

	docLoader := loader.New(cfg.FetchTimeout)

	// Create router with dependencies
	deps := &http.Deps{
		Loader:   docLoader,
		Session:  sess,
		Provider: cfg.LLMProvider,
		Backend:  cfg.VectorBackend,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
