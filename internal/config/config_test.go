package config

import (
	"log/slog"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "test-key")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ChunkSize != 1000 {
		t.Errorf("ChunkSize = %d, want 1000", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 150 {
		t.Errorf("ChunkOverlap = %d, want 150", cfg.ChunkOverlap)
	}
	if cfg.TopK != 5 {
		t.Errorf("TopK = %d, want 5", cfg.TopK)
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Errorf("FetchTimeout = %v, want 30s", cfg.FetchTimeout)
	}
	if cfg.VectorBackend != "memory" {
		t.Errorf("VectorBackend = %q, want memory", cfg.VectorBackend)
	}
	if cfg.APIPort != "9000" {
		t.Errorf("APIPort = %q, want 9000", cfg.APIPort)
	}
	if cfg.ChatModel != "gemini-1.5-pro" {
		t.Errorf("ChatModel = %q", cfg.ChatModel)
	}
}

func TestLoad_MissingGeminiKey(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Error("expected error when GEMINI_API_KEY is missing")
	}
}

func TestLoad_OpenAIProviderNeedsNoKey(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLMProvider != "openai" {
		t.Errorf("LLMProvider = %q", cfg.LLMProvider)
	}
}

func TestLoad_UnknownProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "watson")

	if _, err := Load(); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestLoad_ChunkValidation(t *testing.T) {
	tests := []struct {
		name    string
		size    string
		overlap string
		wantErr bool
	}{
		{name: "valid", size: "500", overlap: "50", wantErr: false},
		{name: "overlap equals size", size: "100", overlap: "100", wantErr: true},
		{name: "overlap exceeds size", size: "100", overlap: "200", wantErr: true},
		{name: "zero size", size: "0", overlap: "0", wantErr: true},
		{name: "not a number", size: "lots", overlap: "0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv("CHUNK_SIZE", tt.size)
			t.Setenv("CHUNK_OVERLAP", tt.overlap)

			_, err := Load()
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoad_QdrantBackendRequiresVectorSize(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("VECTOR_BACKEND", "qdrant")

	if _, err := Load(); err == nil {
		t.Error("expected error when QDRANT_VECTOR_SIZE is missing")
	}

	t.Setenv("QDRANT_VECTOR_SIZE", "768")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.QdrantVectorSize != 768 {
		t.Errorf("QdrantVectorSize = %d, want 768", cfg.QdrantVectorSize)
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("VECTOR_BACKEND", "faiss")

	if _, err := Load(); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestLoad_LogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{value: "debug", want: slog.LevelDebug},
		{value: "info", want: slog.LevelInfo},
		{value: "warn", want: slog.LevelWarn},
		{value: "error", want: slog.LevelError},
		{value: "bogus", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv("LOG_LEVEL", tt.value)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.LogLevel != tt.want {
				t.Errorf("LogLevel = %v, want %v", cfg.LogLevel, tt.want)
			}
		})
	}
}
