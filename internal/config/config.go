package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	LLMProvider string // "gemini" or "openai"

	// Gemini provider
	GeminiAPIKey string
	ChatModel    string
	EmbedModel   string

	// OpenAI-compatible provider
	OpenAIBaseURL string
	OpenAIAPIKey  string

	VectorBackend    string // "memory" or "qdrant"
	QdrantURL        string
	QdrantCollection string
	QdrantVectorSize int

	ChunkSize    int
	ChunkOverlap int
	TopK         int

	FetchTimeout time.Duration
	APIPort      string
	LogLevel     slog.Level
	LogFormat    string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory, it is loaded automatically;
// environment variables already set take precedence over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		LLMProvider:      strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		ChatModel:        getEnv("CHAT_MODEL", "gemini-1.5-pro"),
		EmbedModel:       getEnv("EMBED_MODEL", "text-embedding-004"),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "http://localhost:8080"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", "dummy-key"),
		VectorBackend:    strings.ToLower(getEnv("VECTOR_BACKEND", "memory")),
		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "docchat"),
		APIPort:          getEnv("API_PORT", "9000"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.ChunkSize, err = getEnvInt("CHUNK_SIZE", 1000); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap, err = getEnvInt("CHUNK_OVERLAP", 150); err != nil {
		return nil, err
	}
	if cfg.TopK, err = getEnvInt("TOP_K", 5); err != nil {
		return nil, err
	}
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("CHUNK_SIZE must be greater than 0")
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE)")
	}
	if cfg.TopK <= 0 {
		return nil, fmt.Errorf("TOP_K must be greater than 0")
	}

	timeoutSecs, err := getEnvInt("FETCH_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	if timeoutSecs <= 0 {
		return nil, fmt.Errorf("FETCH_TIMEOUT_SECONDS must be greater than 0")
	}
	cfg.FetchTimeout = time.Duration(timeoutSecs) * time.Second

	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER is gemini")
		}
	case "openai":
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q (want gemini or openai)", cfg.LLMProvider)
	}

	switch cfg.VectorBackend {
	case "memory":
	case "qdrant":
		// Qdrant requires a fixed vector size at collection creation time.
		// This must match the output size of the embeddings model.
		if cfg.QdrantVectorSize, err = getEnvInt("QDRANT_VECTOR_SIZE", 0); err != nil {
			return nil, err
		}
		if cfg.QdrantVectorSize <= 0 {
			return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required when VECTOR_BACKEND is qdrant")
		}
	default:
		return nil, fmt.Errorf("unknown VECTOR_BACKEND %q (want memory or qdrant)", cfg.VectorBackend)
	}

	cfg.LogLevel = parseLogLevel(getEnv("LOG_LEVEL", "info"))

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return parsed, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
