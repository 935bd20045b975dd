package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient implements Embedder and Generator against the Gemini API.
type GeminiClient struct {
	client     *genai.Client
	chatModel  string
	embedModel string
}

// NewGeminiClient creates a Gemini client for the given models.
func NewGeminiClient(ctx context.Context, apiKey, chatModel, embedModel string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create gemini client: %w", ErrProvider, err)
	}
	return &GeminiClient{
		client:     client,
		chatModel:  chatModel,
		embedModel: embedModel,
	}, nil
}

// Chat sends a chat exchange to the Gemini API and returns the completion text.
// A leading "system" message becomes the system instruction; "assistant"
// messages map to the "model" role.
func (c *GeminiClient) Chat(ctx context.Context, messages []Message) (string, error) {
	var config *genai.GenerateContentConfig
	contents := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case "system":
			if config == nil {
				config = &genai.GenerateContentConfig{}
			}
			config.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: msg.Content}},
			}
		case "assistant":
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}

	if len(contents) == 0 {
		return "", fmt.Errorf("%w: no messages to send", ErrProvider)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.chatModel, contents, config)
	if err != nil {
		return "", fmt.Errorf("%w: generate content: %w", ErrProvider, err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// EmbedTexts generates one embedding per input text.
func (c *GeminiClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: empty input array", ErrProvider)
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = &genai.Content{Parts: []*genai.Part{{Text: text}}}
	}

	resp, err := c.client.Models.EmbedContent(ctx, c.embedModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: embed content: %w", ErrProvider, err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", ErrProvider, len(texts), len(resp.Embeddings))
	}

	result := make([][]float32, len(resp.Embeddings))
	for i, embedding := range resp.Embeddings {
		if embedding == nil || len(embedding.Values) == 0 {
			return nil, fmt.Errorf("%w: no embedding values returned for text %d", ErrProvider, i)
		}
		result[i] = embedding.Values
	}
	return result, nil
}
