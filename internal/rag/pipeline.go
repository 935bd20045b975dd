package rag

import (
	"context"
	"fmt"
	"strings"

	"docchat/internal/contextutil"
	"docchat/internal/indexer"
	"docchat/internal/llm"
)

// DefaultTopK is how many chunks retrieval returns when not configured.
const DefaultTopK = 5

// Pipeline answers questions over an index using conversational retrieval:
// rewrite the question against the chat history, retrieve the most similar
// chunks, then generate an answer constrained to that context.
type Pipeline struct {
	index     *indexer.Index
	embedder  llm.Embedder
	generator llm.Generator
	topK      int
}

// NewPipeline creates a pipeline over the given index.
func NewPipeline(index *indexer.Index, embedder llm.Embedder, generator llm.Generator, topK int) *Pipeline {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Pipeline{
		index:     index,
		embedder:  embedder,
		generator: generator,
		topK:      topK,
	}
}

// Ask runs the full pipeline for one question. History is read only; the
// caller owns appending turns after a successful run.
func (p *Pipeline) Ask(ctx context.Context, question string, history []ChatTurn) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	searchQuery := question
	if len(history) > 0 {
		rewritten, err := p.rewrite(ctx, question, history)
		if err != nil {
			return nil, fmt.Errorf("%w: rewrite: %w", ErrPipeline, err)
		}
		logger.DebugContext(ctx, "question rewritten", "original", question, "rewritten", rewritten)
		searchQuery = rewritten
	}

	vectors, err := p.embedder.EmbedTexts(ctx, []string{searchQuery})
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", ErrPipeline, err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: embed query: no vector returned", ErrPipeline)
	}

	retrieved, err := p.index.Search(ctx, vectors[0], p.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: retrieve: %w", ErrPipeline, err)
	}
	logger.DebugContext(ctx, "chunks retrieved", "count", len(retrieved))

	answer, err := p.generate(ctx, question, history, retrieved)
	if err != nil {
		return nil, fmt.Errorf("%w: generate: %w", ErrPipeline, err)
	}

	return &Result{Answer: answer, Retrieved: retrieved}, nil
}

// rewrite asks the generator for a standalone version of the question.
func (p *Pipeline) rewrite(ctx context.Context, question string, history []ChatTurn) (string, error) {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: contextualizePrompt})
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, llm.Message{Role: "user", Content: question})

	rewritten, err := p.generator.Chat(ctx, messages)
	if err != nil {
		return "", err
	}
	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return question, nil
	}
	return rewritten, nil
}

// generate produces the final answer from the retrieved context.
func (p *Pipeline) generate(ctx context.Context, question string, history []ChatTurn, retrieved []indexer.ScoredChunk) (string, error) {
	contents := make([]string, len(retrieved))
	for i, chunk := range retrieved {
		contents[i] = chunk.Content
	}
	system := fmt.Sprintf(qaPrompt, strings.Join(contents, "\n\n"))

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: system})
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, llm.Message{Role: "user", Content: question})

	return p.generator.Chat(ctx, messages)
}

func historyMessages(history []ChatTurn) []llm.Message {
	messages := make([]llm.Message, 0, len(history))
	for _, turn := range history {
		role := "user"
		if turn.Role == RoleAssistant {
			role = "assistant"
		}
		messages = append(messages, llm.Message{Role: role, Content: turn.Content})
	}
	return messages
}
