package session

import (
	"context"
	"fmt"
	"sync"

	"docchat/internal/contextutil"
	"docchat/internal/indexer"
	"docchat/internal/llm"
	"docchat/internal/loader"
	"docchat/internal/rag"
	"docchat/internal/vectorstore"
)

// Options configures chunking and retrieval for a session. A zero ChunkSize
// selects the default size and, if ChunkOverlap is also zero, the default
// overlap. With an explicit ChunkSize, a zero ChunkOverlap means no overlap;
// the default overlap is never combined with a caller-chosen size, since it
// could reach or exceed a small one.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
	TopK         int
}

// LoadResult reports the outcome of loading a source. Err is set instead of
// returned so handlers always get a result to render.
type LoadResult struct {
	OK          bool
	SourceLabel string
	ChunkCount  int
	Err         error
}

// AskResult reports the outcome of one question.
type AskResult struct {
	OK        bool
	Answer    string
	Retrieved []indexer.ScoredChunk
	Err       error
}

// Info is a snapshot of the session state.
type Info struct {
	SourceLabel string
	ChunkCount  int
	History     []rag.ChatTurn
}

// Session holds the state of one conversation over one loaded source: the
// index, the pipeline over it, the source label and the chat history. All
// four are set together on a successful load and cleared together on any
// load failure, so the session is never half-initialized.
type Session struct {
	embedder  llm.Embedder
	generator llm.Generator
	store     vectorstore.Store
	splitter  *indexer.Splitter
	topK      int

	mu          sync.Mutex
	index       *indexer.Index
	pipeline    *rag.Pipeline
	sourceLabel string
	history     []rag.ChatTurn
}

// New creates an empty session. Chunk options are validated up front so a
// bad configuration fails at startup, not on the first load.
func New(embedder llm.Embedder, generator llm.Generator, store vectorstore.Store, opts Options) (*Session, error) {
	size := opts.ChunkSize
	overlap := opts.ChunkOverlap
	if size == 0 {
		size = indexer.DefaultChunkSize
		if overlap == 0 {
			overlap = indexer.DefaultChunkOverlap
		}
	}

	splitter, err := indexer.NewSplitter(size, overlap)
	if err != nil {
		return nil, err
	}

	return &Session{
		embedder:  embedder,
		generator: generator,
		store:     store,
		splitter:  splitter,
		topK:      opts.TopK,
	}, nil
}

// LoadSource replaces the session contents with a freshly indexed source.
// Any previous index and history are discarded before indexing starts, so a
// failed load leaves the session empty rather than pointing at stale data.
func (s *Session) LoadSource(ctx context.Context, label string, units []loader.TextUnit) LoadResult {
	logger := contextutil.LoggerFromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()

	chunks := s.splitter.Split(units)
	if len(chunks) == 0 {
		logger.WarnContext(ctx, "load produced no chunks", "source", label)
		return LoadResult{Err: fmt.Errorf("%w: %s", ErrNoContent, label)}
	}

	index, err := indexer.BuildIndex(ctx, chunks, s.embedder, s.store)
	if err != nil {
		logger.ErrorContext(ctx, "failed to build index", "source", label, "error", err)
		return LoadResult{Err: err}
	}

	s.index = index
	s.pipeline = rag.NewPipeline(index, s.embedder, s.generator, s.topK)
	s.sourceLabel = label
	s.history = nil

	logger.InfoContext(ctx, "source loaded", "source", label, "chunks", len(chunks))
	return LoadResult{OK: true, SourceLabel: label, ChunkCount: len(chunks)}
}

// Ask answers a question against the loaded source. On success the question
// and answer are appended to the history; on failure the history is left
// unchanged so a retry sees the same conversation.
func (s *Session) Ask(ctx context.Context, question string) AskResult {
	logger := contextutil.LoggerFromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pipeline == nil {
		return AskResult{Err: ErrNoActiveSession}
	}

	result, err := s.pipeline.Ask(ctx, question, s.history)
	if err != nil {
		logger.ErrorContext(ctx, "failed to answer question", "error", err)
		return AskResult{Err: err}
	}

	s.history = append(s.history,
		rag.ChatTurn{Role: rag.RoleHuman, Content: question},
		rag.ChatTurn{Role: rag.RoleAssistant, Content: result.Answer},
	)

	return AskResult{OK: true, Answer: result.Answer, Retrieved: result.Retrieved}
}

// Reset clears the session. Handlers call this when a source fails before
// reaching LoadSource, e.g. a fetch error, so the old source never lingers
// past a failed replacement.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// Info returns a snapshot of the current session state.
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]rag.ChatTurn, len(s.history))
	copy(history, s.history)

	count := 0
	if s.index != nil {
		count = s.index.Len()
	}
	return Info{
		SourceLabel: s.sourceLabel,
		ChunkCount:  count,
		History:     history,
	}
}

func (s *Session) reset() {
	s.index = nil
	s.pipeline = nil
	s.sourceLabel = ""
	s.history = nil
}
