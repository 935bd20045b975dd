package handlers

import (
	"encoding/json"
	"net/http"

	"docchat/internal/contextutil"
	"docchat/internal/session"
)

// QueryHandler answers questions against the loaded source.
type QueryHandler struct {
	session *session.Session
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(s *session.Session) *QueryHandler {
	return &QueryHandler{session: s}
}

// QueryRequest is the payload for asking a question.
type QueryRequest struct {
	Question string `json:"question"`
}

// Reference points at a retrieved chunk backing the answer.
type Reference struct {
	Source      string  `json:"source"`
	Page        int     `json:"page"`
	StartOffset int     `json:"start_offset"`
	Score       float32 `json:"score"`
}

// QueryResponse is the answer plus the references that grounded it.
type QueryResponse struct {
	Answer     string      `json:"answer"`
	References []Reference `json:"references"`
}

// ServeHTTP handles POST /api/query.
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "Question is required")
		return
	}

	result := h.session.Ask(ctx, req.Question)
	if result.Err != nil {
		writeDomainError(ctx, w, result.Err)
		return
	}

	references := make([]Reference, len(result.Retrieved))
	for i, chunk := range result.Retrieved {
		references[i] = Reference{
			Source:      chunk.Source,
			Page:        chunk.Page,
			StartOffset: chunk.StartOffset,
			Score:       chunk.Score,
		}
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Answer:     result.Answer,
		References: references,
	})
}
