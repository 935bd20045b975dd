package handlers

import (
	"net/http"

	"docchat/internal/rag"
	"docchat/internal/session"
)

// SessionHandler reports the current session state.
type SessionHandler struct {
	session *session.Session
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(s *session.Session) *SessionHandler {
	return &SessionHandler{session: s}
}

// SessionResponse is a snapshot of the session.
type SessionResponse struct {
	Source     string         `json:"source"`
	ChunkCount int            `json:"chunk_count"`
	History    []rag.ChatTurn `json:"history"`
}

// ServeHTTP handles GET /api/session.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	info := h.session.Info()

	history := info.History
	if history == nil {
		history = []rag.ChatTurn{}
	}

	writeJSON(w, http.StatusOK, SessionResponse{
		Source:     info.SourceLabel,
		ChunkCount: info.ChunkCount,
		History:    history,
	})
}
