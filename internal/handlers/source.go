package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"docchat/internal/contextutil"
	"docchat/internal/loader"
	"docchat/internal/session"
)

// maxUploadBytes caps the size of uploaded files.
const maxUploadBytes = 32 << 20

// SourceURLHandler loads a document from a URL into the session.
type SourceURLHandler struct {
	loader  *loader.Loader
	session *session.Session
}

// NewSourceURLHandler creates a new SourceURLHandler.
func NewSourceURLHandler(l *loader.Loader, s *session.Session) *SourceURLHandler {
	return &SourceURLHandler{loader: l, session: s}
}

// SourceURLRequest is the payload for loading a URL.
type SourceURLRequest struct {
	URL string `json:"url"`
}

// LoadResponse reports a completed load.
type LoadResponse struct {
	Source     string `json:"source"`
	ChunkCount int    `json:"chunk_count"`
}

// ServeHTTP handles POST /api/source/url.
func (h *SourceURLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req SourceURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}

	units, err := h.loader.LoadURL(ctx, req.URL)
	if err != nil {
		// A failed load must not leave the previous source active.
		h.session.Reset()
		writeDomainError(ctx, w, err)
		return
	}

	finishLoad(ctx, w, h.session, "URL: "+req.URL, units)
}

// SourceFileHandler loads an uploaded file into the session.
type SourceFileHandler struct {
	loader  *loader.Loader
	session *session.Session
}

// NewSourceFileHandler creates a new SourceFileHandler.
func NewSourceFileHandler(l *loader.Loader, s *session.Session) *SourceFileHandler {
	return &SourceFileHandler{loader: l, session: s}
}

// ServeHTTP handles POST /api/source/file (multipart, field "file").
func (h *SourceFileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		logger.WarnContext(ctx, "invalid multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File field is required")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		logger.ErrorContext(ctx, "failed to read upload", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read upload")
		return
	}

	units, err := h.loader.LoadUpload(ctx, header.Filename, data)
	if err != nil {
		h.session.Reset()
		writeDomainError(ctx, w, err)
		return
	}

	finishLoad(ctx, w, h.session, "File: "+header.Filename, units)
}

// finishLoad indexes the extracted units and writes the load outcome.
func finishLoad(ctx context.Context, w http.ResponseWriter, s *session.Session, label string, units []loader.TextUnit) {
	result := s.LoadSource(ctx, label, units)
	if result.Err != nil {
		writeDomainError(ctx, w, result.Err)
		return
	}
	writeJSON(w, http.StatusOK, LoadResponse{
		Source:     result.SourceLabel,
		ChunkCount: result.ChunkCount,
	})
}
