package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"docchat/internal/contextutil"
	"docchat/internal/indexer"
	"docchat/internal/llm"
	"docchat/internal/loader"
	"docchat/internal/session"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message})
}

// writeDomainError maps a domain error to an HTTP status and writes it.
// Bad input is 400, asking without a session is 409, upstream provider
// failures are 502, everything else is 500.
func writeDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	switch {
	case errors.Is(err, session.ErrNoActiveSession):
		logger.WarnContext(ctx, "no active session", "error", err)
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, loader.ErrUnsupportedType),
		errors.Is(err, loader.ErrFetch),
		errors.Is(err, loader.ErrParse),
		errors.Is(err, session.ErrNoContent),
		errors.Is(err, indexer.ErrNoChunks):
		logger.WarnContext(ctx, "source rejected", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, llm.ErrProvider), errors.Is(err, indexer.ErrEmbedding):
		logger.ErrorContext(ctx, "provider error", "error", err)
		writeError(w, http.StatusBadGateway, "External service error")
	default:
		logger.ErrorContext(ctx, "internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
