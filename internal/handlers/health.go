package handlers

import "net/http"

// HealthHandler reports service liveness and configured backends.
type HealthHandler struct {
	provider string
	backend  string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(provider, backend string) *HealthHandler {
	return &HealthHandler{provider: provider, backend: backend}
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
	Backend  string `json:"backend"`
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Provider: h.provider,
		Backend:  h.backend,
	})
}
