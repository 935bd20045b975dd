package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docchat/internal/handlers"
	"docchat/internal/loader"
	"docchat/internal/session"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Loader   *loader.Loader
	Session  *session.Session
	Provider string
	Backend  string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	sourceURLHandler := handlers.NewSourceURLHandler(deps.Loader, deps.Session)
	sourceFileHandler := handlers.NewSourceFileHandler(deps.Loader, deps.Session)
	queryHandler := handlers.NewQueryHandler(deps.Session)
	sessionHandler := handlers.NewSessionHandler(deps.Session)
	healthHandler := handlers.NewHealthHandler(deps.Provider, deps.Backend)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/source/url", sourceURLHandler)
		r.Method(http.MethodPost, "/source/file", sourceFileHandler)
		r.Method(http.MethodPost, "/query", queryHandler)
		r.Method(http.MethodGet, "/session", sessionHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
