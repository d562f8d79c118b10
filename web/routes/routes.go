// Package routes provides HTTP route registration for the web server.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pushr-cd/pushr/web/handlers"
)

// NewRouter builds the HTTP trigger. Everything but /health requires the token.
func NewRouter(h *handlers.Handlers, token string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	RegisterUtilityRoutes(r, h)

	r.Group(func(r chi.Router) {
		r.Use(handlers.RequireToken(token))
		RegisterDeployRoutes(r, h)
	})

	return r
}

// RegisterUtilityRoutes registers routes that need no authorization
func RegisterUtilityRoutes(r chi.Router, h *handlers.Handlers) {
	r.Get("/health", h.Health)
}

// RegisterDeployRoutes registers info, deploy and history routes
func RegisterDeployRoutes(r chi.Router, h *handlers.Handlers) {
	r.Get("/", h.Info)
	r.Post("/", h.DeployAll)
	r.Post("/applications/{slug}", h.DeployApplication)
	r.Get("/history", h.History)
}
