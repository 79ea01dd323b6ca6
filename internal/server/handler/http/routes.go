package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"

	"github.com/nanolink/nanolink/internal/middleware"
)

// NewRouter constructs the HTTP handler serving the development server
// API.
//
// Routes:
//
//	POST   /api/auth/register  → authHandler.Register
//	POST   /api/auth/login     → authHandler.Login
//	POST   /api/shorten        → linkHandler.Shorten
//	GET    /api/activity       → linkHandler.Activity
//	DELETE /api/activity/{id}  → linkHandler.DeleteActivity
//	GET    /api/url/{code}     → linkHandler.ResolveCode
//	POST   /api/click/{code}   → linkHandler.TrackClick
//	GET    /{code}             → linkHandler.Redirect
func NewRouter(
	authHandler *AuthHandler,
	linkHandler *LinkHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Post("/shorten", linkHandler.Shorten)
		r.Get("/activity", linkHandler.Activity)
		r.Delete("/activity/{id}", linkHandler.DeleteActivity)
		r.Get("/url/{code}", linkHandler.ResolveCode)
		r.Post("/click/{code}", linkHandler.TrackClick)
	})

	r.Get("/{code}", linkHandler.Redirect)

	return r
}
