package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prepdeck/prepdeck-api/internal/api"
	apiMiddleware "github.com/prepdeck/prepdeck-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	studyHandler := api.NewStudyHandler(app.reviewService, app.logger)
	progressHandler := api.NewProgressHandler(app.progressService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Review scheduling endpoints
			r.Get("/items/next", studyHandler.GetNextItem)
			r.Get("/items/due", studyHandler.ListDueItems)
			r.Post("/items/{id}/review", studyHandler.SubmitReview)

			// Progress endpoints
			r.Post("/sessions", progressHandler.CompleteSession)
			r.Get("/profile", progressHandler.GetProfile)
			r.Get("/activity", progressHandler.ListActivity)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
