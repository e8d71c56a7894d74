package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nevishq/genforge/internal/api"
	apiMiddleware "github.com/nevishq/genforge/internal/api/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRouter creates and configures the application router with all
// routes and middleware. It accepts the application dependencies to
// create handlers and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(
		apiMiddleware.NewTraceMiddleware(app.logger),
	) // Add trace IDs for improved error handling

	// Create API handlers using the application's services
	generateHandler := api.NewGenerateHandler(app.engine, app.brands, app.logger)
	creditsHandler := api.NewCreditsHandler(app.credits, app.logger)
	healthHandler := api.NewHealthHandler(app.tiers, app.clients)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", generateHandler.Generate)
		r.Get("/credits/{accountID}", creditsHandler.GetBalance)
	})

	// Health check endpoint reporting the configured tiers and providers
	r.Get("/healthz", healthHandler.Health)

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
