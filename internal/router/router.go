// Package router sets up the HTTP routes and middleware chain for the
// Pulsewise server: the public read API, the ingestion webhook, the
// server-rendered blog pages, and the sitemap.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pulsewise/internal/handlers"
	"pulsewise/internal/middleware"
)

// webhookRateLimit caps ingestion deliveries per client IP. The writing
// service batches publishes, so a generous per-minute budget is fine.
const (
	webhookRateLimit  = 30
	webhookRateWindow = time.Minute
)

// New creates and returns the configured Chi router with all middleware
// and routes wired up.
func New(api *handlers.API, webhook *handlers.Webhook, blog *handlers.BlogPage, sitemap *handlers.Sitemap) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request. RequestID comes first
	// so the recoverer and logger see the ID in context.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check.
	r.Get("/health", healthHandler)

	// Public read API. All methods route to the handler so it can answer
	// 405 with a JSON body instead of chi's plain-text default.
	r.HandleFunc("/api/blog-posts", api.Posts)

	// Ingestion webhook — rate limited per client IP.
	limiter := middleware.NewRateLimiter(webhookRateLimit, webhookRateWindow)
	r.With(limiter.Middleware).HandleFunc("/api/blog-webhook", webhook.Receive)

	// Server-rendered blog pages.
	r.Get("/blog", blog.Listing)
	r.Get("/blog/{slug}", blog.Post)

	// Sitemap.
	r.Get("/sitemap.xml", sitemap.Serve)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
