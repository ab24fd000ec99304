// Package main is the entry point for the Pulsewise server. It loads
// configuration, connects to MongoDB and optionally Valkey, wires up the
// handlers, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pulsewise/internal/cache"
	"pulsewise/internal/config"
	"pulsewise/internal/database"
	"pulsewise/internal/handlers"
	"pulsewise/internal/router"
	"pulsewise/internal/seo"
	"pulsewise/internal/store"
	"pulsewise/web"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load a local .env in development; ignore when absent.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"site", cfg.SiteBaseURL,
	)

	// Connect to MongoDB.
	ctx := context.Background()
	client, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoTLSKey)
	if err != nil {
		slog.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	defer database.Disconnect(client)

	db := client.Database(cfg.MongoDB)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		slog.Error("failed to ensure indexes", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if posts already exist).
	if cfg.IsDev() {
		if err := database.Seed(ctx, db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Pick the store backend. The HTTP query-protocol backend exists for
	// restricted runtimes where the driver cannot run; when its endpoint
	// is configured it handles reads while writes stay on the driver.
	writer := store.NewPostStore(db.Collection(database.PostCollection))
	var reader store.Reader = writer
	if cfg.DataAPIURL != "" {
		reader = store.NewDataAPIStore(cfg.DataAPIURL, cfg.DataAPIKey, cfg.MongoDB, database.PostCollection)
		slog.Info("using http query backend for reads", "url", cfg.DataAPIURL)
	}

	// Connect to Valkey when configured. The page cache degrades to a
	// no-op without it.
	var pageCache *cache.PageCache
	if cfg.ValkeyAddr() != "" {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		pageCache = cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)
	} else {
		slog.Warn("valkey not configured — page caching disabled")
	}

	// Blog templates come from the static hosting origin when one is
	// configured, otherwise from the copies embedded in the binary.
	var templates seo.TemplateSource
	if cfg.TemplateOrigin != "" {
		templates = seo.NewOriginSource(cfg.TemplateOrigin)
	} else {
		sub, err := fs.Sub(web.TemplateFS, "templates")
		if err != nil {
			slog.Error("failed to open embedded templates", "error", err)
			os.Exit(1)
		}
		templates = seo.NewFSSource(sub)
	}

	injector := seo.New(seo.Site{
		Name:          cfg.SiteName,
		BaseURL:       cfg.SiteBaseURL,
		DefaultImage:  cfg.DefaultOGImage,
		PublisherLogo: cfg.PublisherLogo,
	})

	// Create handler groups with their dependencies.
	api := handlers.NewAPI(reader)
	webhook := handlers.NewWebhook(writer, pageCache, cfg.WebhookAPIKey, cfg.WebhookAllowedOrigin)
	blog := handlers.NewBlogPage(reader, templates, injector, pageCache)
	sitemap := handlers.NewSitemap(reader, cfg.SiteBaseURL)

	// Set up the Chi router with all middleware and routes.
	r := router.New(api, webhook, blog, sitemap)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
