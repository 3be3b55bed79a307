package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/moodshelf/moodshelf/internal/api/handlers"
	"github.com/moodshelf/moodshelf/internal/api/middleware"
	"github.com/moodshelf/moodshelf/internal/config"
	"github.com/moodshelf/moodshelf/internal/embeddings"
	"github.com/moodshelf/moodshelf/internal/observability"
	"github.com/moodshelf/moodshelf/internal/recommender"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Configure slog with the log level from config
	setupLogging(cfg.LogLevel)

	// Choose the embedding oracle: OpenAI when a key is configured, otherwise the
	// deterministic local embedder (useful for development and demos, no network calls)
	var embeddingClient embeddings.Client
	if cfg.OpenAIAPIKey != "" {
		embeddingClient = embeddings.NewOpenAIClient(cfg.OpenAIAPIKey,
			embeddings.WithDimensions(cfg.EmbeddingDimensions),
			embeddings.WithRateLimit(cfg.EmbeddingRateLimit),
		)
		slog.Info("Embedding oracle: OpenAI", "embedding_model", "text-embedding-3-small", "dimensions", cfg.EmbeddingDimensions)
	} else {
		embeddingClient = embeddings.NewLocalClientWithDimensions(cfg.EmbeddingDimensions)
		slog.Info("Embedding oracle: local deterministic embedder (OPENAI_API_KEY not set)")
	}

	// Build the recommendation engine: catalog load plus semantic index build.
	// The server does not start serving /v1 until this completes.
	engine := recommender.New(recommender.Params{
		BooksFile:                 cfg.BooksFile,
		DescriptionsFile:          cfg.DescriptionsFile,
		FallbackCover:             cfg.FallbackCover,
		Client:                    embeddingClient,
		InitialTopK:               cfg.InitialTopK,
		MaxResultCount:            cfg.MaxResultCount,
		DescriptionTruncateLength: cfg.DescriptionTruncateLength,
		QueryCacheSize:            cfg.QueryCacheSize,
	})

	if err := engine.Initialize(ctx); err != nil {
		slog.Error("Failed to initialize recommendation engine", "error", err)
		os.Exit(1)
	}

	recommendationsHandler := handlers.NewRecommendationsHandler(engine)
	catalogHandler := handlers.NewCatalogHandler(engine)
	healthHandler := handlers.NewHealthHandler()

	// Set up public endpoints (no authentication required)
	publicMux := http.NewServeMux()
	publicMux.HandleFunc("GET /health", healthHandler.Check)

	// Set up protected endpoints (authentication required)
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("POST /v1/recommendations", recommendationsHandler.Recommend)
	protectedMux.HandleFunc("GET /v1/categories", catalogHandler.Categories)
	protectedMux.HandleFunc("GET /v1/tones", catalogHandler.Tones)

	// Apply middleware to protected endpoints
	var protectedHandler http.Handler = protectedMux
	protectedHandler = middleware.Auth(cfg.APIKey)(protectedHandler)
	protectedHandler = middleware.MaxBody(cfg.MaxRequestBodyBytes)(protectedHandler)

	// Combine both handlers
	mainMux := http.NewServeMux()
	mainMux.Handle("/v1/", protectedHandler)
	mainMux.Handle("/", publicMux) // Catch-all for public routes (/health, etc.)

	// Request ID first so logging and handlers see it in context
	handler := middleware.RequestID(middleware.Logging(mainMux))

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

// setupLogging configures slog with JSON output at the specified log level,
// enriched with trace and request id context.
func setupLogging(level string) {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	handler := observability.NewTraceContextHandler(slog.NewJSONHandler(os.Stdout, opts))
	slog.SetDefault(slog.New(handler))
}
