// Command recommend runs one recommendation query against local data files,
// without starting the HTTP server. Useful for trying out a catalog or
// smoke-testing an index build.
//
// Usage:
//
//	go run ./cmd/recommend -query "a story about forgiveness" -tone Happy -count 5
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/moodshelf/moodshelf/internal/embeddings"
	"github.com/moodshelf/moodshelf/internal/models"
	"github.com/moodshelf/moodshelf/internal/recommender"
)

func main() {
	var (
		query        = flag.String("query", "", "Search query (empty lists books in catalog order)")
		category     = flag.String("category", models.FilterAll, "Category filter")
		tone         = flag.String("tone", models.FilterAll, "Emotional tone filter")
		count        = flag.Int("count", models.DefaultResultCount, "Number of recommendations")
		booksFile    = flag.String("books", "data/books_with_emotions.csv", "Path to the books CSV")
		descFile     = flag.String("descriptions", "data/tagged_description.txt", "Path to the tagged-description corpus")
		fallbackURL  = flag.String("fallback-cover", "assets/missing_cover.png", "Display image for books without a thumbnail")
		logLevelFlag = flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
	)

	flag.Parse()

	setupLogging(*logLevelFlag)

	// OpenAI when a key is present, local deterministic embedder otherwise.
	var client embeddings.Client
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		client = embeddings.NewOpenAIClient(apiKey)
	} else {
		client = embeddings.NewLocalClient()
	}

	engine := recommender.New(recommender.Params{
		BooksFile:        *booksFile,
		DescriptionsFile: *descFile,
		FallbackCover:    *fallbackURL,
		Client:           client,
	})

	ctx := context.Background()

	if err := engine.Initialize(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	resp, err := engine.Recommend(ctx, models.RecommendationRequest{
		Query:       *query,
		Category:    *category,
		Tone:        *tone,
		ResultCount: *count,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(resp.Recommendations) == 0 {
		fmt.Println("No recommendations found.")
		return
	}

	for i, rec := range resp.Recommendations {
		fmt.Printf("%2d. %s\n", i+1, strings.ReplaceAll(rec.Caption, "\n\n", "\n    "))
		fmt.Printf("    [%s] %s\n\n", rec.Book.Category, rec.DisplayImageURL)
	}
}

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
		logLevel = slog.LevelWarn
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}
