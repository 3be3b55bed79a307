// Package recommender implements the recommendation engine: semantic candidate
// retrieval over the book corpus followed by category filtering, tone ordering,
// and caption construction.
package recommender

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/moodshelf/moodshelf/internal/catalog"
	"github.com/moodshelf/moodshelf/internal/embeddings"
	"github.com/moodshelf/moodshelf/internal/index"
	"github.com/moodshelf/moodshelf/internal/models"
	"github.com/moodshelf/moodshelf/internal/shelferrors"
)

const (
	defaultInitialTopK    = 50
	defaultMaxResultCount = 100
	defaultTruncateLength = 50
)

// catalogStore is the subset of catalog operations the engine drives.
type catalogStore interface {
	Categories() []string
	LookupByIDs(ids []int64, limit int) []models.BookRecord
}

// semanticIndex is the retrieval operation the engine drives.
type semanticIndex interface {
	Search(ctx context.Context, query string, k int) ([]index.Hit, error)
}

// Engine orchestrates the recommendation pipeline. It has exactly two states:
// uninitialized and ready. Initialize is the only transition; there is no
// teardown — a new Engine is the only way to refresh data.
type Engine struct {
	booksFile        string
	descriptionsFile string
	fallbackCover    string
	client           embeddings.Client

	initialTopK    int
	maxResultCount int
	truncateLength int
	queryCacheSize int
	logger         *slog.Logger

	store catalogStore
	index semanticIndex
	ready atomic.Bool
}

// Params configures the Engine. Client is required; zero-valued limits fall back
// to defaults (InitialTopK 50, MaxResultCount 100, DescriptionTruncateLength 50).
// QueryCacheSize <= 0 disables query embedding caching. Logger may be nil.
type Params struct {
	BooksFile                 string
	DescriptionsFile          string
	FallbackCover             string
	Client                    embeddings.Client
	InitialTopK               int
	MaxResultCount            int
	DescriptionTruncateLength int
	QueryCacheSize            int
	Logger                    *slog.Logger
}

// New creates an uninitialized Engine. Call Initialize before Recommend.
func New(p Params) *Engine {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	initialTopK := p.InitialTopK
	if initialTopK <= 0 {
		initialTopK = defaultInitialTopK
	}

	maxResultCount := p.MaxResultCount
	if maxResultCount <= 0 {
		maxResultCount = defaultMaxResultCount
	}

	truncateLength := p.DescriptionTruncateLength
	if truncateLength <= 0 {
		truncateLength = defaultTruncateLength
	}

	return &Engine{
		booksFile:        p.BooksFile,
		descriptionsFile: p.DescriptionsFile,
		fallbackCover:    p.FallbackCover,
		client:           p.Client,
		initialTopK:      initialTopK,
		maxResultCount:   maxResultCount,
		truncateLength:   truncateLength,
		queryCacheSize:   p.QueryCacheSize,
		logger:           logger,
	}
}

// Initialize loads the catalog store and builds the semantic index, in that
// order. It must complete before Recommend may be called. On failure the engine
// stays uninitialized and the typed error is propagated. Calling Initialize on
// a ready engine is a no-op.
func (e *Engine) Initialize(ctx context.Context) error {
	if e.ready.Load() {
		return nil
	}

	e.logger.Info("initializing recommender", "books_file", e.booksFile, "descriptions_file", e.descriptionsFile)

	store, err := catalog.Load(e.booksFile, e.fallbackCover)
	if err != nil {
		e.logger.Error("catalog load failed", "error", err)

		return err
	}

	ix, err := index.Build(ctx, index.BuildParams{
		Path:           e.descriptionsFile,
		Client:         e.client,
		QueryCacheSize: e.queryCacheSize,
		Logger:         e.logger,
	})
	if err != nil {
		e.logger.Error("semantic index build failed", "error", err)

		return err
	}

	e.store = store
	e.index = ix
	e.ready.Store(true)

	e.logger.Info("recommender initialized", "books", store.Len(), "index_entries", ix.Len())

	return nil
}

// Ready reports whether Initialize has completed successfully.
func (e *Engine) Ready() bool {
	return e.ready.Load()
}

// Categories returns the catalog's category labels, "All" first.
func (e *Engine) Categories() ([]string, error) {
	if !e.ready.Load() {
		return nil, shelferrors.NewNotInitializedError("categories requested before initialization")
	}

	return e.store.Categories(), nil
}

// Tones returns the selectable emotional tones, "All" first.
func (e *Engine) Tones() []string {
	return models.Tones
}

// Recommend runs the pipeline for one request and returns a fully populated
// response, or a typed error — never a partial response.
//
// An empty query is legal and yields the index's default ordering. The category
// filter is applied strictly after the initial top-k cap: a book outside the
// top-k candidates is not recovered even if it is the only match for the chosen
// category. This favors semantic relevance over exhaustive category coverage;
// raise InitialTopK for broader coverage.
func (e *Engine) Recommend(ctx context.Context, req models.RecommendationRequest) (models.RecommendationResponse, error) {
	if !e.ready.Load() {
		return models.RecommendationResponse{}, shelferrors.NewNotInitializedError("recommend called before initialization")
	}

	if req.Category == "" {
		req.Category = models.FilterAll
	}

	if req.Tone == "" {
		req.Tone = models.FilterAll
	}

	resultCount := req.ResultCount
	if resultCount <= 0 {
		resultCount = models.DefaultResultCount
	}

	if resultCount > e.maxResultCount {
		resultCount = e.maxResultCount
	}

	hits, err := e.index.Search(ctx, req.Query, e.initialTopK)
	if err != nil {
		return models.RecommendationResponse{}, shelferrors.NewRecommendationError(
			fmt.Sprintf("semantic search failed for query %q", req.Query), err)
	}

	ids := make([]int64, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.BookID)
	}

	records := e.store.LookupByIDs(ids, e.initialTopK)
	records = catalog.FilterByCategory(records, req.Category)

	// Unknown tone names are treated as "All": tolerant, never fatal.
	if emotion, ok := models.ToneEmotions[req.Tone]; ok {
		records = catalog.SortByEmotion(records, emotion)
	}

	if len(records) > resultCount {
		records = records[:resultCount]
	}

	recommendations := make([]models.BookRecommendation, 0, len(records))
	for _, record := range records {
		recommendations = append(recommendations, models.BookRecommendation{
			Book:            record,
			DisplayImageURL: record.DisplayImageURL,
			Caption:         e.caption(record),
		})
	}

	return models.RecommendationResponse{
		Recommendations: recommendations,
		Query:           req.Query,
		Category:        req.Category,
		Tone:            req.Tone,
		TotalFound:      len(recommendations),
	}, nil
}

// caption renders the human-readable summary: title, author byline, truncated description.
func (e *Engine) caption(book models.BookRecord) string {
	return fmt.Sprintf("%s by %s\n\n%s",
		book.Title,
		FormatAuthors(book.Authors),
		TruncateDescription(book.Description, e.truncateLength),
	)
}
