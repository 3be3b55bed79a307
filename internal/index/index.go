// Package index implements the in-memory semantic index over tagged book descriptions.
//
// The corpus format is one record per line, the line's leading whitespace-delimited
// token being the ISBN of the book it describes. The id↔text mapping is resolved once
// at build time; lines whose id cannot be parsed are dropped, never escalated — the
// pipeline only needs some candidates, not all of them.
package index

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/moodshelf/moodshelf/internal/embeddings"
	"github.com/moodshelf/moodshelf/internal/shelferrors"
	"github.com/moodshelf/moodshelf/pkg/cache"
	vecmath "github.com/moodshelf/moodshelf/pkg/embeddings"
)

const defaultBatchSize = 64

// entry is one indexed description: book id, raw tagged text, embedding vector.
// The vector is opaque outside this package.
type entry struct {
	bookID int64
	text   string
	vector []float32
}

// Hit is one search result: the book id and the raw tagged text it was indexed under.
type Hit struct {
	BookID int64
	Text   string
}

// Index holds the built nearest-neighbor index. Read-only after Build; safe for
// concurrent Search calls.
type Index struct {
	client     embeddings.Client
	entries    []entry
	dropped    int
	queryCache *cache.LoaderCache[string, []float32]
	logger     *slog.Logger
}

// BuildParams configures Build. QueryCacheSize <= 0 disables query embedding caching;
// BatchSize <= 0 uses a default. Logger may be nil (slog.Default is used).
type BuildParams struct {
	Path           string
	Client         embeddings.Client
	BatchSize      int
	QueryCacheSize int
	Logger         *slog.Logger
}

// Build reads the tagged-description corpus and embeds every parseable line.
// A missing or unreadable corpus file is a *shelferrors.DataLoadError; embedding
// backend failures are *shelferrors.ModelInitError. Lines with an unparseable
// leading id are silently dropped (debug-logged, counted).
func Build(ctx context.Context, p BuildParams) (*Index, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	batchSize := p.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	file, err := os.Open(p.Path)
	if err != nil {
		return nil, shelferrors.NewDataLoadError("descriptions", fmt.Sprintf("descriptions file not found: %s", p.Path), err)
	}
	defer file.Close()

	ix := &Index{
		client: p.Client,
		logger: logger,
	}

	if p.QueryCacheSize > 0 {
		queryCache, cacheErr := cache.NewLoaderCache[string, []float32](p.QueryCacheSize, func(s string) string { return s })
		if cacheErr != nil {
			return nil, shelferrors.NewModelInitError("failed to create query cache", cacheErr)
		}

		ix.queryCache = queryCache
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		id, ok := parseLeadingID(line)
		if !ok {
			ix.dropped++
			logger.Debug("index: dropped line with unparseable id", "line_prefix", prefix(line, 40))

			continue
		}

		ix.entries = append(ix.entries, entry{bookID: id, text: line})
	}

	if err := scanner.Err(); err != nil {
		return nil, shelferrors.NewDataLoadError("descriptions", "failed to read descriptions file", err)
	}

	if err := ix.embedEntries(ctx, batchSize); err != nil {
		return nil, err
	}

	logger.Info("semantic index built", "entries", len(ix.entries), "dropped", ix.dropped)

	return ix, nil
}

// embedEntries fills in entry vectors in batches, preserving entry order.
func (ix *Index) embedEntries(ctx context.Context, batchSize int) error {
	for start := 0; start < len(ix.entries); start += batchSize {
		end := min(start+batchSize, len(ix.entries))

		texts := make([]string, 0, end-start)
		for _, e := range ix.entries[start:end] {
			texts = append(texts, e.text)
		}

		vectors, err := ix.client.CreateEmbeddings(ctx, texts)
		if err != nil {
			return shelferrors.NewModelInitError("failed to embed descriptions", err)
		}

		for i, vec := range vectors {
			vecmath.NormalizeL2(vec)
			ix.entries[start+i].vector = vec
		}
	}

	return nil
}

// Search returns up to k hits ordered by decreasing semantic similarity to query.
// An empty (or whitespace-only) query never errors: it yields the first k entries
// in index order, the index's default ordering. Exact score ties keep index order.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]Hit, error) {
	if k <= 0 {
		return nil, nil
	}

	if k > len(ix.entries) {
		k = len(ix.entries)
	}

	if strings.TrimSpace(query) == "" {
		hits := make([]Hit, 0, k)
		for _, e := range ix.entries[:k] {
			hits = append(hits, Hit{BookID: e.bookID, Text: e.text})
		}

		return hits, nil
	}

	queryVec, err := ix.queryEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	type scored struct {
		pos   int
		score float64
	}

	ranked := make([]scored, len(ix.entries))
	for i, e := range ix.entries {
		ranked[i] = scored{pos: i, score: vecmath.CosineSimilarity(queryVec, e.vector)}
	}

	// Stable sort keeps index order for exact ties.
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	hits := make([]Hit, 0, k)
	for _, r := range ranked[:k] {
		e := ix.entries[r.pos]
		hits = append(hits, Hit{BookID: e.bookID, Text: e.text})
	}

	return hits, nil
}

// Len returns the number of indexed entries.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Dropped returns how many corpus lines were discarded for an unparseable id.
func (ix *Index) Dropped() int {
	return ix.dropped
}

func (ix *Index) queryEmbedding(ctx context.Context, query string) ([]float32, error) {
	if ix.queryCache == nil {
		return ix.client.CreateEmbedding(ctx, query)
	}

	return ix.queryCache.Get(ctx, query, func(ctx context.Context, q string) ([]float32, error) {
		return ix.client.CreateEmbedding(ctx, q)
	})
}

// parseLeadingID extracts the numeric id from a line's first whitespace-delimited
// token, tolerating surrounding quote characters.
func parseLeadingID(line string) (int64, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, false
	}

	token := strings.Trim(fields[0], `"'`)

	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n]
}
