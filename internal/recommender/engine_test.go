package recommender

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodshelf/moodshelf/internal/catalog"
	"github.com/moodshelf/moodshelf/internal/embeddings"
	"github.com/moodshelf/moodshelf/internal/index"
	"github.com/moodshelf/moodshelf/internal/models"
	"github.com/moodshelf/moodshelf/internal/shelferrors"
)

// stubIndex returns a fixed ranking regardless of query so tests control
// exactly which candidates enter the pipeline.
type stubIndex struct {
	hits []index.Hit
	err  error
}

func (s *stubIndex) Search(_ context.Context, _ string, k int) ([]index.Hit, error) {
	if s.err != nil {
		return nil, s.err
	}

	if k > len(s.hits) {
		k = len(s.hits)
	}

	return s.hits[:k], nil
}

const testCatalogCSV = `isbn13,title,authors,description,category,thumbnail,joy,sadness,anger,fear,surprise,neutral
1,Bright Morning,Ada Lovelace,A cheerful tale.,Fiction,http://img.test/1,0.9,0.1,0.0,0.1,0.2,0.3
2,Grey Afternoon,Brian Kernighan;Dennis Ritchie,A muted tale.,Fiction,http://img.test/2,0.1,0.8,0.1,0.2,0.1,0.4
3,Hearts Ashore,Grace Hopper;Alan Turing;Edsger Dijkstra,A seaside romance with a long winding plot that keeps going.,Romance,http://img.test/3,0.5,0.3,0.1,0.1,0.6,0.2
`

func writeFile(t *testing.T, name, data string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	return path
}

// readyEngine builds an engine over the three-book catalog with a stub index
// that always ranks ids [1, 2, 3].
func readyEngine(t *testing.T) *Engine {
	t.Helper()

	store, err := catalog.Load(writeFile(t, "books.csv", testCatalogCSV), "assets/cover.png")
	require.NoError(t, err)

	e := New(Params{DescriptionTruncateLength: 50})
	e.store = store
	e.index = &stubIndex{hits: []index.Hit{{BookID: 1}, {BookID: 2}, {BookID: 3}}}
	e.ready.Store(true)

	return e
}

func TestEngine_Recommend(t *testing.T) {
	ctx := context.Background()

	t.Run("before initialization returns NotInitializedError", func(t *testing.T) {
		e := New(Params{})

		_, err := e.Recommend(ctx, models.RecommendationRequest{Query: "anything"})

		var notInit *shelferrors.NotInitializedError
		require.ErrorAs(t, err, &notInit)
	})

	t.Run("category filter then happy tone orders by joy", func(t *testing.T) {
		e := readyEngine(t)

		resp, err := e.Recommend(ctx, models.RecommendationRequest{
			Query:    "a tale",
			Category: "Fiction",
			Tone:     "Happy",
		})
		require.NoError(t, err)
		require.Len(t, resp.Recommendations, 2)

		assert.Equal(t, int64(1), resp.Recommendations[0].Book.ID)
		assert.Equal(t, int64(2), resp.Recommendations[1].Book.ID)
		assert.Equal(t, 2, resp.TotalFound)
	})

	t.Run("category filter keeps only matching records", func(t *testing.T) {
		e := readyEngine(t)

		resp, err := e.Recommend(ctx, models.RecommendationRequest{Query: "sea", Category: "Romance"})
		require.NoError(t, err)
		require.Len(t, resp.Recommendations, 1)

		assert.Equal(t, int64(3), resp.Recommendations[0].Book.ID)
	})

	t.Run("unknown category yields an empty list, not an error", func(t *testing.T) {
		e := readyEngine(t)

		resp, err := e.Recommend(ctx, models.RecommendationRequest{Query: "sea", Category: "Cooking"})
		require.NoError(t, err)

		assert.Empty(t, resp.Recommendations)
		assert.Equal(t, 0, resp.TotalFound)
	})

	t.Run("unknown tone applies no ordering", func(t *testing.T) {
		e := readyEngine(t)

		resp, err := e.Recommend(ctx, models.RecommendationRequest{Query: "a tale", Tone: "Melancholic"})
		require.NoError(t, err)
		require.Len(t, resp.Recommendations, 3)

		// Semantic ranking [1, 2, 3] survives untouched.
		assert.Equal(t, int64(1), resp.Recommendations[0].Book.ID)
		assert.Equal(t, int64(2), resp.Recommendations[1].Book.ID)
		assert.Equal(t, int64(3), resp.Recommendations[2].Book.ID)
	})

	t.Run("empty category and tone echo as All", func(t *testing.T) {
		e := readyEngine(t)

		resp, err := e.Recommend(ctx, models.RecommendationRequest{Query: "a tale"})
		require.NoError(t, err)

		assert.Equal(t, models.FilterAll, resp.Category)
		assert.Equal(t, models.FilterAll, resp.Tone)
	})

	t.Run("result count caps the list", func(t *testing.T) {
		e := readyEngine(t)

		resp, err := e.Recommend(ctx, models.RecommendationRequest{Query: "a tale", ResultCount: 2})
		require.NoError(t, err)

		assert.Len(t, resp.Recommendations, 2)
	})

	t.Run("result count above the maximum is clamped", func(t *testing.T) {
		e := readyEngine(t)
		e.maxResultCount = 1

		resp, err := e.Recommend(ctx, models.RecommendationRequest{Query: "a tale", ResultCount: 500})
		require.NoError(t, err)

		assert.Len(t, resp.Recommendations, 1)
	})

	t.Run("search failure wraps as RecommendationError", func(t *testing.T) {
		e := readyEngine(t)
		e.index = &stubIndex{err: errors.New("backend down")}

		_, err := e.Recommend(ctx, models.RecommendationRequest{Query: "a tale"})

		var recErr *shelferrors.RecommendationError
		require.ErrorAs(t, err, &recErr)
		assert.ErrorContains(t, err, "backend down")
	})

	t.Run("captions carry byline and truncated description", func(t *testing.T) {
		e := readyEngine(t)

		resp, err := e.Recommend(ctx, models.RecommendationRequest{Query: "sea", Category: "Romance"})
		require.NoError(t, err)
		require.Len(t, resp.Recommendations, 1)

		caption := resp.Recommendations[0].Caption
		assert.True(t, strings.HasPrefix(caption, "Hearts Ashore by Grace Hopper, Alan Turing, and Edsger Dijkstra\n\n"), caption)
		assert.True(t, strings.HasSuffix(caption, "..."), "long description must be truncated")
	})

	t.Run("identical requests produce identical responses", func(t *testing.T) {
		e := readyEngine(t)
		req := models.RecommendationRequest{Query: "a tale", Category: "Fiction", Tone: "Happy"}

		first, err := e.Recommend(ctx, req)
		require.NoError(t, err)

		second, err := e.Recommend(ctx, req)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

func TestEngine_Recommend_concurrent(t *testing.T) {
	e := readyEngine(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			resp, err := e.Recommend(ctx, models.RecommendationRequest{Query: "a tale", Tone: "Happy"})
			assert.NoError(t, err)
			assert.Len(t, resp.Recommendations, 3)
			assert.Equal(t, int64(1), resp.Recommendations[0].Book.ID)
		}()
	}

	wg.Wait()
}

func TestEngine_Initialize(t *testing.T) {
	ctx := context.Background()

	t.Run("loads catalog and index from files", func(t *testing.T) {
		corpus := "1 a cheerful tale of a bright morning\n" +
			"2 a muted tale of a grey afternoon\n" +
			"3 a seaside romance\n"

		e := New(Params{
			BooksFile:        writeFile(t, "books.csv", testCatalogCSV),
			DescriptionsFile: writeFile(t, "tagged_description.txt", corpus),
			FallbackCover:    "assets/cover.png",
			Client:           embeddings.NewLocalClient(),
			QueryCacheSize:   16,
		})

		require.NoError(t, e.Initialize(ctx))
		assert.True(t, e.Ready())

		resp, err := e.Recommend(ctx, models.RecommendationRequest{Query: "cheerful morning", ResultCount: 1})
		require.NoError(t, err)
		require.Len(t, resp.Recommendations, 1)

		assert.Equal(t, int64(1), resp.Recommendations[0].Book.ID)
	})

	t.Run("missing books file propagates DataLoadError and stays uninitialized", func(t *testing.T) {
		e := New(Params{
			BooksFile:        "does/not/exist.csv",
			DescriptionsFile: "unused.txt",
			Client:           embeddings.NewLocalClient(),
		})

		err := e.Initialize(ctx)

		var dataErr *shelferrors.DataLoadError
		require.ErrorAs(t, err, &dataErr)
		assert.False(t, e.Ready())
	})

	t.Run("second call is a no-op", func(t *testing.T) {
		e := readyEngine(t)

		require.NoError(t, e.Initialize(ctx))
	})
}

func TestEngine_Categories(t *testing.T) {
	t.Run("before initialization returns NotInitializedError", func(t *testing.T) {
		e := New(Params{})

		_, err := e.Categories()

		var notInit *shelferrors.NotInitializedError
		require.ErrorAs(t, err, &notInit)
	})

	t.Run("returns All first, then sorted labels", func(t *testing.T) {
		e := readyEngine(t)

		categories, err := e.Categories()
		require.NoError(t, err)

		assert.Equal(t, []string{"All", "Fiction", "Romance"}, categories)
	})
}

func TestEngine_Tones(t *testing.T) {
	e := New(Params{})

	tones := e.Tones()
	require.NotEmpty(t, tones)

	assert.Equal(t, models.FilterAll, tones[0])
	assert.Contains(t, tones, "Suspensful")
}
