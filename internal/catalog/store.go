// Package catalog loads and exposes the book table. The store is immutable after
// Load; all read paths are pure functions over the loaded records.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/moodshelf/moodshelf/internal/models"
	"github.com/moodshelf/moodshelf/internal/shelferrors"
)

// largeThumbnailSuffix asks the image host for a higher-resolution variant.
// Appended once at load time, not per request.
const largeThumbnailSuffix = "&fife=w800"

// requiredColumns must all be present in the catalog CSV header.
// thumbnail is optional; records without one fall back to the configured cover.
var requiredColumns = []string{
	"isbn13", "title", "authors", "description", "category",
	"joy", "sadness", "anger", "fear", "surprise", "neutral",
}

// Store holds the loaded catalog: the record list in file order plus an id lookup.
type Store struct {
	books      []models.BookRecord
	byID       map[int64]models.BookRecord
	categories []string
}

// Load parses the catalog CSV at path into a Store. Records without a thumbnail
// get fallbackCover as their display image. A missing file, missing required
// column, duplicate id, or unparsable row is a *shelferrors.DataLoadError:
// catalog rows are required data, unlike semantic index lines.
func Load(path, fallbackCover string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, shelferrors.NewDataLoadError("catalog", fmt.Sprintf("books file not found: %s", path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, shelferrors.NewDataLoadError("catalog", "failed to read catalog header", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, shelferrors.NewDataLoadError("catalog", "catalog missing required column: "+name, nil)
		}
	}

	thumbnailCol, hasThumbnail := col["thumbnail"]

	store := &Store{byID: make(map[int64]models.BookRecord)}
	categorySet := make(map[string]struct{})

	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, shelferrors.NewDataLoadError("catalog", fmt.Sprintf("failed to parse catalog line %d", line), err)
		}

		id, err := strconv.ParseInt(row[col["isbn13"]], 10, 64)
		if err != nil {
			return nil, shelferrors.NewDataLoadError("catalog", fmt.Sprintf("invalid isbn13 on line %d", line), err)
		}

		if _, exists := store.byID[id]; exists {
			return nil, shelferrors.NewDataLoadError("catalog", fmt.Sprintf("duplicate isbn13 %d on line %d", id, line), nil)
		}

		scores := make(map[models.Emotion]float64, len(models.Emotions))
		for _, emotion := range models.Emotions {
			score, err := strconv.ParseFloat(row[col[string(emotion)]], 64)
			if err != nil {
				return nil, shelferrors.NewDataLoadError("catalog", fmt.Sprintf("invalid %s score on line %d", emotion, line), err)
			}

			scores[emotion] = score
		}

		thumbnail := ""
		if hasThumbnail {
			thumbnail = row[thumbnailCol]
		}

		displayImageURL := fallbackCover
		if thumbnail != "" {
			displayImageURL = thumbnail + largeThumbnailSuffix
		}

		record := models.BookRecord{
			ID:              id,
			Title:           row[col["title"]],
			Authors:         row[col["authors"]],
			Description:     row[col["description"]],
			Category:        row[col["category"]],
			ThumbnailURL:    thumbnail,
			DisplayImageURL: displayImageURL,
			EmotionScores:   scores,
		}

		store.books = append(store.books, record)
		store.byID[id] = record
		categorySet[record.Category] = struct{}{}
	}

	store.categories = make([]string, 0, len(categorySet))
	for category := range categorySet {
		store.categories = append(store.categories, category)
	}

	sort.Strings(store.categories)

	return store, nil
}

// Len returns the number of loaded records.
func (s *Store) Len() int {
	return len(s.books)
}

// Categories returns the sentinel "All" followed by the distinct category labels
// observed at load time, sorted lexicographically.
func (s *Store) Categories() []string {
	out := make([]string, 0, len(s.categories)+1)
	out = append(out, models.FilterAll)
	out = append(out, s.categories...)

	return out
}

// LookupByIDs returns at most limit records for the given ids, in the order the
// ids were supplied — this preserves the semantic index's relevance ranking.
// Duplicate and unknown ids are ignored.
func (s *Store) LookupByIDs(ids []int64, limit int) []models.BookRecord {
	if limit <= 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(ids))
	out := make([]models.BookRecord, 0, min(limit, len(ids)))

	for _, id := range ids {
		if len(out) >= limit {
			break
		}

		if _, dup := seen[id]; dup {
			continue
		}

		seen[id] = struct{}{}

		record, ok := s.byID[id]
		if !ok {
			continue
		}

		out = append(out, record)
	}

	return out
}

// FilterByCategory keeps records whose category label equals category exactly
// (case-sensitive). The sentinel "All" is the identity filter.
func FilterByCategory(records []models.BookRecord, category string) []models.BookRecord {
	if category == models.FilterAll {
		return records
	}

	out := make([]models.BookRecord, 0, len(records))
	for _, record := range records {
		if record.Category == category {
			out = append(out, record)
		}
	}

	return out
}

// SortByEmotion returns the records sorted by the named emotion score, descending.
// The sort is stable: ties keep their prior relative order, preserving the
// semantic ranking as a secondary key. The input slice is not modified.
func SortByEmotion(records []models.BookRecord, emotion models.Emotion) []models.BookRecord {
	out := make([]models.BookRecord, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EmotionScore(emotion) > out[j].EmotionScore(emotion)
	})

	return out
}
