// Package models defines the book catalog and recommendation request/response types.
package models

// Emotion is one of the fixed per-book emotion score keys.
type Emotion string

// Emotion keys present on every catalog record.
const (
	EmotionJoy      Emotion = "joy"
	EmotionSadness  Emotion = "sadness"
	EmotionAnger    Emotion = "anger"
	EmotionFear     Emotion = "fear"
	EmotionSurprise Emotion = "surprise"
	EmotionNeutral  Emotion = "neutral"
)

// Emotions lists all emotion keys in a fixed order (catalog column order).
var Emotions = []Emotion{
	EmotionJoy,
	EmotionSadness,
	EmotionAnger,
	EmotionFear,
	EmotionSurprise,
	EmotionNeutral,
}

// FilterAll is the sentinel value meaning "no filter" for category and tone.
const FilterAll = "All"

// Tones lists the selectable emotional tones, FilterAll first.
// "Suspensful" is spelled as it appears in the catalog UI and stored data.
var Tones = []string{FilterAll, "Happy", "Sad", "Angry", "Suspensful", "Surprising", "Neutral"}

// ToneEmotions maps a tone name to the emotion score it sorts by.
// Tones not present here (including FilterAll) apply no sort.
var ToneEmotions = map[string]Emotion{
	"Happy":      EmotionJoy,
	"Sad":        EmotionSadness,
	"Angry":      EmotionAnger,
	"Suspensful": EmotionFear,
	"Surprising": EmotionSurprise,
	"Neutral":    EmotionNeutral,
}

// DefaultResultCount is the number of recommendations returned when the request does not set one.
const DefaultResultCount = 12

// BookRecord is one row of the catalog. The catalog is immutable after load;
// DisplayImageURL is derived once at load time, not per request.
type BookRecord struct {
	ID              int64               `json:"isbn13"`
	Title           string              `json:"title"`
	Authors         string              `json:"authors"` // semicolon-delimited author names
	Description     string              `json:"description"`
	Category        string              `json:"category"`
	ThumbnailURL    string              `json:"thumbnail_url,omitempty"`
	DisplayImageURL string              `json:"display_image_url"`
	EmotionScores   map[Emotion]float64 `json:"emotion_scores"`
}

// EmotionScore returns the score for the given emotion, 0 when absent.
func (b BookRecord) EmotionScore(e Emotion) float64 {
	return b.EmotionScores[e]
}

// RecommendationRequest is the engine-facing request. An empty Query is legal
// (it yields the index's default ordering, never an error). Empty Category/Tone
// default to FilterAll; ResultCount <= 0 defaults to DefaultResultCount.
type RecommendationRequest struct {
	Query       string `json:"query"`
	Category    string `json:"category"`
	Tone        string `json:"tone"`
	ResultCount int    `json:"result_count"`
}

// BookRecommendation is a single recommended book with its presentation fields.
type BookRecommendation struct {
	Book            BookRecord `json:"book"`
	DisplayImageURL string     `json:"display_image_url"`
	Caption         string     `json:"caption"`
}

// RecommendationResponse is the ordered recommendation list plus an echo of the
// request filters. It is always fully populated; error paths return no response.
type RecommendationResponse struct {
	Recommendations []BookRecommendation `json:"recommendations"`
	Query           string               `json:"query"`
	Category        string               `json:"category"`
	Tone            string               `json:"tone"`
	TotalFound      int                  `json:"total_found"`
}
