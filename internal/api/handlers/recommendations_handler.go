package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/moodshelf/moodshelf/internal/api/response"
	"github.com/moodshelf/moodshelf/internal/api/validation"
	"github.com/moodshelf/moodshelf/internal/models"
	"github.com/moodshelf/moodshelf/internal/shelferrors"
)

// RecommenderService defines the interface for recommendation requests.
type RecommenderService interface {
	Recommend(ctx context.Context, req models.RecommendationRequest) (models.RecommendationResponse, error)
}

// RecommendationsHandler handles HTTP requests for book recommendations.
type RecommendationsHandler struct {
	service RecommenderService
}

// NewRecommendationsHandler creates a new recommendations handler.
func NewRecommendationsHandler(service RecommenderService) *RecommendationsHandler {
	return &RecommendationsHandler{service: service}
}

// RecommendationsRequest is the body for POST /v1/recommendations.
// API contract uses camelCase (resultCount). All fields are optional:
// an empty query yields the catalog's default ordering.
type RecommendationsRequest struct {
	Query       string `json:"query"       validate:"max=2000,no_null_bytes"`
	Category    string `json:"category"    validate:"max=200,no_null_bytes"`
	Tone        string `json:"tone"        validate:"max=100,no_null_bytes"`
	ResultCount int    `json:"resultCount"` //nolint:tagliatelle // API contract
}

// RecommendationsResponse is the response for POST /v1/recommendations.
type RecommendationsResponse struct {
	Results    []RecommendationItem `json:"results"`
	Query      string               `json:"query"`
	Category   string               `json:"category"`
	Tone       string               `json:"tone"`
	TotalFound int                  `json:"totalFound"` //nolint:tagliatelle // API contract
}

// RecommendationItem is one recommended book with its presentation fields.
type RecommendationItem struct {
	ISBN13   int64  `json:"isbn13"`
	Title    string `json:"title"`
	Authors  string `json:"authors"`
	Category string `json:"category"`
	ImageURL string `json:"imageUrl"` //nolint:tagliatelle // API contract
	Caption  string `json:"caption"`
}

// Recommend handles POST /v1/recommendations.
func (h *RecommendationsHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.RespondError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "POST required")

		return
	}

	var req RecommendationsRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		response.RespondBadRequest(w, "Invalid request body")

		return
	}

	if err := validation.ValidateStruct(req); err != nil {
		validation.RespondValidationError(w, err)

		return
	}

	res, err := h.service.Recommend(r.Context(), models.RecommendationRequest{
		Query:       req.Query,
		Category:    req.Category,
		Tone:        req.Tone,
		ResultCount: req.ResultCount,
	})
	if err != nil {
		var notInit *shelferrors.NotInitializedError
		if errors.As(err, &notInit) {
			response.RespondServiceUnavailable(w, "Recommendation engine is still initializing")

			return
		}

		response.RespondInternalServerError(w, "Recommendation failed")

		return
	}

	response.RespondJSON(w, http.StatusOK, RecommendationsResponse{
		Results:    toRecommendationItems(res.Recommendations),
		Query:      res.Query,
		Category:   res.Category,
		Tone:       res.Tone,
		TotalFound: res.TotalFound,
	})
}

func toRecommendationItems(recs []models.BookRecommendation) []RecommendationItem {
	items := make([]RecommendationItem, len(recs))
	for i := range recs {
		items[i] = RecommendationItem{
			ISBN13:   recs[i].Book.ID,
			Title:    recs[i].Book.Title,
			Authors:  recs[i].Book.Authors,
			Category: recs[i].Book.Category,
			ImageURL: recs[i].DisplayImageURL,
			Caption:  recs[i].Caption,
		}
	}

	return items
}
