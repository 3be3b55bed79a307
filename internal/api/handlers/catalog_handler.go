package handlers

import (
	"errors"
	"net/http"

	"github.com/moodshelf/moodshelf/internal/api/response"
	"github.com/moodshelf/moodshelf/internal/shelferrors"
)

// CatalogService defines the interface for catalog metadata lookups.
type CatalogService interface {
	Categories() ([]string, error)
	Tones() []string
}

// CatalogHandler serves the filter vocabularies the recommendation UI offers.
type CatalogHandler struct {
	service CatalogService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(service CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// CategoriesResponse is the response for GET /v1/categories.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// TonesResponse is the response for GET /v1/tones.
type TonesResponse struct {
	Tones []string `json:"tones"`
}

// Categories handles GET /v1/categories.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.RespondError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "GET required")

		return
	}

	categories, err := h.service.Categories()
	if err != nil {
		var notInit *shelferrors.NotInitializedError
		if errors.As(err, &notInit) {
			response.RespondServiceUnavailable(w, "Catalog is still loading")

			return
		}

		response.RespondInternalServerError(w, "Failed to list categories")

		return
	}

	response.RespondJSON(w, http.StatusOK, CategoriesResponse{Categories: categories})
}

// Tones handles GET /v1/tones.
func (h *CatalogHandler) Tones(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.RespondError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "GET required")

		return
	}

	response.RespondJSON(w, http.StatusOK, TonesResponse{Tones: h.service.Tones()})
}
