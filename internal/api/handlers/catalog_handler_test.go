package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodshelf/moodshelf/internal/shelferrors"
)

type mockCatalogService struct {
	categoriesFunc func() ([]string, error)
	tonesFunc      func() []string
}

func (m *mockCatalogService) Categories() ([]string, error) {
	if m.categoriesFunc != nil {
		return m.categoriesFunc()
	}

	return nil, nil
}

func (m *mockCatalogService) Tones() []string {
	if m.tonesFunc != nil {
		return m.tonesFunc()
	}

	return nil
}

func TestCatalogHandler_Categories(t *testing.T) {
	t.Run("success returns 200 with category list", func(t *testing.T) {
		mock := &mockCatalogService{
			categoriesFunc: func() ([]string, error) {
				return []string{"All", "Fiction", "Romance"}, nil
			},
		}

		req := httptest.NewRequest(http.MethodGet, "http://test/v1/categories", nil)
		rec := httptest.NewRecorder()

		NewCatalogHandler(mock).Categories(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp CategoriesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		assert.Equal(t, []string{"All", "Fiction", "Romance"}, resp.Categories)
	})

	t.Run("uninitialized catalog returns 503", func(t *testing.T) {
		mock := &mockCatalogService{
			categoriesFunc: func() ([]string, error) {
				return nil, shelferrors.NewNotInitializedError("not ready")
			},
		}

		req := httptest.NewRequest(http.MethodGet, "http://test/v1/categories", nil)
		rec := httptest.NewRecorder()

		NewCatalogHandler(mock).Categories(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("POST returns 405", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "http://test/v1/categories", nil)
		rec := httptest.NewRecorder()

		NewCatalogHandler(&mockCatalogService{}).Categories(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestCatalogHandler_Tones(t *testing.T) {
	mock := &mockCatalogService{
		tonesFunc: func() []string {
			return []string{"All", "Happy", "Sad"}
		},
	}

	req := httptest.NewRequest(http.MethodGet, "http://test/v1/tones", nil)
	rec := httptest.NewRecorder()

	NewCatalogHandler(mock).Tones(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp TonesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, []string{"All", "Happy", "Sad"}, resp.Tones)
}
