package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/moodshelf/moodshelf/internal/api/response"
)

// Auth middleware validates the static API key from the Authorization header.
// The comparison is constant-time so response timing leaks nothing about the key.
func Auth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.RespondUnauthorized(w, "Missing Authorization header")
				return
			}

			// Expected format: "Bearer <api-key>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				response.RespondUnauthorized(w, "Invalid Authorization header format. Expected: Bearer <api-key>")
				return
			}

			candidate := parts[1]
			if candidate == "" {
				response.RespondUnauthorized(w, "API key is empty")
				return
			}

			if subtle.ConstantTimeCompare([]byte(candidate), []byte(apiKey)) != 1 {
				response.RespondUnauthorized(w, "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
