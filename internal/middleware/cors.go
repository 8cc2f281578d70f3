package middleware

import (
	"net/http"
	"strings"

	"github.com/benvon/taskboard/internal/request"
	"github.com/rs/cors"
)

const defaultFrontendOrigin = "http://localhost:4200"

// AllowedOrigins splits a comma-separated FRONTEND_URL into distinct origins
func AllowedOrigins(frontendURL string) []string {
	var origins []string
	seen := map[string]bool{}
	for _, origin := range strings.Split(frontendURL, ",") {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "" || seen[origin] {
			continue
		}
		seen[origin] = true
		origins = append(origins, origin)
	}
	if len(origins) == 0 {
		origins = []string{defaultFrontendOrigin}
	}
	return origins
}

// CORS allows the configured frontend origins to call the API
func CORS(frontendURL string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   AllowedOrigins(frontendURL),
		AllowCredentials: true,
		MaxAge:           86400,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", request.RequestIDHeader, request.UserHeader},
		ExposedHeaders:   []string{request.RequestIDHeader},
	})
	return c.Handler
}
