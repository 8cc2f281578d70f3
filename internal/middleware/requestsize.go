package middleware

import (
	"fmt"
	"net/http"
)

// DefaultMaxRequestSize caps request bodies
const DefaultMaxRequestSize int64 = 4 << 20

// MaxRequestSize rejects bodies that declare more than maxBytes and cuts off
// those that stream past it
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestSize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				_ = writeErrorJSON(w, r, http.StatusRequestEntityTooLarge, "Request Entity Too Large",
					fmt.Sprintf("request body exceeds %d bytes", maxBytes))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
