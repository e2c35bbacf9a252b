package middleware

import (
	"net/http"
)

// DefaultMaxBodyBytes caps request bodies at 5 MiB, enough for an avatar upload.
const DefaultMaxBodyBytes = 5 << 20

// MaxBytes limits the request body size. If the body exceeds maxBytes, reads
// fail and the client receives 413 Request Entity Too Large.
func MaxBytes(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
