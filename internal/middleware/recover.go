package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Recoverer recovers from panics, logs the stack with request ID, and hands
// the request to render500 so the user sees the regular 500 page.
func Recoverer(render500 http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					stack := debug.Stack()
					reqID := chimw.GetReqID(r.Context())
					slog.Error("panic recovered",
						"request_id", reqID,
						"method", r.Method,
						"path", r.URL.Path,
						"panic", rec,
						"stack", string(stack))
					render500(w, r)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
