package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// QueryParam carries the key for clients that cannot set headers, such as a
// browser opening a WebSocket.
const QueryParam = "api_key"

// HTTPMiddleware wraps next with the same API key check APIKeyInterceptor
// applies to gRPC. The key is read from header, falling back to the api_key
// query parameter. Rejections get 401 with a JSON error body.
func HTTPMiddleware(mode, header, key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled(mode, key) {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(header)
			if got == "" {
				got = r.URL.Query().Get(QueryParam)
			}
			if got == "" || !keyMatches(got, key) {
				slog.Warn("auth: rejected http request", "method", r.Method, "path", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "invalid api key"}) //nolint:errcheck
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
