// Package middleware provides HTTP middleware for request handling.
package middleware

import (
	"net/http"
)

// CORS adds Cross-Origin Resource Sharing headers so a browser frontend on
// another origin can call the relay, and answers OPTIONS preflights with 204.
// An empty origin disables it: requests pass through untouched and the relay
// answers OPTIONS like any other non-POST method.
func CORS(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if origin == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
			if origin != "*" {
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
