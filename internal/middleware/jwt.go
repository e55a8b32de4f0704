package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/crucial707/dosasset/internal/auth"
	"github.com/crucial707/dosasset/internal/inventory"
)

// JWT rejects requests without a valid bearer token and stores the token's
// actor in the request context for history entries.
func JWT(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "missing authorization header")
				return
			}

			tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				unauthorized(w, "invalid authorization header")
				return
			}

			actor, err := auth.Parse(secret, strings.TrimSpace(tokenStr))
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}

			ctx := inventory.WithActor(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
