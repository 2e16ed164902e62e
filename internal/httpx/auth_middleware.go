package httpx

import (
	"net/http"
	"strings"

	"github.com/t-sasaki1124/book-review-portal/internal/auth"
)

// AuthMiddleware resolves the owner from a bearer token when one is
// presented. A request without an Authorization header passes through, and
// handlers fall back to the userId query parameter, the same contract the
// original API gateway offered.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !strings.HasPrefix(authHeader, "Bearer ") {
				Error(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				Error(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := ContextWithOwner(r.Context(), claims.Sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
