package auth

import (
	"net/http"
	"strings"

	"github.com/kasira/kasira/internal/platform/httpx"
	"github.com/kasira/kasira/internal/shared"
)

// RequireAuth gates routes behind a valid bearer token and stores the caller
// identity in the request context.
func RequireAuth(tokens *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httpx.Fail(w, http.StatusUnauthorized, "Token tidak ditemukan")
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			claims, err := tokens.Verify(token)
			if err != nil {
				httpx.Fail(w, http.StatusUnauthorized, "Token tidak valid")
				return
			}

			ctx := shared.ContextWithIdentity(r.Context(), shared.Identity{
				UserID: claims.Subject,
				Role:   claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
