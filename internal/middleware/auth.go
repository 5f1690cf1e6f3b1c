package middleware

import (
	"context"
	"net/http"
	"strings"

	"pagalpdf/internal/auth"
	"pagalpdf/internal/domain/models"
	"pagalpdf/internal/httputil"
)

type contextKey string

const claimsKey contextKey = "claims"

// Auth validates the bearer token when a verifier is configured. With a nil
// verifier the API is open and requests pass through untouched, which is the
// default deployment mode.
func Auth(verifier auth.JWTVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if verifier == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "Missing or malformed Authorization header.")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "Invalid or expired token.")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFrom returns the verified claims stored by Auth, or nil when the
// request was not authenticated.
func ClaimsFrom(ctx context.Context) *models.APIClaims {
	claims, _ := ctx.Value(claimsKey).(*models.APIClaims)
	return claims
}
