package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/isdelr/keypulse-be/internal/api/respond"
	"github.com/rs/zerolog/log"
)

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	Validate(tokenStr string) (*Claims, error)
}

type contextKey string

// UserClaimsKey is the context key for user claims.
const UserClaimsKey = contextKey("userClaims")

// JWTMiddleware rejects requests without a valid bearer token and stores the
// token's claims in the request context.
func JWTMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			tokenStr = strings.TrimSpace(tokenStr)
			if !ok || tokenStr == "" {
				respond.Error(w, http.StatusUnauthorized, "Access denied, no token provided")
				return
			}

			claims, err := validator.Validate(tokenStr)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected bearer token")
				respond.Error(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims stored by JWTMiddleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*Claims)
	return claims, ok
}

// UserIDFromContext returns the authenticated account id.
func UserIDFromContext(ctx context.Context) (string, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims.UserID == "" {
		return "", false
	}
	return claims.UserID, true
}
