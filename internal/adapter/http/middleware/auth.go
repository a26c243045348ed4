package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/iho/investledger/internal/infrastructure/auth"
	"github.com/iho/investledger/internal/infrastructure/metrics"
)

// ContextKey is the type for context keys.
type ContextKey string

// ClaimsContextKey is the context key for the verified token claims.
const ClaimsContextKey ContextKey = "claims"

// Verifier verifies bearer tokens.
type Verifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

// AuthMiddleware authenticates every request with a bearer token. Identity
// lives entirely in the token claims; there is no user lookup. Rejections
// are counted per reason when metrics are provided.
func AuthMiddleware(verifier Verifier, m *metrics.Metrics) func(http.Handler) http.Handler {
	authFailure := func(reason string) {
		if m != nil {
			m.AuthFailures.WithLabelValues(reason).Inc()
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				authFailure("missing_header")
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				authFailure("malformed_header")
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				if errors.Is(err, auth.ErrExpiredToken) {
					authFailure("expired_token")
				} else {
					authFailure("invalid_token")
				}

				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose token does not carry the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if claims.Role != auth.RoleAdmin {
			http.Error(w, "insufficient permissions", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetClaims extracts the verified claims from context.
func GetClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*auth.Claims)
	return claims, ok
}
