package middleware

import (
	"context"
	"net/http"
	"strings"

	"chatwire/internal/core/services"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// TokenCookie is the cookie carrying the credential token at
// connection-open time.
const TokenCookie = "jwt"

// AuthMiddleware extracts the credential token from the jwt cookie
// (Authorization: Bearer as a fallback), validates it, and injects the
// user identity into the request context. Every failure is reported as
// a bare authentication error: the client never learns whether the
// token was missing, expired, or forged.
func AuthMiddleware(tokenSvc *services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				http.Error(w, "authentication error", http.StatusUnauthorized)
				return
			}
			userID, err := tokenSvc.ValidateToken(token)
			if err != nil {
				http.Error(w, "authentication error", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// UserIDFromContext returns the identity injected by AuthMiddleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok
}
