package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go-wishlist/internal/token"
)

type tokenValidator interface {
	Validate(tokenString string) (token.Verified, error)
}

type contextKey string

const verifiedTokenContextKey contextKey = "verified_token"

type AuthMiddleware struct {
	validator tokenValidator
}

func NewAuthMiddleware(validator tokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// RequireAuth admits requests carrying a valid access token. Refresh tokens
// are rejected here; they are only good for /auth/refresh.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			writeUnauthorized(w, "UNAUTHORIZED", "missing or invalid authorization header")
			return
		}

		verified, err := m.validator.Validate(strings.TrimSpace(header[7:]))
		switch {
		case errors.Is(err, token.ErrExpired):
			writeUnauthorized(w, "TOKEN_EXPIRED", "token has expired")
			return
		case err != nil:
			slog.Debug("rejected bearer token", "path", r.URL.Path, "error", err)
			writeUnauthorized(w, "TOKEN_INVALID", "invalid token")
			return
		case verified.Kind() != token.KindAccess:
			writeUnauthorized(w, "TOKEN_INVALID", "access token required")
			return
		}

		ctx := context.WithValue(r.Context(), verifiedTokenContextKey, verified)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the caller set by RequireAuth.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	verified, ok := ctx.Value(verifiedTokenContextKey).(token.Verified)
	if !ok {
		return 0, false
	}
	return verified.UserID(), true
}

func writeUnauthorized(w http.ResponseWriter, code string, message string) {
	writeJSONError(w, http.StatusUnauthorized, code, message)
}
