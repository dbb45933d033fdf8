package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/astro-auth-api/internal/domain"
)

type contextKey string

const UserKey contextKey = "user"

// UserResolver turns a bearer token into the user it was issued for.
type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}

// Auth returns middleware that validates the Bearer token and injects the user into context.
func Auth(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			u, err := resolver.CurrentUser(r.Context(), tokenStr)
			if err != nil {
				if errors.Is(err, domain.ErrStorage) {
					slog.ErrorContext(r.Context(), "resolve current user", "err", err)
					writeJSONError(w, http.StatusInternalServerError, "internal server error")
					return
				}
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeJSONError(w, http.StatusUnauthorized, "could not validate credentials")
				return
			}
			ctx := context.WithValue(r.Context(), UserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(UserKey).(*domain.User)
	return u, ok && u != nil
}

// WithUser stores u in ctx the same way Auth does.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, UserKey, u)
}
