package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nikhil/taskflow/internal/apperrors"
	"github.com/nikhil/taskflow/internal/service/auth"
	"github.com/nikhil/taskflow/pkg/utils"
)

type ContextKey string

const UserContextKey ContextKey = "currentUser"

// TokenParser validates an access token and returns its claims.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// CurrentUser returns the claims stored by the auth middleware.
func CurrentUser(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*auth.Claims)
	return claims, ok
}

func WithUser(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, UserContextKey, claims)
}

// AuthMiddleware requires a Bearer token in the Authorization header.
func AuthMiddleware(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				utils.RespondWithError(w, r, http.StatusUnauthorized, "Missing auth token")
				return
			}
			authenticate(tokens, strings.TrimPrefix(authHeader, "Bearer "), next, w, r)
		})
	}
}

// WebSocketAuthMiddleware accepts the token as a "token" query parameter,
// since browsers cannot set headers on a websocket handshake. A Bearer
// header is honoured as well.
func WebSocketAuthMiddleware(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := r.URL.Query().Get("token")
			if tokenStr == "" {
				tokenStr = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			}
			if tokenStr == "" {
				utils.RespondWithError(w, r, http.StatusUnauthorized, "Missing auth token")
				return
			}
			authenticate(tokens, tokenStr, next, w, r)
		})
	}
}

func authenticate(tokens TokenParser, tokenStr string, next http.Handler, w http.ResponseWriter, r *http.Request) {
	claims, err := tokens.Parse(tokenStr)
	if err != nil {
		utils.RespondWithError(w, r, http.StatusUnauthorized, apperrors.Message(err))
		return
	}
	next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims)))
}

func ResponseWrapperMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
