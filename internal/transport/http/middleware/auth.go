package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vedran77/fitlog/internal/token"
)

type contextKey string

const PrincipalKey contextKey = "principal"

// Auth validates the bearer token and stores the resulting claims principal in
// the request context. Invalid, expired or missing tokens all answer 401; the
// request never reaches the handler without a verified identity.
func Auth(tokens *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"Missing or invalid token"}}`, http.StatusUnauthorized)
				return
			}

			tokenStr := strings.TrimPrefix(header, "Bearer ")

			principal, err := tokens.Validate(tokenStr)
			if err != nil {
				http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"Invalid or expired token"}}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal extracts the verified caller identity from request context
func GetPrincipal(ctx context.Context) *token.Principal {
	return ctx.Value(PrincipalKey).(*token.Principal)
}
