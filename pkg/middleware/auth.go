package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/bazario/catalog/pkg/auth"
	"github.com/bazario/catalog/pkg/response"
)

type callerKey struct{}

// caller is what the auth middleware stores in the request context: the
// authenticated user's ID plus the validated token claims, so logout can
// revoke the exact token that was presented.
type caller struct {
	userID uint
	claims *auth.Claims
}

// Auth rejects requests without a valid, unrevoked bearer token and
// stores the authenticated caller in the request context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")

		if token == "" || token == header {
			response.Unauthorized(w, "Unauthenticated")
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w, "Unauthenticated")
			return
		}

		ctx := context.WithValue(r.Context(), callerKey{}, caller{
			userID: claims.UserID,
			claims: claims,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CallerID returns the authenticated user's ID, or 0 when the request is
// anonymous.
func CallerID(ctx context.Context) uint {
	if c, ok := ctx.Value(callerKey{}).(caller); ok {
		return c.userID
	}
	return 0
}

// CallerClaims returns the validated token claims for the request, or nil.
func CallerClaims(ctx context.Context) *auth.Claims {
	if c, ok := ctx.Value(callerKey{}).(caller); ok {
		return c.claims
	}
	return nil
}
