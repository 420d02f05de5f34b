package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// contextKey is a package-private type for context keys, so no other
// package can read or shadow the identity this middleware binds.
type contextKey string

const userIDKey contextKey = "userID"

// ErrNoToken is returned when a request carries no usable bearer token —
// the Authorization header is absent or not of the form "Bearer <token>".
var ErrNoToken = errors.New("auth: missing bearer token")

// RequireAuth enforces authentication on protected routes.
//
// It extracts the bearer token from the Authorization header, verifies
// it, and binds the user ID into the request context. Missing, malformed,
// expired, and tampered tokens all stop the chain with the same 401 body;
// nothing downstream of this middleware runs on failure.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"authorization required"}`))
				return
			}

			// The identity is request-scoped: it lives only in this
			// request's context, never in shared state.
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID bound by
// RequireAuth. Returns ("", false) if the request is anonymous.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithUserID returns a context carrying the given user ID, as RequireAuth
// would have bound it. Exported for handler tests.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// extractUserID pulls the token out of "Authorization: Bearer <token>"
// and verifies it.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrNoToken
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrNoToken
	}

	return tokens.Verify(strings.TrimSpace(token))
}
