package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/sundayezeilo/linkbio/internal/httpx"
)

type contextKey string

const userIDKey contextKey = "auth_user_id"

// Verifier validates a bearer token.
type Verifier interface {
	Verify(tokenString string) (*Claims, error)
}

// Authenticate reads an optional "Authorization: Bearer" header. A valid token
// puts its user id in the request context; a malformed or invalid one is
// rejected with 401. Requests without the header pass through unchanged.
func Authenticate(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
				httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid authorization header format", nil)
				return
			}

			claims, err := v.Verify(token)
			if err != nil {
				httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
		})
	}
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the user id placed by Authenticate, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}
