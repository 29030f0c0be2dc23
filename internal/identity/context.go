package identity

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sundayezeilo/linkbio/internal/errx"
	"github.com/sundayezeilo/linkbio/internal/httpx"
)

type contextKey string

const userContextKey contextKey = "identity_user"

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// UserFromContext returns the user stored by RequireUser.
func UserFromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userContextKey).(User)
	return u, ok
}

// RequireUser rejects requests without a session user with 401 and stores
// the resolved user in the request context for downstream handlers.
func RequireUser(svc Service, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			u, ok, err := svc.CurrentUser(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "failed to resolve session user",
					"request_id", httpx.GetRequestID(ctx),
					"error", err.Error(),
					"error_kind", errx.KindOf(err),
					"operation", errx.OpOf(err),
				)
				httpx.WriteKindError(w, err, "unable to resolve the current session")
				return
			}
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "sign in required", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(ctx, u)))
		})
	}
}
