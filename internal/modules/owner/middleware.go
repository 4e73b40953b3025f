package owner

import (
	"context"
	"net/http"
	"strings"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/georgemunganga/canteen-backend/internal/platform/httpx"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
)

type ctxKey struct{}

// IDFromContext returns the owner id set by RequireOwner.
func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok
}

// RequireOwner rejects requests without a valid "Authorization: Bearer" token.
func RequireOwner(tokens *Tokens, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				httpx.Error(w, r, log, apperr.Unauthorized("missing bearer token"))
				return
			}
			id, err := tokens.Verify(strings.TrimSpace(raw))
			if err != nil {
				httpx.Error(w, r, log, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
		})
	}
}

// Guard returns RequireOwner when enforce is set and a no-op otherwise.
func Guard(enforce bool, tokens *Tokens, log *logger.Logger) func(http.Handler) http.Handler {
	if !enforce {
		return func(next http.Handler) http.Handler { return next }
	}
	return RequireOwner(tokens, log)
}
