package middleware

import (
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	dErrors "assetgate/pkg/domain-errors"
	"assetgate/pkg/platform/httputil"
	"assetgate/pkg/requestcontext"
)

// RequireAdminToken gates the admin surface behind an X-Admin-Token header
// checked against a bcrypt hash, so the plaintext token never lives in the
// process environment. An empty hash disables the surface entirely.
func RequireAdminToken(tokenHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if tokenHash == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin surface is disabled"))
				return
			}

			supplied := r.Header.Get("X-Admin-Token")
			if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(supplied)); err != nil {
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
