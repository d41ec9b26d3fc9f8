package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"soulmint/internal/platform/secrets"
	id "soulmint/pkg/domain"
	dErrors "soulmint/pkg/domain-errors"
	"soulmint/pkg/platform/httputil"
	"soulmint/pkg/requestcontext"
)

// TokenValidator resolves a bearer token to the account that signed in.
type TokenValidator interface {
	ValidateAccountToken(token string) (id.AccountID, error)
}

// RequireAuth authenticates the caller and stores the account in the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}
			account, err := validator.ValidateAccountToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}
			next.ServeHTTP(w, r.WithContext(requestcontext.WithAccount(ctx, account)))
		})
	}
}

// RequireAdminToken guards operator endpoints with a shared secret header.
// An empty expected token disables the endpoints entirely.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return requireAdmin(func(token string) bool {
		return expectedToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) == 1
	}, logger)
}

// RequireAdminTokenHash is RequireAdminToken against a bcrypt hash of the token.
func RequireAdminTokenHash(tokenHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return requireAdmin(func(token string) bool {
		return tokenHash != "" && token != "" && secrets.Verify(token, tokenHash) == nil
	}, logger)
}

func requireAdmin(valid func(token string) bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !valid(r.Header.Get("X-Admin-Token")) {
				logger.WarnContext(r.Context(), "admin token mismatch",
					"request_id", requestcontext.RequestID(r.Context()),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin token required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
