package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"doclink/internal/jwttoken"
	dErrors "doclink/pkg/domain-errors"
	"doclink/pkg/platform/httputil"
)

// AdminValidator validates issuer-facing bearer tokens.
type AdminValidator interface {
	ValidateToken(tokenString string) (*jwttoken.Claims, error)
}

type contextKeyAdminSubject struct{}

// GetAdminSubject retrieves the authenticated operator identity from the
// context. Empty when admin auth is disabled.
func GetAdminSubject(ctx context.Context) string {
	subject, _ := ctx.Value(contextKeyAdminSubject{}).(string)
	return subject
}

// AdminAuth guards the issuer-facing API with HS256 bearer tokens.
type AdminAuth struct {
	validator AdminValidator
	logger    *slog.Logger
	disabled  bool
}

type AdminAuthOption func(*AdminAuth)

// WithDisabled turns the guard off entirely (for local development and tests).
func WithDisabled(disabled bool) AdminAuthOption {
	return func(a *AdminAuth) {
		a.disabled = disabled
	}
}

func NewAdminAuth(validator AdminValidator, logger *slog.Logger, opts ...AdminAuthOption) *AdminAuth {
	a := &AdminAuth{
		validator: validator,
		logger:    logger.With(slog.String("component", "admin_auth")),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.disabled {
		a.logger.Info("admin auth disabled")
	}
	return a
}

// RequireAdmin rejects requests without a valid Bearer token.
func (a *AdminAuth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.disabled {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		const bearerPrefix = "Bearer "
		token, ok := strings.CutPrefix(authHeader, bearerPrefix)
		if !ok || token == "" {
			a.logger.Warn("admin request without bearer token", "remote_addr", r.RemoteAddr)
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
			return
		}

		claims, err := a.validator.ValidateToken(token)
		if err != nil {
			a.logger.Warn("admin token rejected", "error", err, "remote_addr", r.RemoteAddr)
			httputil.WriteError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyAdminSubject{}, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
