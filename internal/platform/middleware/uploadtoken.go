package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"doclink/internal/link/models"
	"doclink/pkg/platform/httputil"
)

// TokenHeader is the dedicated header checked last in the extraction order.
const TokenHeader = "X-Upload-Token"

// Authorizer resolves a capability token to its request record or rejects it.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (models.UploadRequest, error)
}

// Context key for the resolved upload request (struct key avoids collisions).
type contextKeyUploadRequest struct{}

// GetUploadRequest retrieves the authorized request record from the context.
func GetUploadRequest(ctx context.Context) (models.UploadRequest, bool) {
	req, ok := ctx.Value(contextKeyUploadRequest{}).(models.UploadRequest)
	return req, ok
}

// WithUploadRequest injects a request record into a context. Useful for
// handler tests that bypass the middleware chain.
func WithUploadRequest(ctx context.Context, req models.UploadRequest) context.Context {
	return context.WithValue(ctx, contextKeyUploadRequest{}, req)
}

// RequireUploadToken gates every token-bearing operation. The token is looked
// for in the URL path, then a body field named "token", then the
// X-Upload-Token header; the first non-empty value wins. On success the
// resolved record is attached to the request context.
//
// The gate only reads: expiry is detected here, never enacted, so repeated
// checks against a stale record keep returning the same rejection.
func RequireUploadToken(authorizer Authorizer, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)

			record, err := authorizer.Authorize(r.Context(), token)
			if err != nil {
				logger.Warn("upload token rejected",
					"error", err,
					"remote_addr", r.RemoteAddr,
				)
				httputil.WriteError(w, err)
				return
			}

			ctx := WithUploadRequest(r.Context(), record)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) string {
	if token := chi.URLParam(r, "token"); token != "" {
		return token
	}
	if token := tokenFromBody(r); token != "" {
		return token
	}
	return r.Header.Get(TokenHeader)
}

// tokenFromBody pulls a "token" field out of form, multipart, or JSON bodies.
// JSON bodies are buffered and restored so the downstream handler can still
// decode them.
func tokenFromBody(r *http.Request) string {
	contentType := r.Header.Get("Content-Type")

	switch {
	case strings.HasPrefix(contentType, "application/x-www-form-urlencoded"),
		strings.HasPrefix(contentType, "multipart/form-data"):
		// FormValue parses and caches the form; FormFile in the handler reads
		// the same parsed state.
		return r.FormValue("token")

	case strings.HasPrefix(contentType, "application/json"):
		if r.Body == nil {
			return ""
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return ""
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		var payload struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return ""
		}
		return payload.Token
	}
	return ""
}
