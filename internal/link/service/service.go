package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"doclink/internal/link/models"
	"doclink/internal/platform/config"
	"doclink/internal/platform/metrics"
	dErrors "doclink/pkg/domain-errors"
)

// RequestStore is the subset of the store the link service depends on.
type RequestStore interface {
	Create(ctx context.Context, req models.UploadRequest) error
	FindByToken(ctx context.Context, token string) (models.UploadRequest, error)
	UpdateStatus(ctx context.Context, token string, status models.Status) error
}

// Service owns the upload-link lifecycle: issuing capability tokens and
// authorizing token-bearing operations against the request store.
type Service struct {
	store   RequestStore
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger.With(slog.String("component", "link_service"))
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the time source, used by tests to model expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New constructs a Service.
func New(store RequestStore, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// generateToken returns 32 bytes from the CSPRNG rendered as 64 hex
// characters. Collision probability is negligible and not checked.
func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Issue creates an upload link for userID covering the given document
// categories and returns the capability token.
func (s *Service) Issue(ctx context.Context, userID string, requiredDocs []string) (models.UploadRequest, error) {
	if userID == "" {
		return models.UploadRequest{}, dErrors.New(dErrors.CodeValidation, "userId is required")
	}
	if len(requiredDocs) == 0 {
		return models.UploadRequest{}, dErrors.New(dErrors.CodeValidation, "missingDocs is required")
	}

	token, err := generateToken()
	if err != nil {
		return models.UploadRequest{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate token")
	}

	req, err := models.NewUploadRequest(token, userID, requiredDocs, s.now(), config.LinkTTL)
	if err != nil {
		return models.UploadRequest{}, err
	}

	if err := s.store.Create(ctx, req); err != nil {
		return models.UploadRequest{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store upload request")
	}

	if s.metrics != nil {
		s.metrics.IncrementLinksIssued()
	}
	s.logger.Info("upload link issued",
		"user_id", userID,
		"required_docs", len(requiredDocs),
		"expires_at", req.ExpiresAt,
	)
	return req, nil
}

// Authorize resolves a token to its request record and applies the access
// checks in order: presence, existence, status, expiry. It never mutates the
// record; an expired link stays active in the store and is rejected again on
// every later read.
func (s *Service) Authorize(ctx context.Context, token string) (models.UploadRequest, error) {
	if token == "" {
		return models.UploadRequest{}, s.reject(dErrors.CodeMissingToken, "missing token")
	}

	req, err := s.store.FindByToken(ctx, token)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			// Same answer for every unresolvable token; nothing about other
			// records leaks through this path.
			return models.UploadRequest{}, s.reject(dErrors.CodeInvalidToken, "invalid token")
		}
		return models.UploadRequest{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve token")
	}

	if req.Status != models.StatusActive {
		return models.UploadRequest{}, s.reject(dErrors.CodeInactiveLink, "link is no longer active")
	}
	if s.now().After(req.ExpiresAt) {
		return models.UploadRequest{}, s.reject(dErrors.CodeExpiredLink, "link has expired")
	}

	return req, nil
}

// UpdateStatus applies a forward-only transition, exposed to the issuer-facing
// API for consuming or revoking a link.
func (s *Service) UpdateStatus(ctx context.Context, token string, status models.Status) error {
	if !status.Valid() {
		return dErrors.New(dErrors.CodeValidation, "unknown status "+string(status))
	}
	if status == models.StatusActive {
		return dErrors.New(dErrors.CodeValidation, "requests cannot return to active")
	}

	if err := s.store.UpdateStatus(ctx, token, status); err != nil {
		// Invariant violations surface as conflicts at the API boundary.
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return dErrors.New(dErrors.CodeConflict, "status can only move forward from active")
		}
		return err
	}
	s.logger.Info("upload request status updated", "status", status)
	return nil
}

func (s *Service) reject(code dErrors.Code, message string) error {
	if s.metrics != nil {
		s.metrics.IncrementAuthorizeRejections(string(code))
	}
	return dErrors.New(code, message)
}
