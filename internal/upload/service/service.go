package service

import (
	"context"
	"io"
	"log/slog"

	"doclink/internal/audit"
	"doclink/internal/link/models"
	"doclink/internal/platform/metrics"
	"doclink/internal/upload/signature"
	"doclink/internal/upload/staging"
	dErrors "doclink/pkg/domain-errors"
)

// MaxFileSize is the upload size ceiling. A file of exactly this size is
// accepted; one byte more is rejected before any bytes reach disk.
const MaxFileSize = 5 << 20 // 5 MiB

// allowedTypes is the declared-type allow-list checked before anything is
// persisted. The signature table is the second, independent gate.
var allowedTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"application/pdf": {},
}

// AuditPublisher records accepted ingestions. Observational only.
type AuditPublisher interface {
	Emit(ctx context.Context, record audit.Record) error
}

// Service orchestrates a single upload: precondition checks, disk staging,
// signature verification, and cleanup on mismatch.
type Service struct {
	staging *staging.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor AuditPublisher
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger.With(slog.String("component", "upload_service"))
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

// New constructs a Service.
func New(staging *staging.Store, opts ...Option) *Service {
	s := &Service{
		staging: staging,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestParams carries one upload through the pipeline.
type IngestParams struct {
	// Request is the authorized capability record the upload runs under.
	Request models.UploadRequest
	// Reader streams the file bytes.
	Reader io.Reader
	// FieldName is the multipart field the file arrived in.
	FieldName string
	// OriginalFilename is untrusted; only its extension is used, and only for
	// the staged name.
	OriginalFilename string
	// DeclaredType is the client-declared MIME type.
	DeclaredType string
	// Size is the byte count declared by the transport.
	Size int64
}

// IngestResult describes an accepted upload.
type IngestResult struct {
	StoredAs string
	Size     int64
}

// Ingest runs the upload pipeline. The verify-then-maybe-delete sequence is
// strictly ordered within this call: a staged file that fails verification is
// removed before the rejection is returned, so an unverified artifact is
// never left reachable.
func (s *Service) Ingest(ctx context.Context, p IngestParams) (*IngestResult, error) {
	if p.Size > MaxFileSize {
		s.rejected(dErrors.CodeFileTooLarge)
		return nil, dErrors.New(dErrors.CodeFileTooLarge, "file exceeds the 5 MiB limit")
	}
	if _, ok := allowedTypes[p.DeclaredType]; !ok {
		s.rejected(dErrors.CodeUnsupportedType)
		return nil, dErrors.New(dErrors.CodeUnsupportedType, "only PDF, JPG, and PNG files are allowed")
	}

	staged, err := s.staging.Save(p.Reader, p.FieldName, p.OriginalFilename)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to stage upload")
	}

	// The transport-declared size was checked before writing; re-check what
	// actually landed on disk in case the stream was longer.
	if staged.Size > MaxFileSize {
		s.discard(staged.Name)
		s.rejected(dErrors.CodeFileTooLarge)
		return nil, dErrors.New(dErrors.CodeFileTooLarge, "file exceeds the 5 MiB limit")
	}

	prefix, err := s.staging.ReadPrefix(staged.Name, signature.PrefixLength)
	if err != nil {
		s.discard(staged.Name)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify upload")
	}

	if !signature.Matches(prefix, p.DeclaredType) {
		s.discard(staged.Name)
		s.rejected(dErrors.CodeContentMismatch)
		return nil, dErrors.New(dErrors.CodeContentMismatch,
			"file content does not match its declared type (spoofing indicator)")
	}

	if s.metrics != nil {
		s.metrics.IncrementUploadsAccepted()
	}
	s.logger.Info("upload accepted",
		"user_id", p.Request.UserID,
		"declared_type", p.DeclaredType,
		"stored_as", staged.Name,
		"size", staged.Size,
	)

	if s.auditor != nil {
		record := audit.Record{
			Token:        p.Request.Token,
			UserID:       p.Request.UserID,
			DeclaredType: p.DeclaredType,
			Verified:     true,
			StoragePath:  staged.Path,
		}
		if err := s.auditor.Emit(ctx, record); err != nil {
			// Audit is observational; an emission failure never fails the upload.
			s.logger.Warn("failed to emit audit record", "error", err)
		}
	}

	return &IngestResult{StoredAs: staged.Name, Size: staged.Size}, nil
}

// discard guarantees cleanup of an unverified artifact. A removal failure is
// logged loudly because it means an unverified file may remain on disk.
func (s *Service) discard(name string) {
	if err := s.staging.Remove(name); err != nil {
		s.logger.Error("failed to remove unverified staged file", "file", name, "error", err)
	}
}

func (s *Service) rejected(code dErrors.Code) {
	if s.metrics != nil {
		s.metrics.IncrementUploadsRejected(string(code))
	}
}
