package store

import (
	"context"

	"doclink/internal/link/models"
	dErrors "doclink/pkg/domain-errors"
)

// Stores are interface-driven to keep the domain logic testable and to allow
// swapping in-memory and Redis persistence without rewiring business code.
type RequestStore interface {
	// Create writes a new request record. Fails with a conflict if the token
	// already exists; tokens are never reused.
	Create(ctx context.Context, req models.UploadRequest) error
	// FindByToken returns the record as stored, including records past their
	// expiry. Expiry is the caller's concern.
	FindByToken(ctx context.Context, token string) (models.UploadRequest, error)
	// UpdateStatus applies a forward-only status transition.
	UpdateStatus(ctx context.Context, token string, status models.Status) error
}

var (
	// ErrNotFound keeps store-level misses consistent across implementations.
	ErrNotFound = dErrors.New(dErrors.CodeNotFound, "upload request not found")
)
