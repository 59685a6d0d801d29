package models

import (
	"time"

	dErrors "doclink/pkg/domain-errors"
)

// Status enumerates the lifecycle states of an upload request.
type Status string

const (
	StatusActive   Status = "active"
	StatusConsumed Status = "consumed"
	StatusRevoked  Status = "revoked"
)

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusConsumed, StatusRevoked:
		return true
	}
	return false
}

// CanTransitionTo reports whether the transition s -> target is allowed.
// Transitions only move forward: active -> consumed|revoked. A request never
// returns to active.
func (s Status) CanTransitionTo(target Status) bool {
	return s == StatusActive && (target == StatusConsumed || target == StatusRevoked)
}

// UploadRequest is the capability record behind an upload link.
//
// Invariants:
//   - Token is unique across all live and expired records and never reused
//   - ExpiresAt is immutable after creation (CreatedAt + link TTL)
//   - Status only moves forward (see Status.CanTransitionTo)
//
// Expiry is lazy: a record past ExpiresAt keeps Status == active in the store
// and is treated as inactive by every authorization read. There is no sweep.
type UploadRequest struct {
	Token        string    `json:"token"`
	UserID       string    `json:"user_id"`
	RequiredDocs []string  `json:"required_docs"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	Status       Status    `json:"status"`
}

// IsActive reports whether the request is usable at the given instant: status
// active and not past expiry.
func (r UploadRequest) IsActive(now time.Time) bool {
	return r.Status == StatusActive && !now.After(r.ExpiresAt)
}

// NewUploadRequest validates invariants and constructs an active request.
func NewUploadRequest(token, userID string, requiredDocs []string, createdAt time.Time, ttl time.Duration) (UploadRequest, error) {
	if token == "" {
		return UploadRequest{}, dErrors.New(dErrors.CodeInvariantViolation, "token must not be empty")
	}
	if userID == "" {
		return UploadRequest{}, dErrors.New(dErrors.CodeInvariantViolation, "user id must not be empty")
	}
	if len(requiredDocs) == 0 {
		return UploadRequest{}, dErrors.New(dErrors.CodeInvariantViolation, "required docs must not be empty")
	}

	return UploadRequest{
		Token:        token,
		UserID:       userID,
		RequiredDocs: requiredDocs,
		CreatedAt:    createdAt,
		ExpiresAt:    createdAt.Add(ttl),
		Status:       StatusActive,
	}, nil
}
