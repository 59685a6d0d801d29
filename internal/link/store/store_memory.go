package store

import (
	"context"
	"sync"

	"doclink/internal/link/models"
	dErrors "doclink/pkg/domain-errors"
)

// InMemoryRequestStore keeps the request table in process memory guarded by a
// RWMutex. It is the default backend: state lives for the process lifetime and
// records are never deleted, so lookups of expired links still resolve.
type InMemoryRequestStore struct {
	mu       sync.RWMutex
	requests map[string]models.UploadRequest
}

func NewInMemoryRequestStore() *InMemoryRequestStore {
	return &InMemoryRequestStore{requests: make(map[string]models.UploadRequest)}
}

func (s *InMemoryRequestStore) Create(_ context.Context, req models.UploadRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[req.Token]; ok {
		return dErrors.New(dErrors.CodeConflict, "token already exists")
	}
	s.requests[req.Token] = req
	return nil
}

func (s *InMemoryRequestStore) FindByToken(_ context.Context, token string) (models.UploadRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if req, ok := s.requests[token]; ok {
		return req, nil
	}
	return models.UploadRequest{}, ErrNotFound
}

func (s *InMemoryRequestStore) UpdateStatus(_ context.Context, token string, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[token]
	if !ok {
		return ErrNotFound
	}
	if !req.Status.CanTransitionTo(status) {
		return dErrors.New(dErrors.CodeInvariantViolation, "status cannot move from "+string(req.Status)+" to "+string(status))
	}
	req.Status = status
	s.requests[token] = req
	return nil
}
