package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"doclink/internal/link/models"
	dErrors "doclink/pkg/domain-errors"
)

type InMemoryRequestStoreSuite struct {
	suite.Suite
	store *InMemoryRequestStore
	ctx   context.Context
}

func TestInMemoryRequestStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryRequestStoreSuite))
}

func (s *InMemoryRequestStoreSuite) SetupTest() {
	s.store = NewInMemoryRequestStore()
	s.ctx = context.Background()
}

func (s *InMemoryRequestStoreSuite) newRequest(token string) models.UploadRequest {
	req, err := models.NewUploadRequest(token, "u1", []string{"passport"}, time.Now(), 48*time.Hour)
	s.Require().NoError(err)
	return req
}

func (s *InMemoryRequestStoreSuite) TestCreateAndFind() {
	req := s.newRequest("token-1")
	s.Require().NoError(s.store.Create(s.ctx, req))

	found, err := s.store.FindByToken(s.ctx, "token-1")
	s.Require().NoError(err)
	s.Equal(req.UserID, found.UserID)
	s.Equal(req.RequiredDocs, found.RequiredDocs)
	s.Equal(models.StatusActive, found.Status)
}

func (s *InMemoryRequestStoreSuite) TestCreateRejectsDuplicateToken() {
	s.Require().NoError(s.store.Create(s.ctx, s.newRequest("token-1")))

	err := s.store.Create(s.ctx, s.newRequest("token-1"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *InMemoryRequestStoreSuite) TestFindMissingToken() {
	_, err := s.store.FindByToken(s.ctx, "nope")
	s.Require().ErrorIs(err, ErrNotFound)
}

func (s *InMemoryRequestStoreSuite) TestUpdateStatusForwardOnly() {
	s.Require().NoError(s.store.Create(s.ctx, s.newRequest("token-1")))

	s.Run("active to consumed", func() {
		s.Require().NoError(s.store.UpdateStatus(s.ctx, "token-1", models.StatusConsumed))
		found, err := s.store.FindByToken(s.ctx, "token-1")
		s.Require().NoError(err)
		s.Equal(models.StatusConsumed, found.Status)
	})

	s.Run("consumed cannot return to active", func() {
		err := s.store.UpdateStatus(s.ctx, "token-1", models.StatusActive)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("consumed cannot become revoked", func() {
		err := s.store.UpdateStatus(s.ctx, "token-1", models.StatusRevoked)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *InMemoryRequestStoreSuite) TestUpdateStatusMissingToken() {
	err := s.store.UpdateStatus(s.ctx, "nope", models.StatusRevoked)
	s.Require().ErrorIs(err, ErrNotFound)
}

func (s *InMemoryRequestStoreSuite) TestExpiredRecordStaysReadable() {
	req, err := models.NewUploadRequest("token-old", "u1", []string{"passport"}, time.Now().Add(-72*time.Hour), 48*time.Hour)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, req))

	// The store serves expired records as-is; expiry is the reader's concern.
	found, err := s.store.FindByToken(s.ctx, "token-old")
	s.Require().NoError(err)
	s.Equal(models.StatusActive, found.Status)
	s.True(time.Now().After(found.ExpiresAt))
}

func (s *InMemoryRequestStoreSuite) TestConcurrentCreatesAndReads() {
	const workers = 32
	var wg sync.WaitGroup

	for i := range workers {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			token := fmt.Sprintf("token-%d", n)
			req, err := models.NewUploadRequest(token, "u1", []string{"passport"}, time.Now(), 48*time.Hour)
			if err != nil {
				return
			}
			s.Require().NoError(s.store.Create(s.ctx, req))
			_, err = s.store.FindByToken(s.ctx, token)
			s.Require().NoError(err)
		}(i)
	}
	wg.Wait()
}
