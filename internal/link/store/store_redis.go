package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"doclink/internal/link/models"
	dErrors "doclink/pkg/domain-errors"
)

const requestKeyPrefix = "doclink:request:"

// RedisRequestStore is a Redis-backed RequestStore for deployments where
// multiple instances share the request table.
//
// Records are stored WITHOUT a Redis TTL on purpose: expiry is evaluated
// lazily at read time against ExpiresAt, and an expired record must remain
// readable (status still active) rather than vanish from the keyspace.
type RedisRequestStore struct {
	client *redis.Client
}

func NewRedisRequestStore(client *redis.Client) *RedisRequestStore {
	return &RedisRequestStore{client: client}
}

func requestKey(token string) string {
	return requestKeyPrefix + token
}

func (s *RedisRequestStore) Create(ctx context.Context, req models.UploadRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode request record")
	}

	// SETNX preserves token uniqueness across concurrent issuers.
	ok, err := s.client.SetNX(ctx, requestKey(req.Token), payload, 0).Result()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write request record")
	}
	if !ok {
		return dErrors.New(dErrors.CodeConflict, "token already exists")
	}
	return nil
}

func (s *RedisRequestStore) FindByToken(ctx context.Context, token string) (models.UploadRequest, error) {
	payload, err := s.client.Get(ctx, requestKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.UploadRequest{}, ErrNotFound
	}
	if err != nil {
		return models.UploadRequest{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read request record")
	}

	var req models.UploadRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return models.UploadRequest{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to decode request record")
	}
	return req, nil
}

// UpdateStatus applies a forward-only transition under an optimistic
// transaction so concurrent updates cannot interleave a read-modify-write.
func (s *RedisRequestStore) UpdateStatus(ctx context.Context, token string, status models.Status) error {
	key := requestKey(token)

	txn := func(tx *redis.Tx) error {
		payload, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read request record")
		}

		var req models.UploadRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to decode request record")
		}

		if !req.Status.CanTransitionTo(status) {
			return dErrors.New(dErrors.CodeInvariantViolation, "status cannot move from "+string(req.Status)+" to "+string(status))
		}
		req.Status = status

		updated, err := json.Marshal(req)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode request record")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}

	err := s.client.Watch(ctx, txn, key)
	if errors.Is(err, redis.TxFailedErr) {
		// A concurrent writer won; the transition is re-checked on retry via
		// the caller, surface as conflict.
		return dErrors.New(dErrors.CodeConflict, "concurrent status update")
	}
	return err
}
