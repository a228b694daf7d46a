// Package session persists per-session workflow snapshots in Redis.
// Snapshots are ephemeral and TTL-bound; complaint records themselves
// live on the review backend.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"complaint-console/internal/common/database"
	"complaint-console/internal/common/logger"
	"complaint-console/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "review:session:"

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

type RedisStore struct {
	client *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisStore(client *database.RedisClient, ttl time.Duration, log logger.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "session"}),
	}
}

// Save replaces the session snapshot wholesale and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, sessionID string, state domain.WorkflowState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+sessionID, payload, s.ttl); err != nil {
		return fmt.Errorf("save session %s: %w", sessionID, err)
	}
	return nil
}

// Load returns the current snapshot, ErrNotFound for unknown or expired
// sessions.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (domain.WorkflowState, error) {
	var state domain.WorkflowState

	raw, err := s.client.Get(ctx, keyPrefix+sessionID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return state, ErrNotFound
		}
		return state, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return state, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return state, nil
}

// Delete removes a session snapshot.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, keyPrefix+sessionID)
}
