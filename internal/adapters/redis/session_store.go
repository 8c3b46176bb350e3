// Package redis provides Redis-based adapters for the workhub service.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/belimuno/workhub/internal/domain/actor"
	apperrors "github.com/belimuno/workhub/internal/errors"
)

// SessionStore resolves bearer tokens against sessions written to Redis by the
// auth platform. This service never creates sessions; it only reads them.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: "session:",
	}
}

// NewSessionStoreWithPrefix creates a Redis session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: prefix,
	}
}

// Get resolves a bearer token to a session. Unknown and expired tokens both
// return an Unauthorized error.
func (s *SessionStore) Get(ctx context.Context, token string) (*actor.Session, error) {
	if token == "" {
		return nil, apperrors.Unauthorized("missing session token")
	}

	data, err := s.client.Get(ctx, s.prefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.Unauthorized("session not found")
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var sess actor.Session
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	// Redis TTL should expire sessions, but verify against the payload too.
	if !sess.ExpiresAt.IsZero() && time.Now().After(sess.ExpiresAt) {
		_ = s.client.Del(ctx, s.prefix+token).Err()
		return nil, apperrors.Unauthorized("session expired")
	}

	sess.Token = token
	return &sess, nil
}
