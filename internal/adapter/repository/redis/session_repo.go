package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

type SessionRepo struct {
	client *goredis.Client
}

func NewSessionRepo(client *goredis.Client) *SessionRepo {
	return &SessionRepo{client: client}
}

func sessionKey(tokenID string) string {
	return sessionKeyPrefix + tokenID
}

// Create records the session until the token expires.
func (r *SessionRepo) Create(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error {
	key := sessionKey(tokenID)

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    userID.String(),
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

func (r *SessionRepo) Exists(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, sessionKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("checking session: %w", err)
	}
	return n > 0, nil
}

func (r *SessionRepo) Delete(ctx context.Context, tokenID string) error {
	if err := r.client.Del(ctx, sessionKey(tokenID)).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
