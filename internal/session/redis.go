package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/rbcervilla/redisstore/v9"
	"github.com/redis/go-redis/v9"
)

// sessionKeyPrefix namespaces session keys: gradejournal:session:{id}
const sessionKeyPrefix = "gradejournal:session:"

// NewRedisStore returns a gorilla store keeping each session as a Redis
// key with a TTL of Options.MaxAge, so sessions survive restarts and are
// shared between instances.
func NewRedisStore(ctx context.Context, client redis.UniversalClient, options sessions.Options) (*redisstore.RedisStore, error) {
	store, err := redisstore.NewRedisStore(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis session store: %w", err)
	}

	store.KeyPrefix(sessionKeyPrefix)
	store.Options(options)
	store.KeyGen(func() (string, error) {
		return uuid.NewString(), nil
	})

	return store, nil
}
