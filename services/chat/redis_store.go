package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"aitana/models"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "chat:sess:"

// redisSessionCmds is the slice of the Redis API the store needs. Satisfied
// by *redis.Client.
type redisSessionCmds interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisSessionStore keeps sessions in Redis so they survive restarts and can
// be shared between instances. The key TTL doubles as the idle-session
// expiry: every Save refreshes it.
type RedisSessionStore struct {
	client redisSessionCmds
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) GetOrCreate(ctx context.Context, token string) (*models.Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
	if err == redis.Nil {
		return newSession(token), nil
	}
	if err != nil {
		return nil, fmt.Errorf("session store get: %w", err)
	}
	var sess models.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("session store decode: %w", err)
	}
	return &sess, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, sess *models.Session) error {
	sess.LastAccess = time.Now()
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session store encode: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+sess.Token, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("session store set: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKeyPrefix+token).Err()
}
