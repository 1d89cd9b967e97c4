package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"aitana/models"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedisCmds is an in-memory stand-in for the session slice of the Redis
// API, recording the expiration passed on every Set.
type fakeRedisCmds struct {
	values      map[string]string
	expirations map[string][]time.Duration
	getErr      error
}

func newFakeRedisCmds() *fakeRedisCmds {
	return &fakeRedisCmds{
		values:      make(map[string]string),
		expirations: make(map[string][]time.Duration),
	}
}

func (f *fakeRedisCmds) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	val, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeRedisCmds) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	b, ok := value.([]byte)
	if !ok {
		return redis.NewStatusResult("", errors.New("unexpected value type"))
	}
	f.values[key] = string(b)
	f.expirations[key] = append(f.expirations[key], expiration)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedisCmds) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisStoreMissYieldsFreshSession(t *testing.T) {
	store := &RedisSessionStore{client: newFakeRedisCmds(), ttl: time.Hour}

	sess, err := store.GetOrCreate(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", sess.Token)
	assert.Equal(t, DefaultMemory, sess.Memory)
	assert.Empty(t, sess.Conversation)
	assert.False(t, sess.HandedOff)
}

func TestRedisStoreSaveRoundTrip(t *testing.T) {
	fake := newFakeRedisCmds()
	store := &RedisSessionStore{client: fake, ttl: time.Hour}
	ctx := context.Background()

	sess, err := store.GetOrCreate(ctx, "tok-1")
	require.NoError(t, err)
	sess.Memory = greetedMemory
	sess.Conversation = appendTurn(sess.Conversation, models.RoleUser, "hi")
	sess.Conversation = appendTurn(sess.Conversation, models.RoleAssistant, "Hi there!")
	sess.ThreadHandle = "th_9"
	sess.HandedOff = true
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.GetOrCreate(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, greetedMemory, got.Memory)
	require.Len(t, got.Conversation, 2)
	assert.Equal(t, "hi", got.Conversation[0].Content)
	assert.Equal(t, "th_9", got.ThreadHandle)
	assert.True(t, got.HandedOff)

	// The session lives under the key prefix.
	_, ok := fake.values[sessionKeyPrefix+"tok-1"]
	assert.True(t, ok)
}

func TestRedisStoreSaveRefreshesTTL(t *testing.T) {
	fake := newFakeRedisCmds()
	store := &RedisSessionStore{client: fake, ttl: 30 * time.Minute}
	ctx := context.Background()

	sess, _ := store.GetOrCreate(ctx, "tok-1")
	require.NoError(t, store.Save(ctx, sess))
	require.NoError(t, store.Save(ctx, sess))

	exps := fake.expirations[sessionKeyPrefix+"tok-1"]
	require.Len(t, exps, 2, "every Save must reset the idle expiry")
	for _, exp := range exps {
		assert.Equal(t, 30*time.Minute, exp)
	}
}

func TestRedisStoreDelete(t *testing.T) {
	fake := newFakeRedisCmds()
	store := &RedisSessionStore{client: fake, ttl: time.Hour}
	ctx := context.Background()

	sess, _ := store.GetOrCreate(ctx, "tok-1")
	require.NoError(t, store.Save(ctx, sess))
	require.NoError(t, store.Delete(ctx, "tok-1"))

	got, err := store.GetOrCreate(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, DefaultMemory, got.Memory, "deleted session comes back fresh")
}

func TestRedisStoreGetErrorPropagates(t *testing.T) {
	fake := newFakeRedisCmds()
	fake.getErr = errors.New("connection refused")
	store := &RedisSessionStore{client: fake, ttl: time.Hour}

	_, err := store.GetOrCreate(context.Background(), "tok-1")
	assert.Error(t, err)
}

func TestRedisStoreCorruptPayloadIsAnError(t *testing.T) {
	fake := newFakeRedisCmds()
	fake.values[sessionKeyPrefix+"tok-1"] = "not json"
	store := &RedisSessionStore{client: fake, ttl: time.Hour}

	_, err := store.GetOrCreate(context.Background(), "tok-1")
	assert.Error(t, err)
}
