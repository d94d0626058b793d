package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/config"
)

// NewRedisClient connects to redis and checks the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// releaseScript deletes the lock only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker implements Locker with SET NX PX, so the lock is shared by
// every instance connected to the same redis. Each acquired key stores a
// random token and Release only deletes a key that still carries it.
type RedisLocker struct {
	client    redis.UniversalClient
	keyPrefix string
	ownClient bool

	mu     sync.Mutex
	tokens map[string]string
}

// NewRedisLocker creates a locker on a shared client. Close does not close
// the client.
func NewRedisLocker(client redis.UniversalClient, keyPrefix string) *RedisLocker {
	if keyPrefix == "" {
		keyPrefix = DefaultLockPrefix
	}
	return &RedisLocker{client: client, keyPrefix: keyPrefix, tokens: make(map[string]string)}
}

// Acquire sets the key only if it does not exist, with ttl as expiry
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.keyPrefix+key, token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if ok {
		l.mu.Lock()
		l.tokens[key] = token
		l.mu.Unlock()
	}
	return ok, nil
}

// Release deletes the key if this locker still owns it. A lock that expired
// and was taken by another holder is left alone.
func (l *RedisLocker) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	token, held := l.tokens[key]
	delete(l.tokens, key)
	l.mu.Unlock()
	if !held {
		return nil
	}

	if err := releaseScript.Run(ctx, l.client, []string{l.keyPrefix + key}, token).Err(); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	return nil
}

// Close closes the client when the locker created it
func (l *RedisLocker) Close() error {
	if l.ownClient {
		return l.client.Close()
	}
	return nil
}

var _ Locker = (*RedisLocker)(nil)

// Ping checks the redis connection
func (l *RedisLocker) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
