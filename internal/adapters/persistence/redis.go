package persistence

import (
	"context"
	"errors"

	"github.com/okian/gamemash/internal/errs"
	"github.com/redis/go-redis/v9"
)

// defaultRedisKey is used when RedisConfig.Key is empty.
const defaultRedisKey = "gamemash:state:v1"

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// RedisStore keeps the blob under one Redis string key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	const op = "redis.open"
	if cfg.Addr == "" {
		return nil, errs.Invalid(op, "redis address must not be empty")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, failure(op, err)
	}
	return NewRedisStoreWithClient(client, cfg.Key), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = defaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

// Name implements BlobStore.
func (r *RedisStore) Name() string { return BackendRedis }

// Load implements BlobStore.
func (r *RedisStore) Load(ctx context.Context) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrAbsent
	}
	if err != nil {
		return nil, failure("redis.load", err)
	}
	return val, nil
}

// Save implements BlobStore.
func (r *RedisStore) Save(ctx context.Context, blob []byte) error {
	if err := r.client.Set(ctx, r.key, blob, 0).Err(); err != nil {
		return failure("redis.save", err)
	}
	return nil
}

// Delete implements BlobStore.
func (r *RedisStore) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return failure("redis.delete", err)
	}
	return nil
}

// Close implements BlobStore.
func (r *RedisStore) Close() error { return r.client.Close() }
