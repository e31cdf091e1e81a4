// Package persistence stores the serialised rating store as one opaque blob.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/okian/gamemash/internal/errs"
)

// ErrAbsent is returned by Load when no blob has been saved yet.
var ErrAbsent = errors.New("blob absent")

// Backend names.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// BlobStore saves and restores a single blob. Writes are last-write-wins.
type BlobStore interface {
	// Load returns the last saved blob, or ErrAbsent.
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the stored blob.
	Save(ctx context.Context, blob []byte) error
	// Delete discards the stored blob. Deleting an absent blob is not an error.
	Delete(ctx context.Context) error
	// Close releases connections held by the backend.
	Close() error
	// Name identifies the backend in logs and metrics.
	Name() string
}

// Config selects and configures a backend.
type Config struct {
	Backend string

	// file
	Path string

	// redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisKey      string

	// postgres
	PostgresDSN   string
	PostgresTable string
	PostgresKey   string

	// s3
	S3Bucket          string
	S3Key             string
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// Open builds the backend named by cfg.Backend ("" means memory).
func Open(ctx context.Context, cfg Config) (BlobStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		return NewFileStore(cfg.Path)
	case BackendRedis:
		return NewRedisStore(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.RedisKey,
		})
	case BackendPostgres:
		return NewPostgresStore(ctx, PostgresConfig{
			DSN:   cfg.PostgresDSN,
			Table: cfg.PostgresTable,
			Key:   cfg.PostgresKey,
		})
	case BackendS3:
		return NewS3Store(S3Config{
			Bucket:          cfg.S3Bucket,
			Key:             cfg.S3Key,
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	}
	return nil, errs.Invalid("persistence.open", fmt.Sprintf("unknown backend %q", cfg.Backend))
}

// failure classifies a backend error as a persistence failure.
func failure(op string, err error) error {
	return errs.WrapKind(op, errs.ErrPersistence, err)
}
