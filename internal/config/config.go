// Package config defines service configuration and how it is loaded.
//
// Conventions:
// - New(ctx) returns a Config populated with defaults.
// - Load(ctx) layers a YAML file and the environment over those defaults.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/okian/gamemash/internal/adapters/persistence"
	"github.com/okian/gamemash/internal/adapters/repository"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// InitialRating seeds every (partition, item) on a fresh store.
	InitialRating float64 `koanf:"initial_rating"`

	// CatalogPath points at a YAML catalog. Empty uses the built-in catalog.
	CatalogPath string `koanf:"catalog_path"`

	// DefaultLeaderboardLimit applies when GET /leaderboard has no limit.
	DefaultLeaderboardLimit int `koanf:"default_leaderboard_limit"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// ExportTopN is the number of rows exported per partition.
	ExportTopN int `koanf:"export_top_n"`

	// DedupeSize bounds the vote id cache. Zero or less means unbounded.
	DedupeSize int `koanf:"dedupe_size"`

	// SamplerSeed makes duel draws reproducible. Zero seeds from the clock.
	SamplerSeed int64 `koanf:"sampler_seed"`

	// StoreBackend is one of memory, file, redis, postgres, s3.
	StoreBackend string `koanf:"store_backend"`

	// StoreCodec is json or cbor.
	StoreCodec string `koanf:"store_codec"`

	StatePath string `koanf:"state_path"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisKey      string `koanf:"redis_key"`

	PostgresDSN   string `koanf:"postgres_dsn"`
	PostgresTable string `koanf:"postgres_table"`
	PostgresKey   string `koanf:"postgres_key"`

	S3Bucket          string `koanf:"s3_bucket"`
	S3Key             string `koanf:"s3_key"`
	S3Endpoint        string `koanf:"s3_endpoint"`
	S3Region          string `koanf:"s3_region"`
	S3AccessKeyID     string `koanf:"s3_access_key_id"`
	S3SecretAccessKey string `koanf:"s3_secret_access_key"`
}

// New creates a Config populated with defaults. The context is accepted to
// keep the project-wide signature convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:                "info",
		LogFormat:               "text",
		Addr:                    ":9080",
		InitialRating:           1000,
		DefaultLeaderboardLimit: 10,
		MaxLeaderboardLimit:     100,
		ExportTopN:              100,
		DedupeSize:              10_000,
		StoreBackend:            persistence.BackendFile,
		StoreCodec:              repository.CodecJSON,
		StatePath:               "gamemash_state.json",
	}
}

// Persistence maps the store settings onto the persistence backend config.
func (c *Config) Persistence() persistence.Config {
	return persistence.Config{
		Backend:           c.StoreBackend,
		Path:              c.StatePath,
		RedisAddr:         c.RedisAddr,
		RedisPassword:     c.RedisPassword,
		RedisDB:           c.RedisDB,
		RedisKey:          c.RedisKey,
		PostgresDSN:       c.PostgresDSN,
		PostgresTable:     c.PostgresTable,
		PostgresKey:       c.PostgresKey,
		S3Bucket:          c.S3Bucket,
		S3Key:             c.S3Key,
		S3Endpoint:        c.S3Endpoint,
		S3Region:          c.S3Region,
		S3AccessKeyID:     c.S3AccessKeyID,
		S3SecretAccessKey: c.S3SecretAccessKey,
	}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return invalid("addr must not be empty")
	case math.IsNaN(c.InitialRating) || math.IsInf(c.InitialRating, 0):
		return invalid("initial_rating must be finite")
	case c.MaxLeaderboardLimit <= 0:
		return invalid("max_leaderboard_limit must be positive")
	case c.DefaultLeaderboardLimit <= 0 || c.DefaultLeaderboardLimit > c.MaxLeaderboardLimit:
		return invalid("default_leaderboard_limit must be in [1, max_leaderboard_limit]")
	case c.ExportTopN <= 0:
		return invalid("export_top_n must be positive")
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return invalid(fmt.Sprintf("log_format %q is not text or json", c.LogFormat))
	}

	if _, err := repository.NewCodec(c.StoreCodec); err != nil {
		return invalid(fmt.Sprintf("store_codec %q is not json or cbor", c.StoreCodec))
	}

	switch strings.ToLower(c.StoreBackend) {
	case "", persistence.BackendMemory:
	case persistence.BackendFile:
		if c.StatePath == "" {
			return invalid("state_path is required for the file backend")
		}
	case persistence.BackendRedis:
		if c.RedisAddr == "" {
			return invalid("redis_addr is required for the redis backend")
		}
	case persistence.BackendPostgres:
		if c.PostgresDSN == "" {
			return invalid("postgres_dsn is required for the postgres backend")
		}
	case persistence.BackendS3:
		if c.S3Bucket == "" {
			return invalid("s3_bucket is required for the s3 backend")
		}
	default:
		return invalid(fmt.Sprintf("store_backend %q is not supported", c.StoreBackend))
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, msg)
}
