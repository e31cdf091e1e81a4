package persistence_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/okian/gamemash/internal/adapters/persistence"
	"github.com/stretchr/testify/require"
)

// TestRedisStore runs against a live Redis when GAMEMASH_TEST_REDIS_ADDR is set.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("GAMEMASH_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("GAMEMASH_TEST_REDIS_ADDR not set")
	}

	s, err := persistence.NewRedisStore(context.Background(), persistence.RedisConfig{
		Addr: addr,
		Key:  "gamemash:test:" + uuid.NewString(),
	})
	require.NoError(t, err)
	exerciseBlobStore(t, s)
}
