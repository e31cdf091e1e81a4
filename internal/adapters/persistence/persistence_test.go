package persistence_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/gamemash/internal/adapters/persistence"
	"github.com/okian/gamemash/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseBlobStore runs the shared BlobStore contract against s.
func exerciseBlobStore(t *testing.T, s persistence.BlobStore) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, persistence.ErrAbsent, "fresh store must be absent")

	require.NoError(t, s.Save(ctx, []byte("first")))
	require.NoError(t, s.Save(ctx, []byte("second")))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got, "last write wins")

	require.NoError(t, s.Delete(ctx))
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, persistence.ErrAbsent)

	assert.NoError(t, s.Delete(ctx), "deleting an absent blob is not an error")
	assert.NoError(t, s.Close())
}

func TestMemoryStore(t *testing.T) {
	s := persistence.NewMemoryStore()
	assert.Equal(t, persistence.BackendMemory, s.Name())
	exerciseBlobStore(t, persistence.NewMemoryStore())

	t.Run("returned blobs are copies", func(t *testing.T) {
		ctx := context.Background()
		in := []byte("abc")
		require.NoError(t, s.Save(ctx, in))
		in[0] = 'z'

		out, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), out)
	})
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s, err := persistence.NewFileStore(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())

	exerciseBlobStore(t, s)

	t.Run("saves leave no temp files", func(t *testing.T) {
		require.NoError(t, s.Save(context.Background(), []byte("x")))
		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "state.json", entries[0].Name())
	})

	t.Run("unreadable path is a persistence failure", func(t *testing.T) {
		dir := t.TempDir()
		bad, err := persistence.NewFileStore(dir) // a directory, not a file
		require.NoError(t, err)
		_, err = bad.Load(context.Background())
		assert.True(t, errors.Is(err, errs.ErrPersistence))
	})

	t.Run("empty path is rejected", func(t *testing.T) {
		_, err := persistence.NewFileStore("")
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := persistence.Open(ctx, persistence.Config{})
	require.NoError(t, err)
	assert.Equal(t, persistence.BackendMemory, s.Name())

	s, err = persistence.Open(ctx, persistence.Config{Backend: "FILE", Path: filepath.Join(t.TempDir(), "s")})
	require.NoError(t, err)
	assert.Equal(t, persistence.BackendFile, s.Name())

	_, err = persistence.Open(ctx, persistence.Config{Backend: "floppy"})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = persistence.Open(ctx, persistence.Config{Backend: persistence.BackendRedis})
	assert.ErrorIs(t, err, errs.ErrInvalidInput, "redis needs an address")

	_, err = persistence.Open(ctx, persistence.Config{Backend: persistence.BackendPostgres})
	assert.ErrorIs(t, err, errs.ErrInvalidInput, "postgres needs a dsn")

	_, err = persistence.Open(ctx, persistence.Config{Backend: persistence.BackendS3, S3Bucket: "b"})
	assert.ErrorIs(t, err, errs.ErrInvalidInput, "s3 needs credentials")

	s, err = persistence.Open(ctx, persistence.Config{
		Backend:           persistence.BackendS3,
		S3Bucket:          "b",
		S3Endpoint:        "http://127.0.0.1:9000",
		S3AccessKeyID:     "id",
		S3SecretAccessKey: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, persistence.BackendS3, s.Name())
}
