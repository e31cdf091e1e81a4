package persistence

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/okian/gamemash/internal/errs"
)

// filePerm is the mode of the state file.
const filePerm = 0o600

// FileStore keeps the blob in one file. Saves write a temp file in the same
// directory and rename it over the target.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore writing to path.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errs.Invalid("persistence.new_file_store", "state path must not be empty")
	}
	return &FileStore{path: path}, nil
}

// Name implements BlobStore.
func (f *FileStore) Name() string { return BackendFile }

// Path returns the state file location.
func (f *FileStore) Path() string { return f.path }

// Load implements BlobStore.
func (f *FileStore) Load(_ context.Context) ([]byte, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrAbsent
	}
	if err != nil {
		return nil, failure("file.load", err)
	}
	return raw, nil
}

// Save implements BlobStore.
func (f *FileStore) Save(_ context.Context, blob []byte) error {
	const op = "file.save"

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return failure(op, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return failure(op, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(blob); err != nil {
		_ = tmp.Close()
		return failure(op, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return failure(op, err)
	}
	if err := tmp.Close(); err != nil {
		return failure(op, err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return failure(op, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return failure(op, err)
	}
	return nil
}

// Delete implements BlobStore.
func (f *FileStore) Delete(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return failure("file.delete", err)
	}
	return nil
}

// Close implements BlobStore.
func (f *FileStore) Close() error { return nil }
