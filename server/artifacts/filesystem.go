package artifacts

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/gear6io/sift/pkg/errors"
)

// FileStoreType constant for this storage engine
const FileStoreType = "FILESYSTEM"

// FileStore implements filesystem-based artifact storage rooted at a
// base directory. Artifact names are resolved relative to the root and
// may not escape it.
type FileStore struct {
	basePath string
}

// NewFileStore creates a filesystem artifact store rooted at basePath
func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, errors.New(ErrSetupFailed, "failed to create artifact root directory", err).AddContext("path", basePath)
	}
	return &FileStore{basePath: basePath}, nil
}

// GetStorageType returns the storage type identifier
func (fs *FileStore) GetStorageType() string {
	return FileStoreType
}

func (fs *FileStore) Write(ctx context.Context, name string, data []byte) error {
	path, err := fs.resolve(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.New(ErrWriteFailed, "failed to create artifact directory", err).AddContext("name", name)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(ErrWriteFailed, "failed to write artifact", err).AddContext("name", name)
	}
	return nil
}

func (fs *FileStore) Read(ctx context.Context, name string) ([]byte, error) {
	path, err := fs.resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(ErrNotFound, "artifact does not exist", err).AddContext("name", name)
	}
	if err != nil {
		return nil, errors.New(ErrReadFailed, "failed to read artifact", err).AddContext("name", name)
	}
	return data, nil
}

func (fs *FileStore) Exists(ctx context.Context, name string) (bool, error) {
	path, err := fs.resolve(name)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, errors.New(ErrStatFailed, "failed to stat artifact", err).AddContext("name", name)
	}
	return true, nil
}

// resolve joins name onto the root, rejecting names that escape it
func (fs *FileStore) resolve(name string) (string, error) {
	cleaned := filepath.Clean("/" + name)
	if cleaned == "/" || strings.Contains(name, "..") {
		return "", errors.Newf(ErrReadFailed, "invalid artifact name '%s'", name)
	}
	return filepath.Join(fs.basePath, cleaned), nil
}
