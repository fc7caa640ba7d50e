// Package artifacts stores uploaded and derived file artifacts. Names are
// store-relative plain strings; engines (filesystem, minio) sit behind one
// interface chosen at startup from configuration.
package artifacts

import (
	"context"

	"github.com/gear6io/sift/pkg/errors"
	"github.com/gear6io/sift/server/config"
	"github.com/rs/zerolog"
)

// Package-specific error codes for artifact storage
var (
	ErrWriteFailed   = errors.MustNewCode("artifacts.write_failed")
	ErrReadFailed    = errors.MustNewCode("artifacts.read_failed")
	ErrStatFailed    = errors.MustNewCode("artifacts.stat_failed")
	ErrNotFound      = errors.MustNewCode("artifacts.not_found")
	ErrSetupFailed   = errors.MustNewCode("artifacts.setup_failed")
	ErrEngineUnknown = errors.MustNewCode("artifacts.engine_unknown")
)

// Store reads and writes byte artifacts under store-relative names.
type Store interface {
	// GetStorageType returns the engine identifier.
	GetStorageType() string

	// Write stores data under name, creating parents as needed.
	Write(ctx context.Context, name string, data []byte) error

	// Read returns the bytes stored under name. Missing artifacts come
	// back as an artifacts.not_found error.
	Read(ctx context.Context, name string) ([]byte, error)

	// Exists reports whether an artifact is stored under name.
	Exists(ctx context.Context, name string) (bool, error)
}

// NewStore builds the configured artifact engine.
func NewStore(cfg *config.Config, logger zerolog.Logger) (Store, error) {
	switch cfg.GetArtifactEngine() {
	case "filesystem":
		return NewFileStore(cfg.GetStoragePath())
	case "minio":
		return NewMinioStore(&cfg.Storage.Minio, logger)
	default:
		return nil, errors.Newf(ErrEngineUnknown, "unknown artifact engine '%s'", cfg.GetArtifactEngine())
	}
}
