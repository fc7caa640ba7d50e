package artifacts

import (
	"bytes"
	"context"
	"io"

	"github.com/gear6io/sift/pkg/errors"
	"github.com/gear6io/sift/server/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// MinioStoreType constant for this storage engine
const MinioStoreType = "MINIO"

// MinioStore implements artifact storage on a MinIO/S3 bucket. Artifact
// names map directly to object keys.
type MinioStore struct {
	client *minio.Client
	bucket string
	logger zerolog.Logger
}

// NewMinioStore creates a MinIO artifact store and ensures the bucket exists
func NewMinioStore(cfg *config.MinioConfig, logger zerolog.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.New(ErrSetupFailed, "failed to create minio client", err).AddContext("endpoint", cfg.Endpoint)
	}

	store := &MinioStore{
		client: client,
		bucket: cfg.Bucket,
		logger: logger.With().Str("component", "artifacts-minio").Logger(),
	}

	exists, err := client.BucketExists(context.Background(), cfg.Bucket)
	if err != nil {
		return nil, errors.New(ErrSetupFailed, "failed to check artifact bucket", err).AddContext("bucket", cfg.Bucket)
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.New(ErrSetupFailed, "failed to create artifact bucket", err).AddContext("bucket", cfg.Bucket)
		}
		store.logger.Info().Str("bucket", cfg.Bucket).Msg("Created artifact bucket")
	}

	return store, nil
}

// GetStorageType returns the storage type identifier
func (ms *MinioStore) GetStorageType() string {
	return MinioStoreType
}

func (ms *MinioStore) Write(ctx context.Context, name string, data []byte) error {
	_, err := ms.client.PutObject(ctx, ms.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return errors.New(ErrWriteFailed, "failed to put artifact object", err).AddContext("name", name)
	}
	return nil
}

func (ms *MinioStore) Read(ctx context.Context, name string) ([]byte, error) {
	obj, err := ms.client.GetObject(ctx, ms.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.New(ErrReadFailed, "failed to get artifact object", err).AddContext("name", name)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, errors.New(ErrNotFound, "artifact does not exist", err).AddContext("name", name)
		}
		return nil, errors.New(ErrReadFailed, "failed to read artifact object", err).AddContext("name", name)
	}
	return data, nil
}

func (ms *MinioStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := ms.client.StatObject(ctx, ms.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, errors.New(ErrStatFailed, "failed to stat artifact object", err).AddContext("name", name)
	}
	return true, nil
}
