package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"

	"hrdocflow/internal/config"
)

// Uploader stores signed document binaries in object storage and returns a
// stable URL for the document record.
type Uploader interface {
	UploadSignedCopy(ctx context.Context, documentID, filename string, data []byte) (string, error)
}

type gcsUploader struct {
	bucket *storage.BucketHandle
	cfg    *config.StorageConfig
	logger *zap.Logger
}

func NewUploader(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (Uploader, error) {
	if cfg.Storage.Bucket == "" {
		return nil, fmt.Errorf("storage bucket must be configured")
	}

	client, err := storage.NewClient(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	logger.Info("Storage client created",
		zap.String("bucket", cfg.Storage.Bucket),
	)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return &gcsUploader{
		bucket: client.Bucket(cfg.Storage.Bucket),
		cfg:    &cfg.Storage,
		logger: logger,
	}, nil
}

// UploadSignedCopy writes the scanned artifact under
// {prefix}/{documentID}/{filename}. The write is conditional on the object
// not existing; re-uploading the same name is treated as success so a retried
// attach stays idempotent.
func (u *gcsUploader) UploadSignedCopy(ctx context.Context, documentID, filename string, data []byte) (string, error) {
	objectName := path.Join(u.cfg.SignedPrefix, documentID, filename)

	writer := u.bucket.Object(objectName).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("failed to write signed copy: %w", err)
	}
	if err := writer.Close(); err != nil {
		if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == 412 {
			u.logger.Info("Signed copy already exists, keeping existing object",
				zap.String("object", objectName),
			)
			return u.objectURL(objectName), nil
		}
		return "", fmt.Errorf("failed to finalize signed copy write: %w", err)
	}

	u.logger.Info("Signed copy uploaded",
		zap.String("document_id", documentID),
		zap.String("object", objectName),
		zap.Int("size", len(data)),
	)

	return u.objectURL(objectName), nil
}

func (u *gcsUploader) objectURL(objectName string) string {
	return fmt.Sprintf("gs://%s/%s", u.cfg.Bucket, objectName)
}

var Module = fx.Module("storage",
	fx.Provide(NewUploader),
)
