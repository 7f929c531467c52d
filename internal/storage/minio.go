package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dxb-open-data/ingestion-go/internal/relay"
)

// MinIOClient implements relay.ObjectStore using MinIO. The multipart
// primitives come from minio.Core, the low-level API beneath the SDK's
// automatic uploader, so part boundaries stay under our control.
type MinIOClient struct {
	core   *minio.Core
	bucket string
}

// MinIOConfig holds MinIO connection settings.
type MinIOConfig struct {
	Endpoint  string // e.g., "localhost:9000"
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewMinIOClient creates a new MinIO storage client.
func NewMinIOClient(ctx context.Context, cfg MinIOConfig) (*MinIOClient, error) {
	core, err := minio.NewCore(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := core.Client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := core.Client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIOClient{
		core:   core,
		bucket: cfg.Bucket,
	}, nil
}

func (m *MinIOClient) CreateMultipartUpload(ctx context.Context, key string, meta relay.ObjectMetadata) (string, error) {
	uploadID, err := m.core.NewMultipartUpload(ctx, m.bucket, key, putOptions(meta))
	if err != nil {
		return "", fmt.Errorf("failed to create multipart upload: %w", err)
	}
	return uploadID, nil
}

func (m *MinIOClient) UploadPart(ctx context.Context, key, uploadID string, partNumber int, r io.Reader, size int64) (relay.Part, error) {
	part, err := m.core.PutObjectPart(ctx, m.bucket, key, uploadID, partNumber, r, size, minio.PutObjectPartOptions{})
	if err != nil {
		return relay.Part{}, fmt.Errorf("failed to upload part %d: %w", partNumber, err)
	}
	return relay.Part{Number: part.PartNumber, ETag: part.ETag, Size: part.Size}, nil
}

func (m *MinIOClient) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []relay.Part) error {
	completeParts := make([]minio.CompletePart, len(parts))
	for i, part := range parts {
		completeParts[i] = minio.CompletePart{PartNumber: part.Number, ETag: part.ETag}
	}
	if _, err := m.core.CompleteMultipartUpload(ctx, m.bucket, key, uploadID, completeParts, minio.PutObjectOptions{}); err != nil {
		return fmt.Errorf("failed to complete multipart upload: %w", err)
	}
	return nil
}

func (m *MinIOClient) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	if err := m.core.AbortMultipartUpload(ctx, m.bucket, key, uploadID); err != nil {
		return fmt.Errorf("failed to abort multipart upload: %w", err)
	}
	return nil
}

func (m *MinIOClient) PutObject(ctx context.Context, key string, r io.Reader, size int64, meta relay.ObjectMetadata) error {
	if _, err := m.core.Client.PutObject(ctx, m.bucket, key, r, size, putOptions(meta)); err != nil {
		return fmt.Errorf("failed to upload to minio: %w", err)
	}
	return nil
}

func (m *MinIOClient) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	object, err := m.core.Client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	return object, nil
}

func putOptions(meta relay.ObjectMetadata) minio.PutObjectOptions {
	return minio.PutObjectOptions{
		ContentType: meta.ContentType,
		UserMetadata: map[string]string{
			"source_url":     meta.SourceURL,
			"ingestion_time": meta.IngestionTime,
		},
	}
}
