package relay

import (
	"context"
	"io"
)

// ObjectStore is the slice of the object-store API the relay drives.
// internal/storage implements it with MinIO; internal/tally wraps it to
// count calls.
type ObjectStore interface {
	// CreateMultipartUpload starts a multipart upload for key and returns
	// its upload ID. Object metadata is fixed here, not at completion.
	CreateMultipartUpload(ctx context.Context, key string, meta ObjectMetadata) (string, error)
	// UploadPart uploads one part of size bytes read from r.
	UploadPart(ctx context.Context, key, uploadID string, partNumber int, r io.Reader, size int64) (Part, error)
	// CompleteMultipartUpload assembles the object from parts, which must
	// be listed in ascending part-number order.
	CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []Part) error
	// AbortMultipartUpload discards an in-progress upload and its parts.
	AbortMultipartUpload(ctx context.Context, key, uploadID string) error
	// PutObject writes a whole object in one call.
	PutObject(ctx context.Context, key string, r io.Reader, size int64, meta ObjectMetadata) error
	// GetObject opens an object for reading. The caller closes it.
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
}

// ObjectMetadata is attached to every ingested object.
type ObjectMetadata struct {
	ContentType   string
	SourceURL     string
	IngestionTime string
}

// Part records one uploaded part of a multipart upload.
type Part struct {
	Number int
	ETag   string
	Size   int64
}
