package tally

import (
	"context"
	"io"

	"github.com/dxb-open-data/ingestion-go/internal/relay"
)

// Store decorates an ObjectStore so every call is tallied, successful or
// not. Counting here rather than inside the client keeps the totals equal
// to the calls actually made, whatever the backend.
type Store struct {
	inner   relay.ObjectStore
	counter *Counter
}

func WrapStore(inner relay.ObjectStore, counter *Counter) *Store {
	return &Store{inner: inner, counter: counter}
}

func (s *Store) CreateMultipartUpload(ctx context.Context, key string, meta relay.ObjectMetadata) (string, error) {
	s.counter.Increment(CreateMultipartUpload)
	return s.inner.CreateMultipartUpload(ctx, key, meta)
}

func (s *Store) UploadPart(ctx context.Context, key, uploadID string, partNumber int, r io.Reader, size int64) (relay.Part, error) {
	s.counter.Increment(UploadPart)
	return s.inner.UploadPart(ctx, key, uploadID, partNumber, r, size)
}

func (s *Store) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []relay.Part) error {
	s.counter.Increment(CompleteMultipartUpload)
	return s.inner.CompleteMultipartUpload(ctx, key, uploadID, parts)
}

func (s *Store) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	s.counter.Increment(AbortMultipartUpload)
	return s.inner.AbortMultipartUpload(ctx, key, uploadID)
}

func (s *Store) PutObject(ctx context.Context, key string, r io.Reader, size int64, meta relay.ObjectMetadata) error {
	s.counter.Increment(PutObject)
	return s.inner.PutObject(ctx, key, r, size, meta)
}

func (s *Store) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	s.counter.Increment(GetObject)
	return s.inner.GetObject(ctx, key)
}
