package relay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Streamer relays source URLs into the object store via chunked multipart
// upload. Bytes flow from the HTTP response body through a part buffer
// straight to the store; a whole file is never held in memory.
type Streamer struct {
	store      ObjectStore
	httpClient *http.Client
	partSize   int64
	chunkSize  int64
}

func NewStreamer(store ObjectStore, httpClient *http.Client, partSize, chunkSize int64) *Streamer {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Streamer{store: store, httpClient: httpClient, partSize: partSize, chunkSize: chunkSize}
}

// session is the lifecycle state for relaying one URL to one object.
// Owned exclusively by a single Stream call; never shared.
type session struct {
	url      string
	key      string
	status   Status
	uploadID string
	parts    []Part
	buf      *partBuffer
	bytes    int64
	expected int64 // from Content-Length, -1 when unknown
}

// Stream relays one source URL to the destination key and returns the
// terminal result. All errors are absorbed into the result: a failure in
// one file must never take down its siblings.
func (s *Streamer) Stream(ctx context.Context, url, key string) FileResult {
	sess := &session{
		url:      url,
		key:      key,
		status:   StatusPending,
		buf:      newPartBuffer(s.partSize),
		expected: -1,
	}

	err := s.run(ctx, sess)
	if err != nil {
		s.abort(ctx, sess)
		sess.status = StatusFailed
		slog.ErrorContext(ctx, "file ingestion failed", "url", sess.url, "key", sess.key, "bytes", sess.bytes, "error", err)
		return sess.result(err)
	}

	slog.InfoContext(ctx, "file ingestion complete", "url", sess.url, "key", sess.key, "bytes", sess.bytes, "parts", len(sess.parts), "status", sess.status)
	return sess.result(nil)
}

func (s *Streamer) run(ctx context.Context, sess *session) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sess.url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPStatusError{URL: sess.url, StatusCode: resp.StatusCode}
	}

	sess.status = StatusStreaming
	sess.expected = resp.ContentLength
	slog.InfoContext(ctx, "file download started", "url", sess.url, "key", sess.key, "content_length", resp.ContentLength)

	chunk := make([]byte, s.chunkSize)
	for {
		n, readErr := resp.Body.Read(chunk)
		if n > 0 {
			sess.buf.Append(chunk[:n])
			sess.bytes += int64(n)
			if sess.buf.ShouldFlush() {
				if err := s.flushPart(ctx, sess); err != nil {
					return err
				}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("read stream: %w", readErr)
		}
	}

	return s.finalize(ctx, sess)
}

// flushPart uploads the buffered bytes as the session's next part,
// creating the multipart upload on the first flush.
func (s *Streamer) flushPart(ctx context.Context, sess *session) error {
	if sess.uploadID == "" {
		uploadID, err := s.store.CreateMultipartUpload(ctx, sess.key, s.metadata(sess.url))
		if err != nil {
			return fmt.Errorf("create multipart upload: %w", err)
		}
		sess.uploadID = uploadID
		slog.DebugContext(ctx, "multipart upload created", "key", sess.key, "upload_id", uploadID)
	}

	data := sess.buf.Take()
	number := len(sess.parts) + 1
	part, err := s.store.UploadPart(ctx, sess.key, sess.uploadID, number, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("upload part %d: %w", number, err)
	}
	sess.parts = append(sess.parts, part)

	attrs := []any{"key", sess.key, "part", number, "part_bytes", len(data), "total_bytes", sess.bytes}
	if sess.expected > 0 {
		attrs = append(attrs, "progress_pct", float64(sess.bytes)/float64(sess.expected)*100)
	}
	slog.DebugContext(ctx, "part uploaded", attrs...)
	return nil
}

// finalize runs once the stream is exhausted: a zero-byte stream becomes a
// whole zero-length object, anything else flushes the remainder and
// completes the multipart upload.
func (s *Streamer) finalize(ctx context.Context, sess *session) error {
	if sess.bytes == 0 {
		if err := s.store.PutObject(ctx, sess.key, bytes.NewReader(nil), 0, s.metadata(sess.url)); err != nil {
			return fmt.Errorf("put empty object: %w", err)
		}
		sess.status = StatusEmpty
		slog.InfoContext(ctx, "empty source, zero-length object written", "url", sess.url, "key", sess.key)
		return nil
	}

	// The final part may be shorter than the part size.
	if sess.buf.Len() > 0 {
		if err := s.flushPart(ctx, sess); err != nil {
			return err
		}
	}

	if err := s.store.CompleteMultipartUpload(ctx, sess.key, sess.uploadID, sess.parts); err != nil {
		return fmt.Errorf("complete multipart upload: %w", err)
	}
	sess.status = StatusCompleted
	return nil
}

// abort cleans up an in-progress multipart upload, best effort. An abort
// failure is logged and swallowed: the session is failing already and
// cleanup problems must not crash the run.
func (s *Streamer) abort(ctx context.Context, sess *session) {
	if sess.uploadID == "" {
		return
	}
	if err := s.store.AbortMultipartUpload(ctx, sess.key, sess.uploadID); err != nil {
		slog.WarnContext(ctx, "failed to abort multipart upload", "key", sess.key, "upload_id", sess.uploadID, "error", err)
		return
	}
	slog.DebugContext(ctx, "multipart upload aborted", "key", sess.key, "upload_id", sess.uploadID)
}

func (s *Streamer) metadata(url string) ObjectMetadata {
	return ObjectMetadata{
		ContentType:   "text/csv",
		SourceURL:     url,
		IngestionTime: time.Now().UTC().Format(time.RFC3339),
	}
}

func (sess *session) result(err error) FileResult {
	result := FileResult{
		URL:       sess.url,
		Key:       sess.key,
		SizeBytes: sess.bytes,
		PartCount: len(sess.parts),
		Status:    sess.status,
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

// HTTPStatusError reports a non-2xx response from the source server.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}
