package tally

import "sync"

// Kind identifies one object-store call type.
type Kind string

const (
	CreateMultipartUpload   Kind = "create_multipart_upload"
	UploadPart              Kind = "upload_part"
	CompleteMultipartUpload Kind = "complete_multipart_upload"
	AbortMultipartUpload    Kind = "abort_multipart_upload"
	PutObject               Kind = "put_object"
	GetObject               Kind = "get_object"
)

// Counter tallies object-store calls by kind. Safe for concurrent use by
// simultaneously streaming sessions; one instance is shared per run.
type Counter struct {
	mu     sync.Mutex
	counts map[Kind]int64
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[Kind]int64)}
}

func (c *Counter) Increment(kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[kind]++
}

// Snapshot returns a copy of the current tallies.
func (c *Counter) Snapshot() map[Kind]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make(map[Kind]int64, len(c.counts))
	for kind, count := range c.counts {
		snapshot[kind] = count
	}
	return snapshot
}
