package relay

// Status is the lifecycle state of a transfer session.
type Status string

const (
	StatusPending   Status = "pending"
	StatusStreaming Status = "streaming"
	StatusCompleted Status = "completed"
	StatusEmpty     Status = "empty"
	StatusFailed    Status = "failed"
)

// Success reports whether the status is a successful terminal state.
// A zero-byte source is a success: the object is still written.
func (s Status) Success() bool {
	return s == StatusCompleted || s == StatusEmpty
}

// FileResult is the terminal outcome of relaying one source URL.
type FileResult struct {
	URL       string `json:"url"`
	Key       string `json:"key"`
	SizeBytes int64  `json:"size_bytes"`
	PartCount int    `json:"part_count"`
	Status    Status `json:"status"`
	Error     string `json:"error,omitempty"`
}
