package exitcode

// Exit codes for the ingestion CLI.
// The orchestrator can use these to decide retry strategy.
const (
	// Success - every file relayed (or there was nothing to do)
	Success = 0

	// ConfigError - missing or invalid configuration
	// Don't retry: fix the config first
	ConfigError = 1

	// StorageError - could not reach the object store or read job parameters
	// Retry with backoff
	StorageError = 2

	// PartialFailure - run finished but one or more files failed
	// Check per-file results before retrying
	PartialFailure = 3
)
