package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/docker/go-units"
)

const (
	defaultPathPrefix    = "raw"
	defaultParametersKey = "config/parameters.json"
	defaultConcurrency   = 2
	defaultPartSize      = "50MiB"
	defaultChunkSize     = "1MiB"
	defaultHTTPTimeout   = 5 * time.Minute

	// Object stores reject multipart parts below this size (except the
	// final part), so configured part sizes are floored here.
	MinPartSize = 5 * units.MiB
)

// Config holds application configuration.
type Config struct {
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	// PathPrefix is the destination key prefix for ingested objects.
	PathPrefix string
	// ParametersKey is the object key of the job parameters document.
	ParametersKey string
	// Concurrency bounds how many files stream simultaneously.
	Concurrency int
	// PartSize is the multipart upload part size in bytes.
	PartSize int64
	// ChunkSize is the HTTP read chunk size in bytes.
	ChunkSize int64
	// HTTPTimeout bounds one whole download request.
	HTTPTimeout time.Duration
}

type ErrMissingRequiredEnvVar struct {
	Name string
}

func (e *ErrMissingRequiredEnvVar) Error() string {
	return fmt.Sprintf("required environment variable %q is not set", e.Name)
}

type ErrInvalidEnvVar struct {
	Name string
	Err  error
}

func (e *ErrInvalidEnvVar) Error() string {
	return fmt.Sprintf("environment variable %q is invalid: %v", e.Name, e.Err)
}

func (e *ErrInvalidEnvVar) Unwrap() error {
	return e.Err
}

// Load reads configuration from environment variables.
// Returns an error if required variables are missing or unparseable.
func Load() (*Config, error) {
	config := Config{}
	config.MinIOEndpoint = os.Getenv("MINIO_ENDPOINT")
	if config.MinIOEndpoint == "" {
		return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_ENDPOINT"}
	}
	config.MinIOAccessKey = os.Getenv("MINIO_ACCESS_KEY")
	if config.MinIOAccessKey == "" {
		return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_ACCESS_KEY"}
	}
	config.MinIOSecretKey = os.Getenv("MINIO_SECRET_KEY")
	if config.MinIOSecretKey == "" {
		return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_SECRET_KEY"}
	}
	config.MinIOBucket = os.Getenv("MINIO_BUCKET")
	if config.MinIOBucket == "" {
		return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_BUCKET"}
	}
	config.MinIOUseSSL = os.Getenv("MINIO_USE_SSL") == "true"

	config.PathPrefix = envOr("PATH_PREFIX", defaultPathPrefix)
	config.ParametersKey = envOr("PARAMETERS_KEY", defaultParametersKey)

	concurrency, err := strconv.Atoi(envOr("CONCURRENCY", strconv.Itoa(defaultConcurrency)))
	if err != nil {
		return nil, &ErrInvalidEnvVar{Name: "CONCURRENCY", Err: err}
	}
	if concurrency < 1 {
		return nil, &ErrInvalidEnvVar{Name: "CONCURRENCY", Err: fmt.Errorf("must be a positive integer, got %d", concurrency)}
	}
	config.Concurrency = concurrency

	partSize, err := units.RAMInBytes(envOr("PART_SIZE", defaultPartSize))
	if err != nil {
		return nil, &ErrInvalidEnvVar{Name: "PART_SIZE", Err: err}
	}
	if partSize < MinPartSize {
		partSize = MinPartSize
	}
	config.PartSize = partSize

	chunkSize, err := units.RAMInBytes(envOr("CHUNK_SIZE", defaultChunkSize))
	if err != nil {
		return nil, &ErrInvalidEnvVar{Name: "CHUNK_SIZE", Err: err}
	}
	if chunkSize < 1 {
		return nil, &ErrInvalidEnvVar{Name: "CHUNK_SIZE", Err: fmt.Errorf("must be a positive byte count, got %d", chunkSize)}
	}
	config.ChunkSize = chunkSize

	timeout, err := time.ParseDuration(envOr("HTTP_TIMEOUT", defaultHTTPTimeout.String()))
	if err != nil {
		return nil, &ErrInvalidEnvVar{Name: "HTTP_TIMEOUT", Err: err}
	}
	config.HTTPTimeout = timeout

	return &config, nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
