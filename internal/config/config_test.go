package config

import (
	"errors"
	"fmt"
	"testing"

	"github.com/docker/go-units"
)

var requiredVars = []string{"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_BUCKET"}

var optionalVars = []string{"MINIO_USE_SSL", "PATH_PREFIX", "PARAMETERS_KEY", "CONCURRENCY", "PART_SIZE", "CHUNK_SIZE", "HTTP_TIMEOUT"}

func setRequired(t *testing.T) {
	t.Helper()
	for _, name := range requiredVars {
		t.Setenv(name, "test-value")
	}
	// Isolate from the developer's environment.
	for _, name := range optionalVars {
		t.Setenv(name, "")
	}
}

func TestLoad_RequiredVarsMissing(t *testing.T) {
	for _, missing := range requiredVars {
		t.Run(missing, func(t *testing.T) {
			setRequired(t)
			t.Setenv(missing, "")

			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			var missingErr *ErrMissingRequiredEnvVar
			if !errors.As(err, &missingErr) {
				t.Fatalf("expected ErrMissingRequiredEnvVar, got %s", err)
			}
			var varName string
			c, _ := fmt.Sscanf(
				err.Error(),
				"required environment variable %q is not set",
				&varName,
			)
			if c != 1 || varName != missing {
				t.Fatalf("expected ErrMissingRequiredEnvVar to be set to %q, got %q", missing, varName)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	config, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if config.PathPrefix != "raw" {
		t.Fatalf("PathPrefix = %q, want %q", config.PathPrefix, "raw")
	}
	if config.ParametersKey != "config/parameters.json" {
		t.Fatalf("ParametersKey = %q, want %q", config.ParametersKey, "config/parameters.json")
	}
	if config.Concurrency != 2 {
		t.Fatalf("Concurrency = %d, want 2", config.Concurrency)
	}
	if config.PartSize != 50*units.MiB {
		t.Fatalf("PartSize = %d, want %d", config.PartSize, int64(50*units.MiB))
	}
	if config.ChunkSize != units.MiB {
		t.Fatalf("ChunkSize = %d, want %d", config.ChunkSize, int64(units.MiB))
	}
	if config.MinIOUseSSL {
		t.Fatal("MinIOUseSSL should default to false")
	}
}

func TestLoad_PartSizeFlooredToStoreMinimum(t *testing.T) {
	setRequired(t)
	t.Setenv("PART_SIZE", "1MiB")

	config, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if config.PartSize != MinPartSize {
		t.Fatalf("PartSize = %d, want floored to %d", config.PartSize, int64(MinPartSize))
	}
}

func TestLoad_HumanReadableSizes(t *testing.T) {
	setRequired(t)
	t.Setenv("PART_SIZE", "64MiB")
	t.Setenv("CHUNK_SIZE", "512KiB")

	config, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if config.PartSize != 64*units.MiB {
		t.Fatalf("PartSize = %d, want %d", config.PartSize, int64(64*units.MiB))
	}
	if config.ChunkSize != 512*units.KiB {
		t.Fatalf("ChunkSize = %d, want %d", config.ChunkSize, int64(512*units.KiB))
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
	}{
		{"non-numeric concurrency", "CONCURRENCY", "lots"},
		{"zero concurrency", "CONCURRENCY", "0"},
		{"negative concurrency", "CONCURRENCY", "-3"},
		{"unparseable part size", "PART_SIZE", "fifty megs"},
		{"unparseable chunk size", "CHUNK_SIZE", "??"},
		{"unparseable timeout", "HTTP_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.env, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			var invalidErr *ErrInvalidEnvVar
			if !errors.As(err, &invalidErr) {
				t.Fatalf("expected ErrInvalidEnvVar, got %s", err)
			}
			if invalidErr.Name != tt.env {
				t.Fatalf("ErrInvalidEnvVar.Name = %q, want %q", invalidErr.Name, tt.env)
			}
		})
	}
}

func TestLoad_UseSSL(t *testing.T) {
	setRequired(t)
	t.Setenv("MINIO_USE_SSL", "true")

	config, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !config.MinIOUseSSL {
		t.Fatal("MinIOUseSSL should be true")
	}
}
