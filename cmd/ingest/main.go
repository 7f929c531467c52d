package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/joho/godotenv"

	"github.com/dxb-open-data/ingestion-go/internal/config"
	"github.com/dxb-open-data/ingestion-go/internal/exitcode"
	"github.com/dxb-open-data/ingestion-go/internal/ingest"
	"github.com/dxb-open-data/ingestion-go/internal/model"
	"github.com/dxb-open-data/ingestion-go/internal/relay"
	"github.com/dxb-open-data/ingestion-go/internal/storage"
	"github.com/dxb-open-data/ingestion-go/internal/tally"
)

func main() {
	// Configure the global logger
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))

	// Parse CLI flags
	runIDStr := flag.String("run-id", "", "Run identifier (UUIDv7 from orchestration, generated when empty)")
	flag.Parse()

	runID := model.RunID(*runIDStr)
	if runID == "" {
		runID = model.NewRunID()
	} else if err := runID.Validate(); err != nil {
		slog.Error("invalid run-id", "error", err)
		fmt.Fprintf(os.Stderr, "Usage: run-id must be a UUIDv7\n")
		os.Exit(exitcode.ConfigError)
	}

	// Ensure environment variables are loaded
	if err := godotenv.Load(); err != nil {
		slog.Warn("failed to load env vars", "error", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(exitcode.ConfigError)
	}

	// Create a cancellable context (for graceful shutdown)
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize MinIO client
	minioCfg := storage.MinIOConfig{
		Endpoint:  cfg.MinIOEndpoint,
		AccessKey: cfg.MinIOAccessKey,
		SecretKey: cfg.MinIOSecretKey,
		Bucket:    cfg.MinIOBucket,
		UseSSL:    cfg.MinIOUseSSL,
	}
	minioClient, err := storage.NewMinIOClient(ctx, minioCfg)
	if err != nil {
		slog.Error("failed to initialize minio client", "error", err)
		os.Exit(exitcode.StorageError)
	}

	counter := tally.NewCounter()
	store := tally.WrapStore(minioClient, counter)

	// Downloads retry the initial GET on transient failures; the body
	// stream itself is not retried, a mid-stream failure fails the file.
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = cfg.HTTPTimeout

	streamer := relay.NewStreamer(store, retryClient.StandardClient(), cfg.PartSize, cfg.ChunkSize)
	svc := ingest.NewService(store, streamer, counter, ingest.Options{
		PathPrefix:    cfg.PathPrefix,
		ParametersKey: cfg.ParametersKey,
		Concurrency:   cfg.Concurrency,
	})

	result, err := svc.Run(ctx, runID)
	if err != nil {
		slog.Error("ingestion run failed", "error", err, "run_id", runID)
		os.Exit(exitcode.StorageError)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		slog.Error("failed to encode run result", "error", err)
		os.Exit(exitcode.StorageError)
	}
	fmt.Println(string(out))

	if result.Summary.Failed > 0 {
		os.Exit(exitcode.PartialFailure)
	}
}
