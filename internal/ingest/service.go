package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dxb-open-data/ingestion-go/internal/model"
	"github.com/dxb-open-data/ingestion-go/internal/relay"
	"github.com/dxb-open-data/ingestion-go/internal/storage"
	"github.com/dxb-open-data/ingestion-go/internal/tally"
)

// Parameters is the job configuration document stored alongside the data.
type Parameters struct {
	FileURLs []string `json:"file_urls"`
}

// Streamer relays one source URL into the object store.
type Streamer interface {
	Stream(ctx context.Context, url, key string) relay.FileResult
}

// Options configures a run.
type Options struct {
	PathPrefix    string
	ParametersKey string
	Concurrency   int
}

// Summary aggregates per-file outcomes.
type Summary struct {
	TotalFiles int   `json:"total_files"`
	Successful int   `json:"successful"`
	Failed     int   `json:"failed"`
	TotalBytes int64 `json:"total_bytes"`
}

// RunResult is the structured outcome of one ingestion run.
type RunResult struct {
	Message        string               `json:"message"`
	ElapsedSeconds float64              `json:"elapsed_seconds"`
	Summary        Summary              `json:"summary"`
	StoreCalls     map[tally.Kind]int64 `json:"store_calls"`
	Results        []relay.FileResult   `json:"results"`
}

// Service orchestrates one ingestion run: load the job parameters from the
// store, relay every source URL under the concurrency gate, aggregate.
type Service struct {
	store    relay.ObjectStore
	streamer Streamer
	counter  *tally.Counter
	opts     Options
}

func NewService(store relay.ObjectStore, streamer Streamer, counter *tally.Counter, opts Options) *Service {
	return &Service{store: store, streamer: streamer, counter: counter, opts: opts}
}

// Run executes the ingestion job. Only configuration-level failures return
// an error; per-file failures are folded into the result.
func (s *Service) Run(ctx context.Context, runID model.RunID) (*RunResult, error) {
	start := time.Now()

	params, err := s.loadParameters(ctx)
	if err != nil {
		return nil, fmt.Errorf("load job parameters: %w", err)
	}

	if len(params.FileURLs) == 0 {
		slog.InfoContext(ctx, "no source urls configured", "run_id", runID, "parameters_key", s.opts.ParametersKey)
		return s.buildResult(start, "no files to ingest", nil), nil
	}

	date := start.UTC()
	slog.InfoContext(ctx, "ingestion plan", "run_id", runID, "files", len(params.FileURLs), "prefix", s.opts.PathPrefix, "concurrency", s.opts.Concurrency)

	// One session per URL behind the gate. Sessions absorb their own
	// errors into FileResults, so the group never cancels siblings.
	results := make([]relay.FileResult, len(params.FileURLs))
	group := new(errgroup.Group)
	group.SetLimit(s.opts.Concurrency)
	for i, fileURL := range params.FileURLs {
		key := storage.ObjectKey{
			Prefix: s.opts.PathPrefix,
			Date:   date,
			Suffix: storage.ResolveSuffix(fileURL),
		}
		group.Go(func() error {
			results[i] = s.streamer.Stream(ctx, fileURL, key.Key())
			return nil
		})
	}
	_ = group.Wait()

	summary := summarize(results)
	message := fmt.Sprintf("data ingestion completed: %d successful, %d failed", summary.Successful, summary.Failed)
	result := s.buildResult(start, message, results)

	slog.InfoContext(ctx, "ingestion run finished", "run_id", runID,
		"total_files", summary.TotalFiles, "successful", summary.Successful,
		"failed", summary.Failed, "total_bytes", summary.TotalBytes,
		"elapsed_seconds", result.ElapsedSeconds, "store_calls", result.StoreCalls)
	return result, nil
}

func (s *Service) loadParameters(ctx context.Context) (*Parameters, error) {
	body, err := s.store.GetObject(ctx, s.opts.ParametersKey)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var params Parameters
	if err := json.NewDecoder(body).Decode(&params); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.opts.ParametersKey, err)
	}
	return &params, nil
}

func (s *Service) buildResult(start time.Time, message string, results []relay.FileResult) *RunResult {
	if results == nil {
		results = []relay.FileResult{}
	}
	return &RunResult{
		Message:        message,
		ElapsedSeconds: time.Since(start).Seconds(),
		Summary:        summarize(results),
		StoreCalls:     s.counter.Snapshot(),
		Results:        results,
	}
}

func summarize(results []relay.FileResult) Summary {
	summary := Summary{TotalFiles: len(results)}
	for _, result := range results {
		if result.Status.Success() {
			summary.Successful++
			// Failed sessions leave no object behind, so their bytes
			// stay out of the total.
			summary.TotalBytes += result.SizeBytes
		} else {
			summary.Failed++
		}
	}
	return summary
}
