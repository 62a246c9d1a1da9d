// Package fetcher implements the batched, idempotent requirement fetch:
// diff the equipment list against the cache, fetch the missing items with
// a bounded worker pool, merge, and persist after every batch.
package fetcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/osrskit/equipment-requirements/pkg/itemdb"
	"github.com/osrskit/equipment-requirements/pkg/ratelimit"
	"github.com/osrskit/equipment-requirements/pkg/store"
)

var fetchResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "itemdb_fetch_results_total",
	Help: "Total per-item fetch results by outcome",
}, []string{"outcome"})

// Config holds batch fetch configuration.
type Config struct {
	// BatchSize is the number of items fetched between persists.
	BatchSize int

	// MaxWorkers is the maximum number of parallel fetches within a batch.
	MaxWorkers int

	// BatchDelay is the pause between batches (not after the final one).
	BatchDelay time.Duration

	// FetchTimeout is the per-item fetch timeout.
	FetchTimeout time.Duration
}

// DefaultConfig returns safe defaults for the community file host.
func DefaultConfig() Config {
	return Config{
		BatchSize:    50,
		MaxWorkers:   10,
		BatchDelay:   ratelimit.DefaultDelay,
		FetchTimeout: itemdb.DefaultTimeout,
	}
}

// ItemFetcher is the per-item lookup the batch fetcher drives.
type ItemFetcher interface {
	FetchRequirements(ctx context.Context, itemID int) itemdb.Result
}

// Summary describes what a fetch run did.
type Summary struct {
	TotalEquipment int
	AlreadyCached  int
	Fetched        int
	Found          int
	Failed         int
	Batches        int
}

// Fetcher fetches missing requirement data in paced batches.
type Fetcher struct {
	client ItemFetcher
	config Config
	pacer  *ratelimit.Pacer
	logger zerolog.Logger
}

// New creates a batch fetcher. Zero sizes and timeout fall back to
// defaults; a zero delay disables pacing.
func New(client ItemFetcher, config Config) *Fetcher {
	defaults := DefaultConfig()
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = defaults.MaxWorkers
	}
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = defaults.FetchTimeout
	}

	logger := log.With().Str("component", "fetcher").Logger()

	return &Fetcher{
		client: client,
		config: config,
		pacer:  ratelimit.NewPacer(config.BatchDelay, logger),
		logger: logger,
	}
}

// Run computes the set of equipment ids missing from the cache, fetches
// them in batches, merges successful results, and persists the full cache
// to path after every batch. Item-level failures are logged and skipped;
// only a failed persist aborts the run. Re-running converges: cached ids
// are never fetched again.
func (f *Fetcher) Run(ctx context.Context, equipment []store.Equipment, reqs *store.Requirements, path string) (*Summary, error) {
	start := time.Now()

	toFetch := make([]int, 0, len(equipment))
	for _, item := range equipment {
		if !reqs.Has(item.ID) {
			toFetch = append(toFetch, item.ID)
		}
	}

	summary := &Summary{
		TotalEquipment: len(equipment),
		AlreadyCached:  len(equipment) - len(toFetch),
	}

	if len(toFetch) == 0 {
		f.logger.Info().
			Int("equipment", len(equipment)).
			Msg("All items already have requirements. Nothing to do")
		return summary, nil
	}

	totalBatches := (len(toFetch) + f.config.BatchSize - 1) / f.config.BatchSize

	f.logger.Info().
		Int("equipment", len(equipment)).
		Int("cached", summary.AlreadyCached).
		Int("to_fetch", len(toFetch)).
		Int("batches", totalBatches).
		Msg("Starting requirement fetch")

	for i := 0; i < len(toFetch); i += f.config.BatchSize {
		batch := toFetch[i:min(i+f.config.BatchSize, len(toFetch))]
		batchNum := i/f.config.BatchSize + 1

		results := f.fetchBatch(ctx, batch)

		// Workers have all joined; merge is single-threaded.
		batchFound := 0
		for _, result := range results {
			switch result.Outcome {
			case itemdb.OutcomeFound:
				if reqs.Add(result.ItemID, result.Requirements) {
					batchFound++
				}
			case itemdb.OutcomeFailed:
				summary.Failed++
			}
		}
		summary.Fetched += len(results)
		summary.Found += batchFound
		summary.Batches++

		if err := reqs.Save(path); err != nil {
			return summary, fmt.Errorf("persist requirements cache: %w", err)
		}

		f.logger.Info().
			Int("batch", batchNum).
			Int("batches", totalBatches).
			Int("items", len(batch)).
			Int("found", batchFound).
			Msg("Batch complete")

		if err := ctx.Err(); err != nil {
			f.logger.Warn().
				Int("fetched", summary.Fetched).
				Int("to_fetch", len(toFetch)).
				Msg("Fetch interrupted - partial cache persisted")
			return summary, err
		}

		if i+f.config.BatchSize < len(toFetch) {
			if err := f.pacer.Wait(ctx); err != nil {
				return summary, err
			}
		}
	}

	f.logger.Info().
		Int("fetched", summary.Fetched).
		Int("found", summary.Found).
		Int("failed", summary.Failed).
		Int("cache_total", reqs.Len()).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return summary, nil
}

// fetchBatch fetches one batch with a bounded worker pool and blocks until
// every worker has returned.
func (f *Fetcher) fetchBatch(ctx context.Context, ids []int) []itemdb.Result {
	idQueue := make(chan int, len(ids))
	results := make(chan itemdb.Result, len(ids))

	for _, id := range ids {
		idQueue <- id
	}
	close(idQueue)

	var wg sync.WaitGroup
	workers := min(f.config.MaxWorkers, len(ids))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go f.worker(ctx, idQueue, results, &wg, w)
	}

	// Close results channel when all workers are done
	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]itemdb.Result, 0, len(ids))
	for result := range results {
		fetchResultsTotal.WithLabelValues(string(result.Outcome)).Inc()

		if result.Outcome == itemdb.OutcomeFailed {
			f.logger.Warn().
				Err(result.Err).
				Int("item_id", result.ItemID).
				Msg("Item fetch failed")
		}

		collected = append(collected, result)
	}

	return collected
}

// worker processes item ids from the queue until it drains or the context
// is cancelled. Failures are reported as results, never aborting the pool.
func (f *Fetcher) worker(ctx context.Context, idQueue <-chan int, results chan<- itemdb.Result, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	processed := 0

	for itemID := range idQueue {
		select {
		case <-ctx.Done():
			f.logger.Debug().
				Int("worker_id", workerID).
				Int("processed", processed).
				Msg("Worker stopping (context cancelled)")
			return
		default:
		}

		fetchCtx, cancel := context.WithTimeout(ctx, f.config.FetchTimeout)
		results <- f.client.FetchRequirements(fetchCtx, itemID)
		cancel()

		processed++
	}

	if processed > 0 {
		f.logger.Debug().
			Int("worker_id", workerID).
			Int("processed", processed).
			Msg("Worker completed")
	}
}
