package compile

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// ingestJob is one unit of work for the pool: a candidate path and its
// position in the traversal order.
type ingestJob struct {
	relPath string
	index   int
}

// ingestAll fans candidate files out over a bounded worker pool. Each worker
// processes one file end-to-end and submits the outcome to a shared results
// channel; ordering is restored later by the aggregator. Cancellation drains
// the pool and returns ctx.Err without touching the filesystem further.
func ingestAll(ctx context.Context, ing *Ingestor, files []string, maxWorkers int, logger *zap.Logger) ([]ingestResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
		logger.Debug("Adjusted worker count", zap.Int("workers", maxWorkers))
	}
	if maxWorkers > len(files) && len(files) > 0 {
		maxWorkers = len(files)
	}

	jobs := make(chan ingestJob, len(files))
	results := make(chan ingestResult, len(files))

	var wg sync.WaitGroup
	logger.Debug("Initializing worker pool", zap.Int("workers", maxWorkers))
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		workerLogger := logger.With(zap.Int("workerID", w))
		go func() {
			defer wg.Done()
			ingestWorker(ctx, ing, jobs, results, workerLogger)
		}()
	}

	for i, file := range files {
		jobs <- ingestJob{relPath: file, index: i}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]ingestResult, 0, len(files))
	for res := range results {
		collected = append(collected, res)
	}

	// Workers abandon remaining jobs on cancellation, so a short result set
	// plus a cancelled context means the batch is incomplete and unusable.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Debug("All files processed", zap.Int("processedFiles", len(collected)))
	return collected, nil
}

// ingestWorker drains the jobs channel until it closes or the run is
// cancelled.
func ingestWorker(ctx context.Context, ing *Ingestor, jobs <-chan ingestJob, results chan<- ingestResult, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			logger.Debug("Worker cancelled")
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			results <- ing.Ingest(job.relPath, job.index)
		}
	}
}
