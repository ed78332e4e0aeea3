// Package compile implements the file discovery, filtering, and aggregation
// pipeline that turns a project directory into one or more structured output
// documents.
//
// The pipeline stages are: PathMatcher (filter rules), WalkTree
// (deterministic traversal), Ingestor over a worker pool (parallel reads),
// Aggregator (ordering and size-bounded chunking), and Renderer
// (Markdown/HTML/JSON serialization). Run wires them together.
package compile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Pipeline is one configured run of the compilation pipeline.
type Pipeline struct {
	cfg        Configuration
	matcher    *PathMatcher
	classifier TextClassifier
	counter    TokenCounter
	renderer   Renderer
	logger     *zap.Logger
}

// NewPipeline validates cfg and compiles its filter rules. Configuration
// problems surface here as a ConfigError, before any directory I/O.
func NewPipeline(cfg Configuration, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	matcher, err := NewPathMatcher(&cfg, logger)
	if err != nil {
		return nil, err
	}

	counter, err := newTokenCounter(cfg.Tokenizer)
	if err != nil {
		return nil, err
	}

	renderer, err := NewRenderer(cfg.Format, RenderOptions{
		StartMarker:     cfg.StartMarker,
		EndMarker:       cfg.EndMarker,
		IncludeMetadata: cfg.IncludeMetadata,
	})
	if err != nil {
		return nil, err
	}

	classifier := cfg.Classifier
	if classifier == nil {
		classifier = NewTextClassifier()
	}

	return &Pipeline{
		cfg:        cfg,
		matcher:    matcher,
		classifier: classifier,
		counter:    counter,
		renderer:   renderer,
		logger:     logger,
	}, nil
}

// Run executes the full pipeline and returns the run summary. Per-file
// failures are recorded and skipped; only configuration problems, a cancelled
// context, and a run yielding zero readable files are fatal.
func Run(ctx context.Context, cfg Configuration, logger *zap.Logger) (*Summary, error) {
	p, err := NewPipeline(cfg, logger)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx)
}

// Run walks the tree, ingests candidates in parallel, restores traversal
// order, chunks, renders, and writes the output documents.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	startTime := time.Now()
	p.logger.Info("Starting compilation", zap.String("root", p.cfg.RootDir))

	walk, err := WalkTree(p.cfg.RootDir, p.matcher, p.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", p.cfg.RootDir, err)
	}
	if len(walk.Files) == 0 {
		return nil, fmt.Errorf("%w: nothing matched under %s", ErrNoFiles, p.cfg.RootDir)
	}
	p.logger.Debug("Collected candidate files", zap.Int("count", len(walk.Files)))

	ingestor := NewIngestor(p.cfg.RootDir, p.classifier, p.counter, p.cfg.MaxFileSizeKB, p.logger)
	results, err := ingestAll(ctx, ingestor, walk.Files, p.cfg.MaxWorkers, p.logger)
	if err != nil {
		return nil, err
	}

	aggregator := NewAggregator(p.cfg.LimitBytes, p.renderer, p.cfg.Observer, p.logger)
	records, skipped := aggregator.Order(results)
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: all %d candidates were skipped", ErrNoFiles, len(skipped))
	}

	chunks := aggregator.Chunk(records, walk.Tree)
	infos, err := writeChunks(ctx, chunks, p.renderer, &p.cfg, p.logger)
	if err != nil {
		return nil, err
	}

	summary := buildSummary(records, skipped, chunks, infos, time.Since(startTime))
	p.logger.Info("Compilation completed",
		zap.Int("files", summary.FilesIncluded),
		zap.Int("skippedBinary", summary.SkippedBinary),
		zap.Int("skippedErrors", summary.SkippedErrors),
		zap.Int("chunks", len(summary.Chunks)),
		zap.Int64("totalBytes", summary.TotalBytes),
		zap.Duration("elapsed", summary.Elapsed))
	return summary, nil
}

func buildSummary(records []*FileRecord, skipped []*SkippedMarker, chunks []*OutputChunk, infos []ChunkInfo, elapsed time.Duration) *Summary {
	summary := &Summary{
		FilesIncluded: len(records),
		Chunks:        infos,
		Elapsed:       elapsed,
	}
	for _, s := range skipped {
		if s.Reason == SkipBinary {
			summary.SkippedBinary++
		} else {
			summary.SkippedErrors++
		}
	}
	for _, c := range chunks {
		if c.Oversize {
			summary.OversizeChunks++
		}
	}
	for _, info := range infos {
		summary.TotalBytes += info.Bytes
		summary.TotalTokens += info.Tokens
	}
	return summary
}
